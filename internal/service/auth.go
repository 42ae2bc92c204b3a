package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordrush/platform/internal/auth"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/guard"
	"github.com/wordrush/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles player registration and login.
type AuthService struct {
	pool     *pgxpool.Pool
	users    repository.AuthUserRepository
	profiles repository.ProfileRepository
	outbox   repository.OutboxRepository
	jwtMgr   *auth.JWTManager
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	pool *pgxpool.Pool,
	users repository.AuthUserRepository,
	profiles repository.ProfileRepository,
	outbox repository.OutboxRepository,
	jwtMgr *auth.JWTManager,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		pool:     pool,
		users:    users,
		profiles: profiles,
		outbox:   outbox,
		jwtMgr:   jwtMgr,
		logger:   logger,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token    string    `json:"token"`
	PlayerID uuid.UUID `json:"player_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

// Register creates a new player account within a single transaction:
// the credential record and the empty lifetime profile land together.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	playerID := uuid.New()

	authUser := &domain.AuthUser{
		ID:           playerID,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, tx, authUser); err != nil {
		return nil, domain.ErrInternal("create auth user", err)
	}

	profile := &domain.PlayerProfile{
		PlayerID: playerID,
		Username: input.Username,
	}
	if err := s.profiles.Create(ctx, tx, profile); err != nil {
		return nil, domain.ErrInternal("create profile", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewProfileCreatedEvent(playerID, input.Username)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmPlayer, playerID, input.Email, "")
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	s.logger.Info("player registered", "player_id", playerID, "username", input.Username)

	return &AuthResult{
		Token:    token,
		PlayerID: playerID,
		Email:    input.Email,
		Username: input.Username,
	}, nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IP       string `json:"-"`
}

// Login authenticates a player and returns a JWT. Repeated failures
// within the lockout window lock the account.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := guard.CheckLocked(ctx, s.pool, input.Email, string(auth.RealmPlayer)); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, s.pool, input.Email)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		guard.RecordAttempt(ctx, s.pool, input.Email, string(auth.RealmPlayer), input.IP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		guard.RecordAttempt(ctx, s.pool, input.Email, string(auth.RealmPlayer), input.IP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	guard.RecordAttempt(ctx, s.pool, input.Email, string(auth.RealmPlayer), input.IP, true)

	profile, err := s.profiles.FindByPlayerID(ctx, s.pool, user.ID)
	if err != nil {
		return nil, domain.ErrInternal("find profile", err)
	}
	username := ""
	if profile != nil {
		username = profile.Username
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmPlayer, user.ID, user.Email, "")
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{
		Token:    token,
		PlayerID: user.ID,
		Email:    user.Email,
		Username: username,
	}, nil
}
