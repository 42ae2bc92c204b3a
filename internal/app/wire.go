package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordrush/platform/internal/auth"
	"github.com/wordrush/platform/internal/game"
	"github.com/wordrush/platform/internal/guard"
	"github.com/wordrush/platform/internal/handler"
	"github.com/wordrush/platform/internal/ledger"
	"github.com/wordrush/platform/internal/projection"
	"github.com/wordrush/platform/internal/repository"
	"github.com/wordrush/platform/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	JWTMgr *auth.JWTManager
	Logger *slog.Logger

	// Request guard limits, per player per minute.
	GuessRateLimit  int
	TicketRateLimit int

	// Deterministic word selection for local demos.
	DemoWordSelection bool

	// CORS origin allowed on responses ("*" allows all).
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	profileRepo := repository.NewProfileRepository()
	sessionRepo := repository.NewSessionRepository()
	boardRepo := repository.NewLeaderboardRepository()
	periodRepo := repository.NewPeriodRepository()
	entitlementRepo := repository.NewEntitlementRepository()
	vaultRepo := repository.NewVaultRepository()
	entryRepo := repository.NewVaultEntryRepository()
	configRepo := repository.NewConfigRepository()
	outboxRepo := repository.NewOutboxRepository()
	authUserRepo := repository.NewAuthUserRepository()
	delegationRepo := repository.NewDelegationRepository()

	// Ledger engine and read-side cache
	ledgerEngine := ledger.NewEngine(vaultRepo, entryRepo, entitlementRepo, outboxRepo)
	cache := projection.NewInMemoryStore()

	var selector game.Selector = game.NewSecureSelector()
	if deps.DemoWordSelection {
		selector = game.NewDemoSelector()
	}

	// Services
	authSvc := service.NewAuthService(pool, authUserRepo, profileRepo, outboxRepo, jwtMgr, logger)
	gameSvc := service.NewGameService(pool, profileRepo, sessionRepo, boardRepo, configRepo,
		outboxRepo, ledgerEngine, selector, cache, logger)
	prizeSvc := service.NewPrizeService(pool, boardRepo, periodRepo, entitlementRepo, configRepo,
		outboxRepo, ledgerEngine, cache, logger)
	adminSvc := service.NewAdminService(pool, configRepo, vaultRepo, entryRepo, ledgerEngine, cache, logger)
	delegationSvc := service.NewDelegationService(pool, sessionRepo, delegationRepo, gameSvc, logger)

	// Request guards
	guessLimit := guard.NewRateLimiter(deps.GuessRateLimit, time.Minute)
	ticketLimit := guard.NewRateLimiter(deps.TicketRateLimit, time.Minute)
	idem := guard.NewIdempotencyGuard()

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	gameHandler := handler.NewGameHandler(gameSvc, guessLimit, ticketLimit, idem)
	prizeHandler := handler.NewPrizeHandler(prizeSvc)
	delegationHandler := handler.NewDelegationHandler(delegationSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, prizeSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Public standings
	r.Get("/leaderboards/{granularity}", prizeHandler.GetLeaderboard)
	r.Get("/periods/{granularity}/{period}", prizeHandler.GetPeriod)

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePlayer(jwtMgr))

		r.Get("/profile", gameHandler.GetProfile)

		r.Route("/game", func(r chi.Router) {
			r.Post("/ticket", gameHandler.BuyTicket)
			r.Post("/session", gameHandler.StartSession)
			r.Get("/session", gameHandler.GetSession)
			r.Post("/guess", gameHandler.SubmitGuess)
			r.Post("/complete", gameHandler.CompleteSession)
			r.Post("/keystrokes", gameHandler.RecordKeystrokes)

			r.Route("/delegation", func(r chi.Router) {
				r.Post("/export", delegationHandler.Export)
				r.Post("/apply", delegationHandler.Apply)
				r.Post("/reconcile", delegationHandler.Reconcile)
			})
		})

		r.Route("/prizes", func(r chi.Router) {
			r.Get("/", prizeHandler.ListEntitlements)
			r.Post("/claim", prizeHandler.ClaimPrize)
		})
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Get("/config", adminHandler.GetConfig)
		r.Get("/vaults", adminHandler.GetVaults)
		r.Get("/vaults/{kind}/entries", adminHandler.ListVaultEntries)

		// Mutations require a write-capable role.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.WriteRoles()...))

			r.Post("/init", adminHandler.InitGame)
			r.Patch("/config", adminHandler.UpdateConfig)
			r.Post("/vaults/fund", adminHandler.FundVault)
			r.Post("/revenue/withdraw", adminHandler.WithdrawRevenue)
			r.Post("/periods/finalize", adminHandler.FinalizePeriod)
		})
	})

	return r
}
