package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/auth"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/guard"
	"github.com/wordrush/platform/internal/service"
)

// GameHandler handles the play-loop endpoints: ticket purchase,
// session lifecycle, and guess submission.
type GameHandler struct {
	gameSvc     *service.GameService
	guessLimit  *guard.RateLimiter
	ticketLimit *guard.RateLimiter
	idem        *guard.IdempotencyGuard
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameSvc *service.GameService, guessLimit, ticketLimit *guard.RateLimiter, idem *guard.IdempotencyGuard) *GameHandler {
	return &GameHandler{
		gameSvc:     gameSvc,
		guessLimit:  guessLimit,
		ticketLimit: ticketLimit,
		idem:        idem,
	}
}

// authedPlayer extracts the authenticated player's id from the request.
func authedPlayer(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject in token")
	}
	return id, nil
}

func guardDenied(w http.ResponseWriter, result domain.GuardResult) bool {
	if result.Allowed {
		return false
	}
	RespondJSON(w, http.StatusTooManyRequests, map[string]string{
		"code":    "RATE_LIMITED",
		"message": result.Reason,
	})
	return true
}

// GetProfile handles GET /profile.
func (h *GameHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	profile, err := h.gameSvc.GetProfile(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, profile)
}

type buyTicketRequest struct {
	ExternalRef string `json:"external_ref"`
}

// BuyTicket handles POST /game/ticket.
func (h *GameHandler) BuyTicket(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if guardDenied(w, h.ticketLimit.Check(r.Context(), guard.PlayerOpKey(playerID, "ticket"))) {
		return
	}

	var req buyTicketRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.ExternalRef == "" {
		RespondError(w, domain.ErrValidation("external_ref is required"))
		return
	}

	// Fast in-process dedup; the ledger's external-ref index is the
	// durable backstop.
	if check := h.idem.Check(r.Context(), "ticket:"+req.ExternalRef); !check.Allowed {
		RespondJSON(w, http.StatusConflict, map[string]string{
			"code":    "DUPLICATE_REQUEST",
			"message": check.Reason,
		})
		return
	}

	result, err := h.gameSvc.BuyTicket(r.Context(), playerID, req.ExternalRef)
	if err != nil {
		h.idem.Remove("ticket:" + req.ExternalRef)
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// StartSession handles POST /game/session.
func (h *GameHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	session, err := h.gameSvc.StartSession(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /game/session.
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	session, err := h.gameSvc.GetSession(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, session)
}

type submitGuessRequest struct {
	Guess string `json:"guess"`
}

// SubmitGuess handles POST /game/guess.
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	if guardDenied(w, h.guessLimit.Check(r.Context(), guard.PlayerOpKey(playerID, "guess"))) {
		return
	}

	var req submitGuessRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.gameSvc.SubmitGuess(r.Context(), playerID, req.Guess)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// CompleteSession handles POST /game/complete.
func (h *GameHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	result, err := h.gameSvc.CompleteSession(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

type keystrokesRequest struct {
	Keystrokes []domain.Keystroke `json:"keystrokes"`
}

// RecordKeystrokes handles POST /game/keystrokes.
func (h *GameHandler) RecordKeystrokes(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req keystrokesRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if len(req.Keystrokes) == 0 {
		RespondJSON(w, http.StatusAccepted, nil)
		return
	}

	if err := h.gameSvc.RecordKeystrokes(r.Context(), playerID, req.Keystrokes); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusAccepted, nil)
}
