package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/service"
)

// PrizeHandler handles the leaderboard and prize endpoints.
type PrizeHandler struct {
	prizeSvc *service.PrizeService
}

// NewPrizeHandler creates a new PrizeHandler.
func NewPrizeHandler(prizeSvc *service.PrizeService) *PrizeHandler {
	return &PrizeHandler{prizeSvc: prizeSvc}
}

// GetLeaderboard handles GET /leaderboards/{granularity}. The period
// query parameter defaults to the current period; a player query
// parameter adds that player's rank to the view.
func (h *PrizeHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	g := domain.Granularity(chi.URLParam(r, "granularity"))
	periodID := r.URL.Query().Get("period")

	var viewer *uuid.UUID
	if p := r.URL.Query().Get("player"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid player id"))
			return
		}
		viewer = &id
	}

	lb, err := h.prizeSvc.GetLeaderboard(r.Context(), g, periodID, viewer)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, lb)
}

// GetPeriod handles GET /periods/{granularity}/{period}.
func (h *PrizeHandler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	g := domain.Granularity(chi.URLParam(r, "granularity"))
	periodID := chi.URLParam(r, "period")

	state, err := h.prizeSvc.GetPeriod(r.Context(), g, periodID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, state)
}

// ListEntitlements handles GET /prizes.
func (h *PrizeHandler) ListEntitlements(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	ents, err := h.prizeSvc.ListEntitlements(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, ents)
}

type claimPrizeRequest struct {
	Granularity domain.Granularity `json:"granularity"`
	PeriodID    string             `json:"period_id"`
}

// ClaimPrize handles POST /prizes/claim.
func (h *PrizeHandler) ClaimPrize(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req claimPrizeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.prizeSvc.ClaimPrize(r.Context(), playerID, req.Granularity, req.PeriodID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}
