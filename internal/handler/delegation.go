package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/service"
)

// DelegationHandler handles the session handoff endpoints.
type DelegationHandler struct {
	delegationSvc *service.DelegationService
}

// NewDelegationHandler creates a new DelegationHandler.
func NewDelegationHandler(delegationSvc *service.DelegationService) *DelegationHandler {
	return &DelegationHandler{delegationSvc: delegationSvc}
}

// Export handles POST /game/delegation/export.
func (h *DelegationHandler) Export(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	d, err := h.delegationSvc.Export(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, d)
}

type applyDelegationRequest struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

// Apply handles POST /game/delegation/apply.
func (h *DelegationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req applyDelegationRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if len(req.Snapshot) == 0 {
		RespondError(w, domain.ErrValidation("snapshot is required"))
		return
	}

	if err := h.delegationSvc.Apply(r.Context(), playerID, req.Snapshot); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// Reconcile handles POST /game/delegation/reconcile.
func (h *DelegationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	playerID, err := authedPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	session, err := h.delegationSvc.Reconcile(r.Context(), playerID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, session)
}
