package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wordrush/platform/internal/auth"
	"github.com/wordrush/platform/internal/domain"
	"github.com/wordrush/platform/internal/service"
)

// AdminHandler handles the authority-side endpoints.
type AdminHandler struct {
	adminSvc *service.AdminService
	prizeSvc *service.PrizeService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc *service.AdminService, prizeSvc *service.PrizeService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, prizeSvc: prizeSvc}
}

func authedAdmin(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject in token")
	}
	return id, nil
}

type initGameRequest struct {
	TicketPrice  int64                          `json:"ticket_price"`
	PoolSplits   domain.PoolSplits              `json:"pool_splits"`
	WinnerSplits [domain.TopWinnersCount]uint16 `json:"winner_splits"`
}

// InitGame handles POST /admin/init.
func (h *AdminHandler) InitGame(w http.ResponseWriter, r *http.Request) {
	adminID, err := authedAdmin(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req initGameRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	cfg, err := h.adminSvc.InitGame(r.Context(), &domain.GameConfig{
		Authority:    adminID,
		TicketPrice:  req.TicketPrice,
		PoolSplits:   req.PoolSplits,
		WinnerSplits: req.WinnerSplits,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, cfg)
}

// GetConfig handles GET /admin/config.
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.adminSvc.GetConfig(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

// UpdateConfig handles PATCH /admin/config.
func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	adminID, err := authedAdmin(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var update service.ConfigUpdate
	if err := DecodeJSON(r, &update); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	cfg, err := h.adminSvc.UpdateConfig(r.Context(), adminID, update)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, cfg)
}

// GetVaults handles GET /admin/vaults.
func (h *AdminHandler) GetVaults(w http.ResponseWriter, r *http.Request) {
	balances, err := h.adminSvc.GetVaultBalances(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, balances)
}

// ListVaultEntries handles GET /admin/vaults/{kind}/entries.
func (h *AdminHandler) ListVaultEntries(w http.ResponseWriter, r *http.Request) {
	kind := domain.VaultKind(chi.URLParam(r, "kind"))

	entries, err := h.adminSvc.ListVaultEntries(r.Context(), kind, 50)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, entries)
}

type fundVaultRequest struct {
	Vault       domain.VaultKind `json:"vault"`
	Amount      int64            `json:"amount"`
	ExternalRef string           `json:"external_ref"`
}

// FundVault handles POST /admin/vaults/fund.
func (h *AdminHandler) FundVault(w http.ResponseWriter, r *http.Request) {
	var req fundVaultRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.adminSvc.FundVault(r.Context(), domain.FundVaultParams{
		Vault:       req.Vault,
		Amount:      req.Amount,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

type withdrawRevenueRequest struct {
	Amount      int64  `json:"amount"`
	ExternalRef string `json:"external_ref"`
}

// WithdrawRevenue handles POST /admin/revenue/withdraw.
func (h *AdminHandler) WithdrawRevenue(w http.ResponseWriter, r *http.Request) {
	var req withdrawRevenueRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.adminSvc.WithdrawRevenue(r.Context(), domain.WithdrawRevenueParams{
		Amount:      req.Amount,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

type finalizePeriodRequest struct {
	Granularity domain.Granularity `json:"granularity"`
	PeriodID    string             `json:"period_id"`
}

// FinalizePeriod handles POST /admin/periods/finalize.
func (h *AdminHandler) FinalizePeriod(w http.ResponseWriter, r *http.Request) {
	var req finalizePeriodRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.prizeSvc.FinalizePeriod(r.Context(), req.Granularity, req.PeriodID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}
