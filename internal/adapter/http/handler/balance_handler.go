package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/evenly/internal/adapter/http/dto"
	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GroupBalances(ctx context.Context, groupID string) ([]domain.MemberBalance, error)
	UserBalances(ctx context.Context, groupID, currentUser string) (*domain.UserBalances, error)
	GroupSummary(ctx context.Context, groupID string) (*domain.ExpenseSummary, error)
	OwedAcrossGroups(ctx context.Context, currentUser string) (*domain.CrossGroupOwed, error)
	CheckConservation(ctx context.Context) (*usecase.ConservationReport, error)
}

// BalanceHandler handles balance view HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// GroupBalances returns the gross owed/owes view for every group member.
func (h *BalanceHandler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	balances, err := h.balanceUC.GroupBalances(r.Context(), groupID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupBalancesFromDomain(groupID, balances))
}

// UserBalances returns the net balance view of one member against the rest
// of the group. The member is named by the "user" query parameter.
func (h *BalanceHandler) UserBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	user := r.URL.Query().Get("user")

	balances, err := h.balanceUC.UserBalances(r.Context(), groupID, user)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute user balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserBalancesFromDomain(balances))
}

// GroupSummary returns the time-bucketed expense summary of a group.
func (h *BalanceHandler) GroupSummary(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	summary, err := h.balanceUC.GroupSummary(r.Context(), groupID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseSummaryFromDomain(summary))
}

// OwedAcrossGroups returns what the user still owes across all groups.
func (h *BalanceHandler) OwedAcrossGroups(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")

	owed, err := h.balanceUC.OwedAcrossGroups(r.Context(), user)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute owed amounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CrossGroupOwedFromDomain(owed))
}

// Conservation recomputes every group and reports ledgers whose signed
// deltas do not sum to zero.
func (h *BalanceHandler) Conservation(w http.ResponseWriter, r *http.Request) {
	report, err := h.balanceUC.CheckConservation(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check conservation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConservationReportFromUseCase(report))
}
