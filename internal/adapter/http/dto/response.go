package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/evenly/internal/domain"
	"github.com/iho/evenly/internal/usecase"
)

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupFromDomain converts a domain group to a response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Currency:  g.Currency,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GroupsFromDomain converts domain groups to responses.
func GroupsFromDomain(groups []*domain.Group) []*GroupResponse {
	result := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = GroupFromDomain(g)
	}
	return result
}

// ListGroupsResponse wraps a group listing.
type ListGroupsResponse struct {
	Groups []*GroupResponse `json:"groups"`
	Total  int64            `json:"total"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitAmong  []string        `json:"split_among"`
	InvoiceID   *string         `json:"invoice_id,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitAmong:  e.SplitAmong,
		InvoiceID:   e.InvoiceID,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i := range expenses {
		result[i] = ExpenseFromDomain(&expenses[i])
	}
	return result
}

// ListExpensesResponse wraps an expense listing.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// SettlementResponse represents a settlement in API responses.
type SettlementResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	PaidBy    string          `json:"paid_by"`
	PaidTo    string          `json:"paid_to"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// SettlementFromDomain converts a domain settlement to a response.
func SettlementFromDomain(s *domain.Settlement) *SettlementResponse {
	return &SettlementResponse{
		ID:        s.ID,
		GroupID:   s.GroupID,
		PaidBy:    s.PaidBy,
		PaidTo:    s.PaidTo,
		Amount:    s.Amount,
		Date:      s.Date,
		CreatedAt: s.CreatedAt,
	}
}

// SettlementsFromDomain converts domain settlements to responses.
func SettlementsFromDomain(settlements []domain.Settlement) []*SettlementResponse {
	result := make([]*SettlementResponse, len(settlements))
	for i := range settlements {
		result[i] = SettlementFromDomain(&settlements[i])
	}
	return result
}

// ListSettlementsResponse wraps a settlement listing.
type ListSettlementsResponse struct {
	Settlements []*SettlementResponse `json:"settlements"`
	Total       int64                 `json:"total"`
}

// MemberBalanceResponse represents one member's gross balance.
type MemberBalanceResponse struct {
	Member     string          `json:"member"`
	OwedAmount decimal.Decimal `json:"owed_amount"`
	OwesAmount decimal.Decimal `json:"owes_amount"`
}

// GroupBalancesResponse wraps a group's balance view.
type GroupBalancesResponse struct {
	GroupID  string                  `json:"group_id"`
	Balances []MemberBalanceResponse `json:"balances"`
}

// GroupBalancesFromDomain converts member balances to a response.
func GroupBalancesFromDomain(groupID string, balances []domain.MemberBalance) *GroupBalancesResponse {
	result := make([]MemberBalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = MemberBalanceResponse{
			Member:     b.Member,
			OwedAmount: b.OwedAmount,
			OwesAmount: b.OwesAmount,
		}
	}
	return &GroupBalancesResponse{GroupID: groupID, Balances: result}
}

// UserDebtResponse represents a single debt edge relative to a user.
type UserDebtResponse struct {
	User   string          `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

// UserBalancesResponse wraps a user-relative balance view.
type UserBalancesResponse struct {
	TotalBalance decimal.Decimal    `json:"total_balance"`
	YouOwe       []UserDebtResponse `json:"you_owe"`
	YouAreOwed   []UserDebtResponse `json:"you_are_owed"`
}

// UserBalancesFromDomain converts a user balance view to a response.
func UserBalancesFromDomain(b *domain.UserBalances) *UserBalancesResponse {
	return &UserBalancesResponse{
		TotalBalance: b.TotalBalance,
		YouOwe:       userDebtsFromDomain(b.YouOwe),
		YouAreOwed:   userDebtsFromDomain(b.YouAreOwed),
	}
}

func userDebtsFromDomain(debts []domain.UserDebt) []UserDebtResponse {
	result := make([]UserDebtResponse, len(debts))
	for i, d := range debts {
		result[i] = UserDebtResponse{User: d.User, Amount: d.Amount}
	}
	return result
}

// OweDetailResponse represents one outstanding debt in one group.
type OweDetailResponse struct {
	GroupID string          `json:"group_id"`
	OwedTo  string          `json:"owed_to"`
	Amount  decimal.Decimal `json:"amount"`
}

// CrossGroupOwedResponse wraps the cross-group owed view.
type CrossGroupOwedResponse struct {
	TotalAmount decimal.Decimal     `json:"total_amount"`
	OweDetails  []OweDetailResponse `json:"owe_details"`
}

// CrossGroupOwedFromDomain converts the cross-group owed view to a response.
func CrossGroupOwedFromDomain(o *domain.CrossGroupOwed) *CrossGroupOwedResponse {
	details := make([]OweDetailResponse, len(o.OweDetails))
	for i, d := range o.OweDetails {
		details[i] = OweDetailResponse{
			GroupID: d.GroupID,
			OwedTo:  d.OwedTo,
			Amount:  d.Amount,
		}
	}
	return &CrossGroupOwedResponse{
		TotalAmount: o.TotalAmount,
		OweDetails:  details,
	}
}

// MemberExpenseStatsResponse represents per-member expense totals.
type MemberExpenseStatsResponse struct {
	Member     string          `json:"member"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalShare decimal.Decimal `json:"total_share"`
}

// ExpenseSummaryResponse wraps the time-bucketed expense summary.
type ExpenseSummaryResponse struct {
	TotalExpenses    decimal.Decimal              `json:"total_expenses"`
	MonthlyExpenses  map[string]decimal.Decimal   `json:"monthly_expenses"`
	ExpensesByMember []MemberExpenseStatsResponse `json:"expenses_by_member"`
}

// ExpenseSummaryFromDomain converts an expense summary to a response.
func ExpenseSummaryFromDomain(s *domain.ExpenseSummary) *ExpenseSummaryResponse {
	byMember := make([]MemberExpenseStatsResponse, len(s.ExpensesByMember))
	for i, m := range s.ExpensesByMember {
		byMember[i] = MemberExpenseStatsResponse{
			Member:     m.Member,
			TotalPaid:  m.TotalPaid,
			TotalShare: m.TotalShare,
		}
	}
	return &ExpenseSummaryResponse{
		TotalExpenses:    s.TotalExpenses,
		MonthlyExpenses:  s.MonthlyExpenses,
		ExpensesByMember: byMember,
	}
}

// ConservationResultResponse reports one group that failed the check.
type ConservationResultResponse struct {
	GroupID    string          `json:"group_id"`
	GroupName  string          `json:"group_name"`
	Difference decimal.Decimal `json:"difference"`
}

// ConservationReportResponse wraps a full conservation check run.
type ConservationReportResponse struct {
	Consistent      bool                         `json:"consistent"`
	TotalGroups     int                          `json:"total_groups"`
	ConservedGroups int                          `json:"conserved_groups"`
	Violations      []ConservationResultResponse `json:"violations"`
	CheckedAt       time.Time                    `json:"checked_at"`
}

// ConservationReportFromUseCase converts a conservation report to a response.
func ConservationReportFromUseCase(report *usecase.ConservationReport) *ConservationReportResponse {
	violations := make([]ConservationResultResponse, len(report.Violations))
	for i, v := range report.Violations {
		violations[i] = ConservationResultResponse{
			GroupID:    v.GroupID,
			GroupName:  v.GroupName,
			Difference: v.Difference,
		}
	}
	return &ConservationReportResponse{
		Consistent:      len(report.Violations) == 0,
		TotalGroups:     report.TotalGroups,
		ConservedGroups: report.ConservedGroups,
		Violations:      violations,
		CheckedAt:       report.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
