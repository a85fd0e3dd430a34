package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// The balance engine turns a snapshot of expenses and settlements into
// derived, read-only balance views. All functions here are pure: they never
// mutate their inputs and hold no state across calls.
//
// Payer credit is self-exclusive: the payer is never charged their own
// share. For every non-payer split participant who is a group member, the
// participant is charged the per-person share and the payer is credited the
// same share, so for any single expense the signed deltas across the group
// sum to zero.
//
// Monetary accumulation iterates expenses and settlements in ascending date
// order, ties broken by insertion order, so results are deterministic for a
// given snapshot.

// MemberBalance is the gross owed/owes view for one group member. Both
// directions are tracked independently, not netted against each other.
type MemberBalance struct {
	Member     string
	OwedAmount decimal.Decimal
	OwesAmount decimal.Decimal
}

// UserDebt is a single counterparty entry in a user-relative view.
type UserDebt struct {
	User   string
	Amount decimal.Decimal
}

// UserBalances is the net balance view relative to one requesting user.
type UserBalances struct {
	TotalBalance decimal.Decimal
	YouOwe       []UserDebt
	YouAreOwed   []UserDebt
}

// OweDetail is one (group, creditor) pair the user still owes money on.
type OweDetail struct {
	GroupID string
	OwedTo  string
	Amount  decimal.Decimal
}

// CrossGroupOwed aggregates everything the user owes across all groups.
type CrossGroupOwed struct {
	TotalAmount decimal.Decimal
	OweDetails  []OweDetail
}

// MemberExpenseStats holds per-member totals for the expense summary.
type MemberExpenseStats struct {
	Member     string
	TotalPaid  decimal.Decimal
	TotalShare decimal.Decimal
}

// ExpenseSummary is the time-bucketed summary of a group's expenses.
type ExpenseSummary struct {
	TotalExpenses    decimal.Decimal
	MonthlyExpenses  map[string]decimal.Decimal
	ExpensesByMember []MemberExpenseStats
}

// ComputeGroupBalances computes the gross owed/owes accumulators for every
// group member, in group member order. Split participants outside the member
// list accrue nothing; an expense whose payer is outside the member list is
// skipped entirely, since crediting nobody would break conservation.
func ComputeGroupBalances(members []string, expenses []Expense, settlements []Settlement) ([]MemberBalance, error) {
	if err := checkLedgerInputs(members, expenses, settlements); err != nil {
		return nil, err
	}

	idx := memberIndex(members)
	owed := zeroAmounts(len(members))
	owes := zeroAmounts(len(members))

	for _, e := range sortedExpenses(expenses) {
		if !e.Splittable() {
			continue
		}

		payer, ok := idx[e.PaidBy]
		if !ok {
			continue
		}

		share := e.PerPersonShare()
		for _, s := range e.SplitAmong {
			if s == e.PaidBy {
				continue
			}
			participant, ok := idx[s]
			if !ok {
				continue
			}
			owes[participant] = owes[participant].Add(share)
			owed[payer] = owed[payer].Add(share)
		}
	}

	for _, s := range sortedSettlements(settlements) {
		if s.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if payer, ok := idx[s.PaidBy]; ok {
			owes[payer] = owes[payer].Sub(s.Amount)
		}
		if payee, ok := idx[s.PaidTo]; ok {
			owed[payee] = owed[payee].Sub(s.Amount)
		}
	}

	balances := make([]MemberBalance, len(members))
	for i, m := range members {
		balances[i] = MemberBalance{
			Member:     m,
			OwedAmount: floorAtZero(owed[i]),
			OwesAmount: floorAtZero(owes[i]),
		}
	}

	return balances, nil
}

// ComputeUserBalances computes the signed net balance of currentUser against
// every other group member. Positive means the other member owes the user.
// Zero-balance counterparties appear in neither list.
func ComputeUserBalances(currentUser string, members []string, expenses []Expense, settlements []Settlement) (*UserBalances, error) {
	if currentUser == "" {
		return nil, ErrEmptyUser
	}
	if err := checkLedgerInputs(members, expenses, settlements); err != nil {
		return nil, err
	}

	idx := memberIndex(members)
	net := zeroAmounts(len(members))

	for _, e := range sortedExpenses(expenses) {
		if !e.Splittable() {
			continue
		}

		share := e.PerPersonShare()
		switch {
		case e.PaidBy == currentUser:
			for _, s := range e.SplitAmong {
				if s == currentUser {
					continue
				}
				if participant, ok := idx[s]; ok {
					net[participant] = net[participant].Add(share)
				}
			}
		case e.InSplit(currentUser):
			if payer, ok := idx[e.PaidBy]; ok {
				net[payer] = net[payer].Sub(share)
			}
		}
	}

	for _, s := range sortedSettlements(settlements) {
		if s.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		switch {
		case s.PaidBy == currentUser:
			if payee, ok := idx[s.PaidTo]; ok {
				net[payee] = net[payee].Add(s.Amount)
			}
		case s.PaidTo == currentUser:
			if payer, ok := idx[s.PaidBy]; ok {
				net[payer] = net[payer].Sub(s.Amount)
			}
		}
	}

	result := &UserBalances{
		TotalBalance: decimal.Zero,
		YouOwe:       []UserDebt{},
		YouAreOwed:   []UserDebt{},
	}

	for i, m := range members {
		if m == currentUser {
			continue
		}
		result.TotalBalance = result.TotalBalance.Add(net[i])
		switch {
		case net[i].IsNegative():
			result.YouOwe = append(result.YouOwe, UserDebt{User: m, Amount: net[i].Neg()})
		case net[i].IsPositive():
			result.YouAreOwed = append(result.YouAreOwed, UserDebt{User: m, Amount: net[i]})
		}
	}

	sortDebtsDescending(result.YouOwe)
	sortDebtsDescending(result.YouAreOwed)

	return result, nil
}

// ComputeCrossGroupOwed aggregates, across every group the user belongs to,
// how much the user still owes each payer: per-person shares where the user
// is a split participant and not the payer, minus settlements from the user
// to that payer in the same group. Pairs reduced to zero or below are
// dropped, not shown as credits. Output order follows the groups list, then
// each group's member order.
func ComputeCrossGroupOwed(currentUser string, expenses []Expense, settlements []Settlement, groups []Group) (*CrossGroupOwed, error) {
	if currentUser == "" {
		return nil, ErrEmptyUser
	}
	if expenses == nil {
		return nil, ErrNilExpenses
	}
	if settlements == nil {
		return nil, ErrNilSettlements
	}
	if groups == nil {
		return nil, ErrNilGroups
	}

	// owed[groupID][payer] = remaining amount the user owes that payer
	owed := make(map[string]map[string]decimal.Decimal)
	accumulate := func(groupID, payer string, delta decimal.Decimal) {
		byPayer, ok := owed[groupID]
		if !ok {
			byPayer = make(map[string]decimal.Decimal)
			owed[groupID] = byPayer
		}
		byPayer[payer] = byPayer[payer].Add(delta)
	}

	for _, e := range sortedExpenses(expenses) {
		if !e.Splittable() {
			continue
		}
		if e.PaidBy == currentUser || !e.InSplit(currentUser) {
			continue
		}
		accumulate(e.GroupID, e.PaidBy, e.PerPersonShare())
	}

	for _, s := range sortedSettlements(settlements) {
		if s.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if s.PaidBy != currentUser {
			continue
		}
		accumulate(s.GroupID, s.PaidTo, s.Amount.Neg())
	}

	result := &CrossGroupOwed{
		TotalAmount: decimal.Zero,
		OweDetails:  []OweDetail{},
	}

	for _, g := range groups {
		byPayer, ok := owed[g.ID]
		if !ok {
			continue
		}
		for _, m := range g.Members {
			amount, ok := byPayer[m]
			if !ok || amount.LessThanOrEqual(decimal.Zero) {
				continue
			}
			result.OweDetails = append(result.OweDetails, OweDetail{
				GroupID: g.ID,
				OwedTo:  m,
				Amount:  amount,
			})
			result.TotalAmount = result.TotalAmount.Add(amount)
		}
	}

	return result, nil
}

// ComputeExpenseSummary computes the group's total spend, spend bucketed by
// calendar month, and per-member paid/share totals in group member order.
func ComputeExpenseSummary(members []string, expenses []Expense) (*ExpenseSummary, error) {
	if members == nil {
		return nil, ErrNilMembers
	}
	if expenses == nil {
		return nil, ErrNilExpenses
	}

	idx := memberIndex(members)
	paid := zeroAmounts(len(members))
	shares := zeroAmounts(len(members))

	summary := &ExpenseSummary{
		TotalExpenses:   decimal.Zero,
		MonthlyExpenses: make(map[string]decimal.Decimal),
	}

	for _, e := range sortedExpenses(expenses) {
		if !e.Splittable() {
			continue
		}

		summary.TotalExpenses = summary.TotalExpenses.Add(e.Amount)

		month := e.Date.Format("2006-01")
		summary.MonthlyExpenses[month] = summary.MonthlyExpenses[month].Add(e.Amount)

		if payer, ok := idx[e.PaidBy]; ok {
			paid[payer] = paid[payer].Add(e.Amount)
		}

		share := e.PerPersonShare()
		for _, s := range e.SplitAmong {
			if participant, ok := idx[s]; ok {
				shares[participant] = shares[participant].Add(share)
			}
		}
	}

	summary.ExpensesByMember = make([]MemberExpenseStats, len(members))
	for i, m := range members {
		summary.ExpensesByMember[i] = MemberExpenseStats{
			Member:     m,
			TotalPaid:  paid[i],
			TotalShare: shares[i],
		}
	}

	return summary, nil
}

func checkLedgerInputs(members []string, expenses []Expense, settlements []Settlement) error {
	if members == nil {
		return ErrNilMembers
	}
	if expenses == nil {
		return ErrNilExpenses
	}
	if settlements == nil {
		return ErrNilSettlements
	}
	return nil
}

func zeroAmounts(n int) []decimal.Decimal {
	amounts := make([]decimal.Decimal, n)
	for i := range amounts {
		amounts[i] = decimal.Zero
	}
	return amounts
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func sortedExpenses(expenses []Expense) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func sortedSettlements(settlements []Settlement) []Settlement {
	out := make([]Settlement, len(settlements))
	copy(out, settlements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func sortDebtsDescending(debts []UserDebt) {
	sort.SliceStable(debts, func(i, j int) bool {
		return debts[i].Amount.GreaterThan(debts[j].Amount)
	})
}
