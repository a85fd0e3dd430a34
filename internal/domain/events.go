package domain

import "time"

// Event types
const (
	EventTypeGroupCreated       = "group.created"
	EventTypeExpenseCreated     = "expense.created"
	EventTypeExpenseDeleted     = "expense.deleted"
	EventTypeSettlementRecorded = "settlement.recorded"
	EventTypeSettlementDeleted  = "settlement.deleted"
)

// Aggregate types
const (
	AggregateTypeGroup      = "group"
	AggregateTypeExpense    = "expense"
	AggregateTypeSettlement = "settlement"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// GroupCreatedEvent payload
type GroupCreatedEvent struct {
	GroupID  string   `json:"group_id"`
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Members  []string `json:"members"`
}

// ExpenseCreatedEvent payload
type ExpenseCreatedEvent struct {
	ExpenseID   string   `json:"expense_id"`
	GroupID     string   `json:"group_id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Currency    string   `json:"currency"`
	PaidBy      string   `json:"paid_by"`
	SplitAmong  []string `json:"split_among"`
	Date        string   `json:"date"`
}

// ExpenseDeletedEvent payload
type ExpenseDeletedEvent struct {
	ExpenseID string `json:"expense_id"`
	GroupID   string `json:"group_id"`
	Amount    string `json:"amount"`
}

// SettlementRecordedEvent payload
type SettlementRecordedEvent struct {
	SettlementID string `json:"settlement_id"`
	GroupID      string `json:"group_id"`
	PaidBy       string `json:"paid_by"`
	PaidTo       string `json:"paid_to"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Date         string `json:"date"`
}

// SettlementDeletedEvent payload
type SettlementDeletedEvent struct {
	SettlementID string `json:"settlement_id"`
	GroupID      string `json:"group_id"`
	Amount       string `json:"amount"`
}
