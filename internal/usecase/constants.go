package usecase

import "time"

const (
	// BalanceCacheTTL is how long computed group balances are cached.
	// Any expense or settlement mutation invalidates the group's entry
	// before the TTL expires; the TTL only bounds staleness after missed
	// invalidations.
	BalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// reconciliationPageSize is the page size used when walking all groups
	// for a conservation check.
	reconciliationPageSize = 10000
)
