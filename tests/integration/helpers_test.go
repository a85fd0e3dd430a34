package integration

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	postgresRepo "github.com/iho/evenly/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/evenly/internal/adapter/repository/redis"
	"github.com/iho/evenly/internal/usecase"
	"github.com/iho/evenly/tests/testutil"
)

// stack bundles the fully wired use case layer for integration tests.
type stack struct {
	db           *testutil.TestDB
	pool         *pgxpool.Pool
	redis        *goredis.Client
	groupRepo    *postgresRepo.GroupRepository
	expenseRepo  *postgresRepo.ExpenseRepository
	outboxRepo   *postgresRepo.OutboxRepository
	auditRepo    *postgresRepo.AuditRepository
	groupUC      *usecase.GroupUseCase
	expenseUC    *usecase.ExpenseUseCase
	settlementUC *usecase.SettlementUseCase
	balanceUC    *usecase.BalanceUseCase
}

func newStack(t *testing.T) *stack {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	redisClient := testutil.NewTestRedis(t)

	txManager := postgresRepo.NewTxManager(pool)
	groupRepo := postgresRepo.NewGroupRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	retrier := postgresRepo.NewRetrier()

	return &stack{
		db:          testDB,
		pool:        pool,
		redis:       redisClient,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		groupUC:     usecase.NewGroupUseCase(txManager, groupRepo, outboxRepo, auditRepo, idGen),
		expenseUC: usecase.NewExpenseUseCase(txManager, groupRepo, expenseRepo, outboxRepo, auditRepo, idGen, cache).
			WithRetrier(retrier),
		settlementUC: usecase.NewSettlementUseCase(txManager, groupRepo, settlementRepo, outboxRepo, auditRepo, idGen, cache).
			WithRetrier(retrier),
		balanceUC: usecase.NewBalanceUseCase(groupRepo, expenseRepo, settlementRepo, cache),
	}
}
