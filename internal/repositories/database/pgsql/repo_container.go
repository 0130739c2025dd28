package pgsql

import (
	portsrepo "github.com/SscSPs/fund_transfer_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	lockRepo := newPgxLockRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)

	return &portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		LockRepo:        lockRepo,
		TransactionRepo: transactionRepo,
	}
}
