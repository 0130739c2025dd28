package services

import (
	"time"

	portsrepo "github.com/SscSPs/fund_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
)

// NewServiceContainer wires the service layer over the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, notifier portssvc.Notifier, lockHold time.Duration) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo, repos.LockRepo)
	transferSvc := NewTransferService(repos.TransactionRepo, accountSvc, notifier, lockHold)

	return &portssvc.ServiceContainer{
		Account:  accountSvc,
		Transfer: transferSvc,
	}
}
