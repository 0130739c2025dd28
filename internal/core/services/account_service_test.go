package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/fund_transfer_app/internal/core/services"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryWithTx interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepositoryWithTx ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumberInTx(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Return a copy so a test's template account is not mutated in place
	acc := *args.Get(0).(*domain.Account)
	return &acc, args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, account domain.Account, expectedVersion int64) error {
	args := m.Called(ctx, tx, account, expectedVersion)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// WithinTx is a pass-through: the unit of work runs against the mocked
// in-tx methods, so no real transaction is needed.
func (m *MockAccountRepository) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// MockLockRepository is a mock type for the LockRepositoryFacade interface
type MockLockRepository struct {
	mock.Mock
}

func (m *MockLockRepository) FindLockByAccountInTx(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.AccountLock, error) {
	args := m.Called(ctx, tx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLock), args.Error(1)
}

func (m *MockLockRepository) SaveLockInTx(ctx context.Context, tx pgx.Tx, lock domain.AccountLock) error {
	args := m.Called(ctx, tx, lock)
	return args.Error(0)
}

func (m *MockLockRepository) DeleteLockInTx(ctx context.Context, tx pgx.Tx, accountNumber string) error {
	args := m.Called(ctx, tx, accountNumber)
	return args.Error(0)
}

func (m *MockLockRepository) DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLockRepo    *MockLockRepository
	service         portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLockRepo = new(MockLockRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockLockRepo)
}

func (suite *AccountServiceTestSuite) activeAccount(balance string) *domain.Account {
	return &domain.Account{
		AccountNumber: "ACC-1001",
		CustomerID:    "CUST-1",
		Balance:       decimal.RequireFromString(balance),
		CurrencyCode:  "USD",
		Status:        domain.AccountActive,
		Version:       7,
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
		UpdatedAt:     time.Now().UTC().Add(-time.Hour),
	}
}

// expectSweep registers the opportunistic expired-lock cleanup that precedes
// every lock-touching mutation.
func (suite *AccountServiceTestSuite) expectSweep() {
	suite.mockLockRepo.On("DeleteExpiredLocks", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
}

// --- CreateAccount ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC-2001",
		CustomerID:     "CUST-9",
		InitialBalance: decimal.RequireFromString("250.00"),
		CurrencyCode:   "EUR",
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(req.AccountNumber, created.AccountNumber)
	suite.Equal(req.CustomerID, created.CustomerID)
	suite.True(created.Balance.Equal(req.InitialBalance))
	suite.Equal(domain.AccountActive, created.Status)
	suite.Equal(int64(0), created.Version)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC-2002",
		CustomerID:     "CUST-9",
		InitialBalance: decimal.RequireFromString("-1.00"),
		CurrencyCode:   "EUR",
	}

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		AccountNumber:  "ACC-2003",
		CustomerID:     "CUST-9",
		InitialBalance: decimal.Zero,
		CurrencyCode:   "EUR",
	}
	expectedErr := assert.AnError

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(expectedErr).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, expectedErr)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- GetAccount / GetBalance ---

func (suite *AccountServiceTestSuite) TestGetAccount_Success() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	found, err := suite.service.GetAccount(ctx, account.AccountNumber)

	suite.Require().NoError(err)
	suite.Equal(account, found)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "ACC-MISSING").Return(nil, apperrors.ErrNotFound).Once()

	found, err := suite.service.GetAccount(ctx, "ACC-MISSING")

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetBalance_Success() {
	ctx := context.Background()
	account := suite.activeAccount("42.50")

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	balance, err := suite.service.GetBalance(ctx, account.AccountNumber)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("42.50")))
}

// --- LockFunds ---

func (suite *AccountServiceTestSuite) TestLockFunds_Success() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	amount := decimal.RequireFromString("40.00")
	expiry := time.Now().UTC().Add(5 * time.Minute)

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.MatchedBy(func(lock domain.AccountLock) bool {
		return lock.AccountNumber == account.AccountNumber &&
			lock.LockedBy == "txn-1" &&
			lock.LockExpiry.Equal(expiry)
	})).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.Equal(decimal.RequireFromString("60.00"))
	}), account.Version).Return(nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, amount, "txn-1", expiry)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockLockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestLockFunds_NonPositiveAmount() {
	ctx := context.Background()

	err := suite.service.LockFunds(ctx, "ACC-1001", decimal.Zero, "txn-1", time.Now().Add(time.Minute))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLockRepo.AssertNotCalled(suite.T(), "DeleteExpiredLocks", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestLockFunds_AccountNotActive() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	account.Status = domain.AccountSuspended

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLockRepo.AssertNotCalled(suite.T(), "SaveLockInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestLockFunds_AlreadyLocked() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	existing := &domain.AccountLock{
		AccountNumber: account.AccountNumber,
		LockedBy:      "txn-other",
		LockTime:      time.Now().UTC(),
		LockExpiry:    time.Now().UTC().Add(4 * time.Minute),
	}

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(existing, nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyLocked)
	suite.mockLockRepo.AssertNotCalled(suite.T(), "SaveLockInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestLockFunds_ExpiredLockReplaced() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	expired := &domain.AccountLock{
		AccountNumber: account.AccountNumber,
		LockedBy:      "txn-stale",
		LockTime:      time.Now().UTC().Add(-10 * time.Minute),
		LockExpiry:    time.Now().UTC().Add(-5 * time.Minute),
	}

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(expired, nil).Once()
	suite.mockLockRepo.On("DeleteLockInTx", ctx, nil, account.AccountNumber).Return(nil).Once()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().NoError(err)
	suite.mockLockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestLockFunds_InsufficientBalance() {
	ctx := context.Background()
	account := suite.activeAccount("5.00")

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockLockRepo.AssertNotCalled(suite.T(), "SaveLockInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestLockFunds_InsertRace_WinnerUnexpired() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	winner := &domain.AccountLock{
		AccountNumber: account.AccountNumber,
		LockedBy:      "txn-winner",
		LockTime:      time.Now().UTC(),
		LockExpiry:    time.Now().UTC().Add(4 * time.Minute),
	}

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	// No lock visible during the initial check, then the insert collides
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(apperrors.ErrDuplicate).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(winner, nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyLocked)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestLockFunds_InsertRace_WinnerExpired() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	lapsed := &domain.AccountLock{
		AccountNumber: account.AccountNumber,
		LockedBy:      "txn-lapsed",
		LockTime:      time.Now().UTC().Add(-10 * time.Minute),
		LockExpiry:    time.Now().UTC().Add(-time.Minute),
	}

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(apperrors.ErrDuplicate).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(lapsed, nil).Once()
	suite.mockLockRepo.On("DeleteLockInTx", ctx, nil, account.AccountNumber).Return(nil).Once()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().NoError(err)
	suite.mockLockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestLockFunds_RetriesOnVersionConflict() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Twice()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(nil).Twice()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(apperrors.ErrConcurrencyConflict).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestLockFunds_ConflictExhaustsRetries() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Times(3)
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Times(3)
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(nil).Times(3)
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(apperrors.ErrConcurrencyConflict).Times(3)

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestLockFunds_SweepFailureDoesNotBlock() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")

	suite.mockLockRepo.On("DeleteExpiredLocks", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), assert.AnError).Once()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("FindLockByAccountInTx", ctx, nil, account.AccountNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLockRepo.On("SaveLockInTx", ctx, nil, mock.AnythingOfType("domain.AccountLock")).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(nil).Once()

	err := suite.service.LockFunds(ctx, account.AccountNumber, decimal.RequireFromString("10.00"), "txn-1", time.Now().Add(time.Minute))

	suite.Require().NoError(err)
}

// --- UnlockFunds ---

func (suite *AccountServiceTestSuite) TestUnlockFunds_Success() {
	ctx := context.Background()
	account := suite.activeAccount("60.00")
	amount := decimal.RequireFromString("40.00")

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("DeleteLockInTx", ctx, nil, account.AccountNumber).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.Equal(decimal.RequireFromString("100.00"))
	}), account.Version).Return(nil).Once()

	err := suite.service.UnlockFunds(ctx, account.AccountNumber, amount)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockLockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUnlockFunds_RunsOnSuspendedAccount() {
	ctx := context.Background()
	account := suite.activeAccount("60.00")
	account.Status = domain.AccountSuspended

	suite.expectSweep()
	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockLockRepo.On("DeleteLockInTx", ctx, nil, account.AccountNumber).Return(nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.AnythingOfType("domain.Account"), account.Version).Return(nil).Once()

	err := suite.service.UnlockFunds(ctx, account.AccountNumber, decimal.RequireFromString("40.00"))

	suite.Require().NoError(err)
}

// --- ReleaseLock ---

func (suite *AccountServiceTestSuite) TestReleaseLock_Success() {
	ctx := context.Background()

	suite.expectSweep()
	suite.mockLockRepo.On("DeleteLockInTx", ctx, nil, "ACC-1001").Return(nil).Once()

	err := suite.service.ReleaseLock(ctx, "ACC-1001")

	suite.Require().NoError(err)
	suite.mockLockRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Credit / Debit ---

func (suite *AccountServiceTestSuite) TestCredit_Success() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")

	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.Equal(decimal.RequireFromString("125.00"))
	}), account.Version).Return(nil).Once()

	err := suite.service.Credit(ctx, account.AccountNumber, decimal.RequireFromString("25.00"))

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCredit_AccountClosed() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")
	account.Status = domain.AccountClosed

	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()

	err := suite.service.Credit(ctx, account.AccountNumber, decimal.RequireFromString("25.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDebit_Success() {
	ctx := context.Background()
	account := suite.activeAccount("100.00")

	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalanceInTx", ctx, nil, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.Equal(decimal.RequireFromString("75.00"))
	}), account.Version).Return(nil).Once()

	err := suite.service.Debit(ctx, account.AccountNumber, decimal.RequireFromString("25.00"))

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDebit_InsufficientBalance() {
	ctx := context.Background()
	account := suite.activeAccount("10.00")

	suite.mockAccountRepo.On("FindAccountByNumberInTx", ctx, nil, account.AccountNumber).Return(account, nil).Once()

	err := suite.service.Debit(ctx, account.AccountNumber, decimal.RequireFromString("25.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
