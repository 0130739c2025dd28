package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
	"github.com/SscSPs/fund_transfer_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountNumber", h.getAccount)
		accounts.GET("/:accountNumber/balance", h.getBalance)
		accounts.POST("/:accountNumber/lock", h.lockFunds)
		accounts.POST("/:accountNumber/unlock", h.unlockFunds)
		accounts.POST("/:accountNumber/release", h.releaseLock)
		accounts.POST("/:accountNumber/credit", h.credit)
		accounts.POST("/:accountNumber/debit", h.debit)
	}
}

// writeServiceError maps service errors to HTTP responses. Errors outside the
// known taxonomy become a generic 500 without leaking internals.
func writeServiceError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new ledger account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Account number already exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Description Retrieves details for a specific account by its account number
// @Tags accounts
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{accountNumber} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	account, err := h.accountService.GetAccount(c.Request.Context(), accountNumber)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get an account's balance
// @Description Retrieves the current available balance of an account
// @Tags accounts
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Router /accounts/{accountNumber}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	account, err := h.accountService.GetAccount(c.Request.Context(), accountNumber)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
		CurrencyCode:  account.CurrencyCode,
	})
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves a paginated list of accounts
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		writeServiceError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// lockFunds godoc
// @Summary Reserve funds on an account
// @Description Debits the amount and records an exclusive reservation until expiry
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   lock body dto.LockFundsRequest true "Reservation details"
// @Success 204 "Funds locked"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account already locked or concurrent update"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 500 {object} map[string]string "Failed to lock funds"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/lock [post]
func (h *accountHandler) lockFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var req dto.LockFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LockFunds", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.LockFunds(c.Request.Context(), accountNumber, req.Amount, req.LockedBy, req.Expiry); err != nil {
		writeServiceError(c, err, "Failed to lock funds")
		return
	}

	c.Status(http.StatusNoContent)
}

// unlockFunds godoc
// @Summary Roll back a reservation
// @Description Removes the reservation and credits the amount back
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   unlock body dto.UnlockFundsRequest true "Amount to return"
// @Success 204 "Funds unlocked"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 500 {object} map[string]string "Failed to unlock funds"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/unlock [post]
func (h *accountHandler) unlockFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var req dto.UnlockFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UnlockFunds", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.UnlockFunds(c.Request.Context(), accountNumber, req.Amount); err != nil {
		writeServiceError(c, err, "Failed to unlock funds")
		return
	}

	c.Status(http.StatusNoContent)
}

// releaseLock godoc
// @Summary Finalize a reservation
// @Description Deletes the reservation row; the debit made at lock time becomes permanent
// @Tags accounts
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Success 204 "Lock released"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 500 {object} map[string]string "Failed to release lock"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/release [post]
func (h *accountHandler) releaseLock(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	if err := h.accountService.ReleaseLock(c.Request.Context(), accountNumber); err != nil {
		writeServiceError(c, err, "Failed to release lock")
		return
	}

	c.Status(http.StatusNoContent)
}

// credit godoc
// @Summary Credit an account
// @Description Adds the amount to the account balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   credit body dto.AmountRequest true "Amount to credit"
// @Success 204 "Credit applied"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 500 {object} map[string]string "Failed to credit account"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/credit [post]
func (h *accountHandler) credit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Credit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.Credit(c.Request.Context(), accountNumber, req.Amount); err != nil {
		writeServiceError(c, err, "Failed to credit account")
		return
	}

	c.Status(http.StatusNoContent)
}

// debit godoc
// @Summary Debit an account
// @Description Subtracts the amount from the account balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountNumber path string true "Account number"
// @Param   debit body dto.AmountRequest true "Amount to debit"
// @Success 204 "Debit applied"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent update"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 500 {object} map[string]string "Failed to debit account"
// @Security BearerAuth
// @Router /accounts/{accountNumber}/debit [post]
func (h *accountHandler) debit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Debit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.Debit(c.Request.Context(), accountNumber, req.Amount); err != nil {
		writeServiceError(c, err, "Failed to debit account")
		return
	}

	c.Status(http.StatusNoContent)
}
