package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
	"github.com/SscSPs/fund_transfer_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles HTTP requests related to transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
	}
}

// RegisterTransferRoutes registers routes related to transfers.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.startTransfer)
		transfers.GET("/:transactionRef", h.getTransfer)
		transfers.POST("/:transactionRef/reverse", h.reverseTransfer)
	}
}

// startTransfer godoc
// @Summary Start a transfer
// @Description Creates a transfer record and executes it synchronously. The response
// @Description status reflects the outcome the transfer reached: 201 with SUCCESS when
// @Description it completed, 201 with FAILED and a failure reason when a step failed.
// @Description Repeating a request with the same idempotency key returns the original
// @Description record without moving funds again.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to start transfer"
// @Router /transfers [post]
func (h *transferHandler) startTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transferService.StartTransfer(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to start transfer")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransfer godoc
// @Summary Get a transfer
// @Description Retrieves a transfer record by its reference
// @Tags transfers
// @Produce  json
// @Param   transactionRef path string true "Transaction reference"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transfer"
// @Router /transfers/{transactionRef} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	transactionRef := c.Param("transactionRef")

	txn, err := h.transferService.GetByRef(c.Request.Context(), transactionRef)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve transfer")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransfer godoc
// @Summary Reverse a completed transfer
// @Description Moves the funds of a SUCCESS transfer back from the destination to the source
// @Tags transfers
// @Produce  json
// @Param   transactionRef path string true "Transaction reference"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 409 {object} map[string]string "Transfer is not reversible"
// @Failure 422 {object} map[string]string "Destination cannot cover the reversal"
// @Failure 500 {object} map[string]string "Failed to reverse transfer"
// @Security BearerAuth
// @Router /transfers/{transactionRef}/reverse [post]
func (h *transferHandler) reverseTransfer(c *gin.Context) {
	transactionRef := c.Param("transactionRef")

	txn, err := h.transferService.Reverse(c.Request.Context(), transactionRef)
	if err != nil {
		writeServiceError(c, err, "Failed to reverse transfer")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
