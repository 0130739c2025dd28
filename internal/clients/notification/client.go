package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/fund_transfer_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 5 * time.Second

// Client posts transfer-completed events to an external notification
// endpoint. Delivery is best effort; callers treat a returned error as
// advisory and never fail the transfer over it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a notification client for the given endpoint. An empty
// baseURL yields a no-op client, for deployments without a notification
// service configured.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Ensure Client implements the portssvc.Notifier interface
var _ portssvc.Notifier = (*Client)(nil)

type transferCompletedEvent struct {
	TransactionRef string          `json:"transactionRef"`
	FromAccount    string          `json:"fromAccount"`
	ToAccount      string          `json:"toAccount"`
	Amount         decimal.Decimal `json:"amount"`
	CompletedAt    time.Time       `json:"completedAt"`
}

// NotifyTransferCompleted posts the completion event. A non-2xx response is
// reported as an error so the caller can log it.
func (c *Client) NotifyTransferCompleted(ctx context.Context, transactionRef, fromAccount, toAccount string, amount decimal.Decimal) error {
	if c.baseURL == "" {
		return nil
	}

	logger := middleware.GetLoggerFromCtx(ctx)

	event := transferCompletedEvent{
		TransactionRef: transactionRef,
		FromAccount:    fromAccount,
		ToAccount:      toAccount,
		Amount:         amount,
		CompletedAt:    time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification for transfer %s: %w", transactionRef, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned status %d for transfer %s", resp.StatusCode, transactionRef)
	}

	logger.Debug("Transfer notification delivered", slog.String("transaction_ref", transactionRef))
	return nil
}
