package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyTransferCompleted_Success(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications/transfers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.NotifyTransferCompleted(context.Background(), "txn-1", "ACC-SRC", "ACC-DST", decimal.RequireFromString("50.00"))

	require.NoError(t, err)
	assert.Equal(t, "txn-1", received["transactionRef"])
	assert.Equal(t, "ACC-SRC", received["fromAccount"])
	assert.Equal(t, "ACC-DST", received["toAccount"])
	assert.Equal(t, "50", received["amount"])
}

func TestNotifyTransferCompleted_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.NotifyTransferCompleted(context.Background(), "txn-1", "ACC-SRC", "ACC-DST", decimal.NewFromInt(10))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestNotifyTransferCompleted_NoopWhenUnconfigured(t *testing.T) {
	client := NewClient("")
	err := client.NotifyTransferCompleted(context.Background(), "txn-1", "ACC-SRC", "ACC-DST", decimal.NewFromInt(10))
	require.NoError(t, err)
}
