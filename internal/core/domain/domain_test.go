package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAccount_CanTransact(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		want    bool
	}{
		{
			name:    "active account",
			account: domain.Account{Status: domain.AccountActive},
			want:    true,
		},
		{
			name:    "suspended account",
			account: domain.Account{Status: domain.AccountSuspended},
			want:    false,
		},
		{
			name:    "closed account",
			account: domain.Account{Status: domain.AccountClosed},
			want:    false,
		},
		{
			name:    "unknown status",
			account: domain.Account{Status: "FROZEN"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.CanTransact())
		})
	}
}

func TestAccountLock_Expired(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		lock domain.AccountLock
		want bool
	}{
		{
			name: "future expiry",
			lock: domain.AccountLock{LockExpiry: now.Add(time.Minute)},
			want: false,
		},
		{
			name: "past expiry",
			lock: domain.AccountLock{LockExpiry: now.Add(-time.Minute)},
			want: true,
		},
		{
			name: "expiry exactly now",
			lock: domain.AccountLock{LockExpiry: now},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lock.Expired(now))
		})
	}
}
