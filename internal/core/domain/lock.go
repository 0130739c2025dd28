package domain

import "time"

// AccountLock is an exclusive, time-bounded reservation on an account.
//
// The table carries a uniqueness constraint on AccountNumber, so at most one
// row exists per account at any time. The existence of a row means the
// reserved amount has already been debited from the account balance
// (debit-on-reserve): deleting the row without touching the balance commits
// the reservation, deleting it while crediting the amount back rolls it back.
type AccountLock struct {
	AccountNumber string    `json:"accountNumber"`
	LockedBy      string    `json:"lockedBy"` // Transaction ref or caller-supplied holder id
	LockTime      time.Time `json:"lockTime"`
	LockExpiry    time.Time `json:"lockExpiry"`
}

// Expired reports whether the reservation has lapsed at the given instant.
func (l AccountLock) Expired(now time.Time) bool {
	return !l.LockExpiry.After(now)
}
