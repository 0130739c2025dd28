package models

import "time"

// AccountLock is the persistence representation of a fund reservation.
// The table enforces uniqueness on account_number.
type AccountLock struct {
	AccountNumber string    `db:"account_number"`
	LockedBy      string    `db:"locked_by"`
	LockTime      time.Time `db:"lock_time"`
	LockExpiry    time.Time `db:"lock_expiry"`
}
