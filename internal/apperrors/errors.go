package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadyLocked indicates that an account already carries an active, unexpired reservation.
var ErrAlreadyLocked = errors.New("account is already locked")

// ErrInsufficientBalance indicates that the account balance cannot cover the requested amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrConcurrencyConflict indicates that an optimistic version check failed and
// the bounded retry budget was exhausted.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// ErrInvalidState indicates an operation that is not allowed for the resource's
// current status, e.g. reversing a transaction that is not SUCCESS.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrInternal indicates an unexpected failure, typically from storage.
var ErrInternal = errors.New("internal error")
