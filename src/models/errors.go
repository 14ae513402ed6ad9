package models

import "errors"

// Domain error taxonomy. Handlers map these onto HTTP statuses; the
// services reject invalid input before touching any state.
var (
	// ErrInvalidReference means a transaction points at a fund (or user)
	// that does not exist in the catalog.
	ErrInvalidReference = errors.New("referenced entity does not exist")

	// ErrInvalidAmount means a non-positive amount or NAV was supplied.
	ErrInvalidAmount = errors.New("amount and nav must be positive")

	// ErrInsufficientUnits means a sell exceeds the units currently held.
	ErrInsufficientUnits = errors.New("insufficient units for sell")

	// ErrDuplicateUser means registration hit an existing email or username.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateTransaction means a ledger entry with the same ref id was
	// already recorded for this user.
	ErrDuplicateTransaction = errors.New("transaction already recorded")

	// ErrNotFound is the generic lookup miss.
	ErrNotFound = errors.New("not found")
)
