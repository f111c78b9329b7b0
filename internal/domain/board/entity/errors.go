package entity

import "errors"

// Domain errors for the reassignment board
var (
	// Validation errors
	ErrInvalidPlatform  = errors.New("invalid platform")
	ErrInvalidColumnRef = errors.New("invalid column reference")
	ErrInvalidAction    = errors.New("invalid toggle action, expected start-all or pause-all")

	// Lookup errors
	ErrAccountNotFound = errors.New("account not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrSessionNotFound = errors.New("board session not found")
	ErrNotHydrated     = errors.New("board has not been loaded yet")

	// Business logic errors
	ErrBusy             = errors.New("another update is still in progress")
	ErrAccountActive    = errors.New("active accounts cannot be moved, pause them first")
	ErrPlatformMismatch = errors.New("account platform does not match the campaign platform")
	ErrUnassignedToggle = errors.New("accounts in the unassigned bucket cannot be started or paused")
	ErrNotVisible       = errors.New("account is not visible on the active platform tab")
)
