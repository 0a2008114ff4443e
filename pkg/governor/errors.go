package governor

import "errors"

var (
	// ErrBudgetExceeded is returned by Charge when the admission gate is
	// closed. Nothing is recorded; callers should back off until the
	// gate reopens. The governor never retries internally.
	ErrBudgetExceeded = errors.New("budget exceeded, admission gate closed")

	// ErrInvalidUnits is returned by Charge when a unit count is
	// negative. The charge is rejected before any state mutation.
	ErrInvalidUnits = errors.New("unit counts must be non-negative")

	// ErrUnauthorizedOverride is returned by EmergencyReset when the
	// override is not authorized by configuration. State is untouched
	// and the attempt is recorded as a security-relevant audit event.
	ErrUnauthorizedOverride = errors.New("emergency reset not authorized")

	// ErrInvalidLimit is returned when a configured or overridden limit
	// is not a positive amount.
	ErrInvalidLimit = errors.New("budget limits must be positive")
)
