package reminder

import "errors"

var (
	// ErrStoreUnavailable wraps any failure reading or writing the store.
	ErrStoreUnavailable = errors.New("reminder store unavailable")
	// ErrMissingReminder means the target ID is no longer in the store.
	ErrMissingReminder = errors.New("reminder not found")
	// ErrOrphanedReminder means the reminder's block no longer exists.
	ErrOrphanedReminder = errors.New("reminder block no longer exists")
	// ErrInvalidReminder is returned by Validate.
	ErrInvalidReminder = errors.New("invalid reminder")
)
