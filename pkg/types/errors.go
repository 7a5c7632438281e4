package types

import "errors"

// Error taxonomy shared by the store and HTTP layers. Store operations wrap
// these sentinels with fmt.Errorf("...: %w", ...); callers match with
// errors.Is.
var (
	// ErrValidation reports malformed or out-of-range input, detected
	// before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound reports that the addressed entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict reports a unique-constraint violation (duplicate
	// username, email or category name).
	ErrConflict = errors.New("resource already exists")

	// ErrPreconditionFailed reports a guarded write that was refused:
	// a referenced entity is missing on create, or a category still has
	// task associations on delete.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrStoreUnavailable reports a connection or transaction failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)
