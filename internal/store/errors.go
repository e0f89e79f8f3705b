package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an insert or update collides with
	// the unique index on users.email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUsernameAlreadyExists is returned when an insert or update collides
	// with the unique index on users.username.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrNoUserWasFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrCategoryNotFound is returned when no active category matches the
	// requested id.
	ErrCategoryNotFound = errors.New("category was not found")

	// ErrOwnershipNotFound is returned when a category has no ownership row.
	ErrOwnershipNotFound = errors.New("category ownership was not found")

	// ErrExpenseNotFound is returned when no expense matches the requested id.
	ErrExpenseNotFound = errors.New("expense was not found")

	// ErrUniqueViolation is returned for unique violations on constraints that
	// have no dedicated sentinel.
	ErrUniqueViolation = errors.New("unique constraint violated")

	// ErrTemporarilyUnavailable wraps driver errors classified as
	// [Retryable]: lost connections, deadlocks, busy databases.
	ErrTemporarilyUnavailable = errors.New("storage is temporarily unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrUnsupportedDriver    = errors.New("unsupported database driver")
)
