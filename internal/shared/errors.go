package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig     = fmt.Errorf("configuration not found")
	ErrInvalidConfig     = fmt.Errorf("invalid configuration")
	ErrUnsupportedDriver = fmt.Errorf("unsupported database driver")

	// Persistence errors
	ErrNotFound     = fmt.Errorf("record not found")
	ErrDuplicateKey = fmt.Errorf("duplicate key")
	ErrNoMigrations = fmt.Errorf("no migrations to rollback")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
