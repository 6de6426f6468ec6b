package reconcile

import (
	"fmt"

	"github.com/desertthunder/reconcile/internal/shared"
)

var (
	// Caller-contract violations, returned from [Synchronizer.Synchronize].
	ErrNilEntities   = fmt.Errorf("%w: known entities must not be nil", shared.ErrInvalidArgument)
	ErrNilTransfers  = fmt.Errorf("%w: transfer objects must not be nil", shared.ErrInvalidArgument)
	ErrMissingStore  = fmt.Errorf("%w: store is required", shared.ErrMissingArgument)
	ErrMissingMapper = fmt.Errorf("%w: mapper is required to add entities", shared.ErrMissingArgument)

	// ErrUnsupportedOperation is carried by [Rejected] results.
	ErrUnsupportedOperation = fmt.Errorf("unsupported operation")

	// ErrPanic wraps a value recovered while synchronizing.
	ErrPanic = fmt.Errorf("recovered panic")
)
