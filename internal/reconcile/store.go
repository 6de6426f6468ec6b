package reconcile

import "context"

// Store is the persistence contract the [Synchronizer] needs.
//
// Implementations live in internal/stores. A store is owned by the caller and is
// never opened or closed here.
type Store[K comparable, E any] interface {
	// InsertAll writes entities in one batch and returns the number of rows inserted.
	InsertAll(ctx context.Context, entities []E) (int64, error)
	// FindByIDs returns the stored entities whose identifier is in ids, in one lookup.
	FindByIDs(ctx context.Context, ids []K) ([]E, error)
	// RemoveAll deletes entities in one batch and returns the number of rows removed.
	RemoveAll(ctx context.Context, entities []E) (int64, error)
	// SetValues overwrites entity's current field values with those of values and
	// tracks it as pending until Commit.
	SetValues(entity E, values any) error
	// Commit writes every pending change as a single unit and returns the rows affected.
	Commit(ctx context.Context) (int64, error)
}

// Discarder is implemented by stores that can drop pending changes after a failed routine.
type Discarder interface {
	Discard()
}
