package models

import (
	"context"
	"time"
)

// Identifiable is implemented by anything keyed by a comparable identifier.
type Identifiable[K comparable] interface {
	Identifier() K // Identifier returns the unique key used to join DTOs and entities
}

// Transfer is implemented by transfer objects carrying the desired state of an entity E.
type Transfer[K comparable, E any] interface {
	Identifiable[K]
	NewEntity() E // NewEntity returns an empty entity this DTO projects onto
}

// Validator is implemented by entities that can check their own field values before a write.
type Validator interface {
	Validate() error
}

// Timestamped is implemented by entities that track creation and modification times.
//
// Stores that do not manage timestamps themselves call Touch before every write.
type Timestamped interface {
	Touch(now time.Time)
}

// Repository defines the interface for journal-style data access.
// Implementations handle database interactions for specific model types.
type Repository[T any] interface {
	Create(ctx context.Context, model T) error                      // Create inserts a new model into the database
	Get(ctx context.Context, id string) (T, error)                  // Get retrieves a model by its ID
	List(ctx context.Context, criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// touch sets created to now when unset and always moves updated to now.
func touch(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
