package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/shared"
)

// MemoryStore keeps entities in a map keyed by identifier.
//
// Entities are held by reference: FindByIDs returns the stored values themselves, so
// SetValues is visible immediately. Each pending entity keeps a snapshot of its values
// from before the first SetValues; Discard and a failed Commit restore it.
type MemoryStore[K comparable, E models.Identifiable[K]] struct {
	rows    map[K]E
	order   []K
	pending []change[E]
}

type change[E any] struct {
	entity   E
	snapshot E
}

// NewMemoryStore creates a store seeded with entities.
func NewMemoryStore[K comparable, E models.Identifiable[K]](seed ...E) *MemoryStore[K, E] {
	s := &MemoryStore[K, E]{rows: make(map[K]E, len(seed))}
	for _, entity := range seed {
		s.put(entity)
	}
	return s
}

func (s *MemoryStore[K, E]) put(entity E) {
	id := entity.Identifier()
	if _, ok := s.rows[id]; !ok {
		s.order = append(s.order, id)
	}
	s.rows[id] = entity
}

// InsertAll fails without inserting anything if any identifier is already stored or repeated.
func (s *MemoryStore[K, E]) InsertAll(ctx context.Context, entities []E) (int64, error) {
	now := time.Now()
	seen := make(map[K]struct{}, len(entities))
	for _, entity := range entities {
		id := entity.Identifier()
		if _, ok := s.rows[id]; ok {
			return 0, fmt.Errorf("%w: %v", shared.ErrDuplicateKey, id)
		}
		if _, ok := seen[id]; ok {
			return 0, fmt.Errorf("%w: %v", shared.ErrDuplicateKey, id)
		}
		seen[id] = struct{}{}
		if err := prepare(entity, now); err != nil {
			return 0, err
		}
	}

	for _, entity := range entities {
		s.put(entity)
	}
	return int64(len(entities)), nil
}

func (s *MemoryStore[K, E]) FindByIDs(ctx context.Context, ids []K) ([]E, error) {
	var found []E
	for _, id := range ids {
		if entity, ok := s.rows[id]; ok {
			found = append(found, entity)
		}
	}
	return found, nil
}

func (s *MemoryStore[K, E]) RemoveAll(ctx context.Context, entities []E) (int64, error) {
	var removed int64
	for _, entity := range entities {
		id := entity.Identifier()
		if _, ok := s.rows[id]; !ok {
			continue
		}
		delete(s.rows, id)
		removed++
	}

	if removed > 0 {
		order := s.order[:0]
		for _, id := range s.order {
			if _, ok := s.rows[id]; ok {
				order = append(order, id)
			}
		}
		s.order = order
	}
	return removed, nil
}

// SetValues overwrites entity in place after snapshotting it. An entity already pending keeps its first snapshot.
func (s *MemoryStore[K, E]) SetValues(entity E, values any) error {
	tracked := false
	for _, c := range s.pending {
		if c.entity.Identifier() == entity.Identifier() {
			tracked = true
			break
		}
	}

	var snapshot E
	if !tracked {
		var err error
		if snapshot, err = clone(entity); err != nil {
			return err
		}
	}

	if err := Overwrite(entity, values); err != nil {
		if !tracked {
			_ = Overwrite(entity, snapshot)
		}
		return err
	}

	if !tracked {
		s.pending = append(s.pending, change[E]{entity: entity, snapshot: snapshot})
	}
	return nil
}

// Commit validates every pending entity and keeps them. On failure every pending entity is restored.
func (s *MemoryStore[K, E]) Commit(ctx context.Context) (int64, error) {
	now := time.Now()
	for _, c := range s.pending {
		if err := prepare(c.entity, now); err != nil {
			s.Discard()
			return 0, err
		}
	}
	for _, c := range s.pending {
		s.put(c.entity)
	}
	n := int64(len(s.pending))
	s.pending = nil
	return n, nil
}

// Discard restores every pending entity to its snapshot.
func (s *MemoryStore[K, E]) Discard() {
	for _, c := range s.pending {
		_ = Overwrite(c.entity, c.snapshot)
	}
	s.pending = nil
}

// All returns every stored entity in insertion order.
func (s *MemoryStore[K, E]) All(ctx context.Context) ([]E, error) {
	all := make([]E, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.rows[id])
	}
	return all, nil
}

// Len is the number of stored entities.
func (s *MemoryStore[K, E]) Len() int { return len(s.rows) }

// Pending is the number of entities waiting for Commit.
func (s *MemoryStore[K, E]) Pending() int { return len(s.pending) }
