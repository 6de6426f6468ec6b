package stores

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/reconcile/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 100

// GormStore implements reconcile.Store with gorm models.
//
// E must be a pointer to a gorm model; key is the primary key column.
// Inserts, key lookups and deletes work in batches of batchSize.
type GormStore[K comparable, E models.Identifiable[K]] struct {
	db        *gorm.DB
	key       string
	batchSize int
	pending   []E
}

// NewGormStore creates a GormStore. A non-positive batchSize falls back to 100.
func NewGormStore[K comparable, E models.Identifiable[K]](db *gorm.DB, key string, batchSize int) *GormStore[K, E] {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &GormStore[K, E]{db: db, key: key, batchSize: batchSize}
}

// InsertAll creates entities in batches of batchSize; gorm wraps the batches in one transaction.
func (s *GormStore[K, E]) InsertAll(ctx context.Context, entities []E) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).CreateInBatches(entities, s.batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore[K, E]) FindByIDs(ctx context.Context, ids []K) ([]E, error) {
	var found []E
	for batch := range slices.Chunk(ids, s.batchSize) {
		var entities []E
		err := s.db.WithContext(ctx).
			Where(clause.IN{Column: clause.Column{Name: s.key}, Values: keyArgs(batch)}).
			Find(&entities).Error
		if err != nil {
			return nil, fmt.Errorf("failed to query by ids: %w", err)
		}
		found = append(found, entities...)
	}
	return found, nil
}

// RemoveAll hard-deletes entities by primary key in one transaction, one statement per batch.
func (s *GormStore[K, E]) RemoveAll(ctx context.Context, entities []E) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for batch := range slices.Chunk(entities, s.batchSize) {
			result := tx.Unscoped().Delete(&batch)
			if result.Error != nil {
				return result.Error
			}
			removed += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete: %w", err)
	}
	return removed, nil
}

func (s *GormStore[K, E]) SetValues(entity E, values any) error {
	if err := Overwrite(entity, values); err != nil {
		return err
	}
	s.pending = append(s.pending, entity)
	return nil
}

// Commit saves every pending entity inside one transaction.
// Pending changes are cleared whether or not the commit succeeds.
func (s *GormStore[K, E]) Commit(ctx context.Context) (int64, error) {
	pending := s.pending
	s.pending = nil
	if len(pending) == 0 {
		return 0, nil
	}

	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entity := range pending {
			result := tx.Save(entity)
			if result.Error != nil {
				return result.Error
			}
			updated += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return updated, nil
}

func (s *GormStore[K, E]) Discard() { s.pending = nil }

// All returns every row ordered by key.
func (s *GormStore[K, E]) All(ctx context.Context) ([]E, error) {
	var entities []E
	if err := s.db.WithContext(ctx).Order(s.key).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list: %w", err)
	}
	return entities, nil
}

// AutoMigrate creates or alters the table for E. Used for drivers without embedded migrations.
func (s *GormStore[K, E]) AutoMigrate() error {
	var zero E
	if err := s.db.AutoMigrate(zero); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}
