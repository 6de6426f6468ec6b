package stores

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/reconcile/internal/models"
)

// Scanner is satisfied by [sql.Row] and [sql.Rows].
type Scanner interface {
	Scan(dest ...any) error
}

// Table describes how an entity maps onto a SQL table.
//
// Columns lists the non-key columns; Values must return them in the same order.
// Scan reads the key followed by Columns.
type Table[K comparable, E models.Identifiable[K]] struct {
	Name    string
	Key     string
	Columns []string
	Values  func(E) []any
	Scan    func(Scanner) (E, error)
}

func (t Table[K, E]) selectList() string {
	return strings.Join(append([]string{t.Key}, t.Columns...), ", ")
}

func (t Table[K, E]) insertQuery() string {
	cols := append([]string{t.Key}, t.Columns...)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(cols, ", "), placeholders(len(cols)))
}

func (t Table[K, E]) updateQuery() string {
	sets := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		sets[i] = col + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t.Name, strings.Join(sets, ", "), t.Key)
}

// SQLStore implements reconcile.Store with plain SQL over a [sql.DB].
//
// Key lookups and deletes bind at most batchSize identifiers per IN list.
type SQLStore[K comparable, E models.Identifiable[K]] struct {
	db        *sql.DB
	table     Table[K, E]
	batchSize int
	pending   []E
}

// NewSQLStore creates a SQLStore for table with the given database connection
func NewSQLStore[K comparable, E models.Identifiable[K]](db *sql.DB, table Table[K, E]) *SQLStore[K, E] {
	return &SQLStore[K, E]{db: db, table: table, batchSize: defaultBatchSize}
}

// WithBatchSize sets how many identifiers go into one IN list. Non-positive sizes are ignored.
func (s *SQLStore[K, E]) WithBatchSize(n int) *SQLStore[K, E] {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// InsertAll inserts entities with one prepared statement inside a single transaction.
func (s *SQLStore[K, E]) InsertAll(ctx context.Context, entities []E) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	now := time.Now()
	var inserted int64
	err := s.inTx(ctx, s.table.insertQuery(), func(stmt *sql.Stmt) error {
		for _, entity := range entities {
			if err := prepare(entity, now); err != nil {
				return err
			}
			args := append([]any{entity.Identifier()}, s.table.Values(entity)...)
			result, err := stmt.ExecContext(ctx, args...)
			if err != nil {
				return fmt.Errorf("failed to insert into %s: %w", s.table.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get affected rows: %w", err)
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// FindByIDs selects the rows whose key is in ids, one IN query per batch.
func (s *SQLStore[K, E]) FindByIDs(ctx context.Context, ids []K) ([]E, error) {
	var found []E
	for batch := range slices.Chunk(ids, s.batchSize) {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)", s.table.selectList(), s.table.Name, s.table.Key, placeholders(len(batch)))
		entities, err := s.query(ctx, query, keyArgs(batch)...)
		if err != nil {
			return nil, err
		}
		found = append(found, entities...)
	}
	return found, nil
}

// RemoveAll deletes the rows of entities in one transaction, one IN statement per batch.
func (s *SQLStore[K, E]) RemoveAll(ctx context.Context, entities []E) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	ids := make([]K, len(entities))
	for i, entity := range entities {
		ids[i] = entity.Identifier()
	}

	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for batch := range slices.Chunk(ids, s.batchSize) {
			query := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)", s.table.Name, s.table.Key, placeholders(len(batch)))
			result, err := tx.ExecContext(ctx, query, keyArgs(batch)...)
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", s.table.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get affected rows: %w", err)
			}
			removed += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *SQLStore[K, E]) SetValues(entity E, values any) error {
	if err := Overwrite(entity, values); err != nil {
		return err
	}
	s.pending = append(s.pending, entity)
	return nil
}

// Commit writes every pending entity with one prepared UPDATE inside a single transaction.
// Pending changes are cleared whether or not the commit succeeds.
func (s *SQLStore[K, E]) Commit(ctx context.Context) (int64, error) {
	pending := s.pending
	s.pending = nil
	if len(pending) == 0 {
		return 0, nil
	}

	now := time.Now()
	var updated int64
	err := s.inTx(ctx, s.table.updateQuery(), func(stmt *sql.Stmt) error {
		for _, entity := range pending {
			if err := prepare(entity, now); err != nil {
				return err
			}
			args := append(s.table.Values(entity), entity.Identifier())
			result, err := stmt.ExecContext(ctx, args...)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", s.table.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get affected rows: %w", err)
			}
			updated += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *SQLStore[K, E]) Discard() { s.pending = nil }

// All returns every row of the table ordered by key.
func (s *SQLStore[K, E]) All(ctx context.Context) ([]E, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", s.table.selectList(), s.table.Name, s.table.Key)
	return s.query(ctx, query)
}

func (s *SQLStore[K, E]) query(ctx context.Context, query string, args ...any) ([]E, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	var entities []E
	for rows.Next() {
		entity, err := s.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.table.Name, err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entities, nil
}

// inTx prepares query in a new transaction, hands the statement to fn and commits if fn succeeds.
func (s *SQLStore[K, E]) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()
		return fn(stmt)
	})
}

// withTx runs fn in a new transaction and commits if fn succeeds.
func (s *SQLStore[K, E]) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func keyArgs[K comparable](ids []K) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
