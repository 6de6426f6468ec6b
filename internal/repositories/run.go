package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/shared"
)

// RunRepository implements models.Repository[*models.SyncRun] for the sync run journal.
//
// Runs are append-only; there is no update or delete.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `
	id, sequence, entity, operation, backend, dry_run, outcome, affected,
	message, error_message, started_at, completed_at, created_at
`

// Create inserts a completed run with the next sequence. A run without an ID gets a generated one.
func (r *RunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(ctx, r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := run.ID()
	if id == "" {
		id = shared.GenerateID()
	}

	var errorMessage any = run.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	query := `INSERT INTO sync_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		run.Entity(),
		run.Operation(),
		run.Backend(),
		run.DryRun(),
		run.Outcome(),
		run.Affected(),
		run.Message(),
		errorMessage,
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	run.SetID(id)
	run.SetSequence(sequence)
	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(ctx context.Context, id string) (*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: sync run %s", shared.ErrNotFound, id)
	}
	return run, err
}

// List retrieves runs matching the given criteria, newest first.
//
// Supported criteria: "entity", "operation", "outcome" (string) and "limit" (int).
func (r *RunRepository) List(ctx context.Context, criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE 1 = 1`
	args := []any{}

	for _, key := range []string{"entity", "operation", "outcome"} {
		if value, ok := criteria[key].(string); ok && value != "" {
			query += " AND " + key + " = ?"
			args = append(args, value)
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func scanRun(row interface{ Scan(...any) error }) (*models.SyncRun, error) {
	var (
		id           string
		sequence     int
		entity       string
		operation    string
		backend      string
		dryRun       bool
		outcome      string
		affected     int64
		message      string
		errorMessage sql.NullString
		startedAt    time.Time
		completedAt  sql.NullTime
		createdAt    time.Time
	)

	err := row.Scan(
		&id, &sequence, &entity, &operation, &backend, &dryRun, &outcome, &affected,
		&message, &errorMessage, &startedAt, &completedAt, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := models.NewSyncRun(sequence, entity, operation, backend, dryRun)
	run.Complete(outcome, affected, message, errorMessage.String)
	run.SetID(id)
	run.SetStartedAt(startedAt)
	run.SetCreatedAt(createdAt)
	if completedAt.Valid {
		run.SetCompletedAt(&completedAt.Time)
	} else {
		run.SetCompletedAt(nil)
	}

	return run, nil
}
