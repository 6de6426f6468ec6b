package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reconcile/internal/formatter"
	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/reconcile"
	"github.com/desertthunder/reconcile/internal/repositories"
	"github.com/desertthunder/reconcile/internal/shared"
	"github.com/desertthunder/reconcile/internal/stores"
	"github.com/desertthunder/reconcile/internal/ui"
	"github.com/urfave/cli/v3"
)

// catalog describes one reconcilable entity kind for the sync command.
type catalog[K comparable, E models.Identifiable[K], D models.Transfer[K, E]] struct {
	name  string
	key   string
	table stores.Table[K, E]
	load  func(path string) ([]D, error)
}

var (
	trackCatalog = catalog[string, *models.PersistedTrack, models.Track]{
		name:  "tracks",
		key:   "id",
		table: repositories.TrackTable,
		load:  formatter.LoadTracks,
	}
	playlistCatalog = catalog[int64, *models.PersistedPlaylist, models.Playlist]{
		name:  "playlists",
		key:   "id",
		table: repositories.PlaylistTable,
		load:  formatter.LoadPlaylists,
	}
)

// listingStore is a store that can also enumerate its rows to seed the known entities.
type listingStore[K comparable, E any] interface {
	reconcile.Store[K, E]
	All(ctx context.Context) ([]E, error)
}

// SyncReport is the JSON shape of a sync command's result.
type SyncReport struct {
	RunID     string `json:"run_id,omitempty"`
	Entity    string `json:"entity"`
	Operation string `json:"operation"`
	Backend   string `json:"backend"`
	DryRun    bool   `json:"dry_run"`
	Outcome   string `json:"outcome"`
	Success   bool   `json:"success"`
	Affected  int64  `json:"affected"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

// SyncTracks reconciles a tracks file against the tracks table.
func (r *Runner) SyncTracks(ctx context.Context, cmd *cli.Command) error {
	return syncCatalog(ctx, r, cmd, trackCatalog)
}

// SyncPlaylists reconciles a playlists file against the playlists table.
func (r *Runner) SyncPlaylists(ctx context.Context, cmd *cli.Command) error {
	return syncCatalog(ctx, r, cmd, playlistCatalog)
}

func syncCatalog[K comparable, E models.Identifiable[K], D models.Transfer[K, E]](ctx context.Context, r *Runner, cmd *cli.Command, c catalog[K, E, D]) error {
	op, err := reconcile.ParseOperation(cmd.String("op"))
	if err != nil {
		return fmt.Errorf("%w: --op: %v", shared.ErrInvalidFlag, err)
	}

	backend := cmd.String("backend")
	if backend == "" {
		backend = r.config.Sync.Backend
	}
	if backend != shared.BackendSQL && backend != shared.BackendGorm {
		return fmt.Errorf("%w: --backend must be %s or %s, got %q", shared.ErrInvalidFlag, shared.BackendSQL, shared.BackendGorm, backend)
	}
	dryRun := cmd.Bool("dry-run") || r.config.Sync.DryRun

	dtos, err := c.load(cmd.String("file"))
	if err != nil {
		return err
	}

	runID := shared.GenerateID()
	logger := shared.WithLogger(r.logger, "run", runID, "entity", c.name, "backend", backend)
	logger.Debug("loaded records", "count", len(dtos), "file", cmd.String("file"))

	conn, err := r.connect(backend)
	if err != nil {
		return err
	}
	defer r.closeQuietly(conn)

	var store listingStore[K, E]
	switch backend {
	case shared.BackendGorm:
		gs := stores.NewGormStore[K, E](conn.gorm, c.key, r.config.Sync.BatchSize)
		if conn.sql == nil {
			if err := gs.AutoMigrate(); err != nil {
				return err
			}
		}
		store = gs
	default:
		store = stores.NewSQLStore(conn.sql, c.table).WithBatchSize(r.config.Sync.BatchSize)
	}

	known, err := store.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load known %s: %w", c.name, err)
	}
	if known == nil {
		known = []E{}
	}

	var target reconcile.Store[K, E] = store
	if dryRun {
		target = stores.NewMemoryStore[K](known...)
		logger.Info("dry run: changes stay in memory", "known", len(known))
	}

	run := models.NewSyncRun(0, c.name, op.String(), backend, dryRun)
	run.SetID(runID)
	sync := reconcile.New(target, reconcile.CopierMapper[K, E, D](), logger)

	res, err := sync.Synchronize(ctx, known, dtos, op)
	if err != nil {
		return err
	}

	errMessage := ""
	if res.Err() != nil {
		errMessage = res.Err().Error()
	}
	run.Complete(res.Outcome().String(), res.Affected(), res.Message(), errMessage)

	if conn.sql != nil {
		if err := repositories.NewRunRepository(conn.sql).Create(ctx, run); err != nil {
			logger.Warn("failed to journal sync run", "error", err)
		}
	} else {
		logger.Warn("sync run not journaled: the journal requires sqlite")
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(SyncReport{
			RunID:     runID,
			Entity:    c.name,
			Operation: op.String(),
			Backend:   backend,
			DryRun:    dryRun,
			Outcome:   res.Outcome().String(),
			Success:   res.Success(),
			Affected:  res.Affected(),
			Message:   res.Message(),
			Error:     errMessage,
		}, true); err != nil {
			return err
		}
	} else if err := r.writePlainln("%s", ui.RenderResult(res)); err != nil {
		return err
	}

	if res.Outcome() == reconcile.Failed {
		return fmt.Errorf("%s: %w", res.Message(), res.Err())
	}
	return nil
}
