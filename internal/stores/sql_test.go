package stores_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/repositories"
	"github.com/desertthunder/reconcile/internal/shared"
	"github.com/desertthunder/reconcile/internal/stores"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func track(id, title string) *models.PersistedTrack {
	return &models.PersistedTrack{ID: id, Service: "spotify", Title: title, Artist: "Artist", Duration: 180}
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertAll and All round trip", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable)

		n, err := s.InsertAll(ctx, []*models.PersistedTrack{track("b", "Second"), track("a", "First")})
		if err != nil {
			t.Fatalf("InsertAll() error = %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 inserted, got %d", n)
		}

		all, err := s.All(ctx)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
			t.Fatalf("expected rows ordered by key, got %+v", all)
		}
		if all[0].Title != "First" || all[0].Duration != 180 || all[0].CreatedAt.IsZero() {
			t.Errorf("unexpected row: %+v", all[0])
		}
	})

	t.Run("InsertAll rolls back the batch on conflict", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable)

		if _, err := s.InsertAll(ctx, []*models.PersistedTrack{track("a", "First")}); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}

		if _, err := s.InsertAll(ctx, []*models.PersistedTrack{track("c", "Third"), track("a", "Again")}); err == nil {
			t.Fatal("expected primary key conflict")
		}

		all, _ := s.All(ctx)
		if len(all) != 1 {
			t.Errorf("expected batch rolled back, got %d rows", len(all))
		}
	})

	t.Run("InsertAll validates before writing", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable)

		if _, err := s.InsertAll(ctx, []*models.PersistedTrack{track("a", "")}); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("FindByIDs, SetValues and Commit", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable)
		_, _ = s.InsertAll(ctx, []*models.PersistedTrack{track("a", "First"), track("b", "Second")})

		found, err := s.FindByIDs(ctx, []string{"b", "missing"})
		if err != nil {
			t.Fatalf("FindByIDs() error = %v", err)
		}
		if len(found) != 1 || found[0].ID != "b" {
			t.Fatalf("expected only b, got %+v", found)
		}

		if err := s.SetValues(found[0], models.Track{ID: "b", Title: "Renamed", Duration: 99}); err != nil {
			t.Fatalf("SetValues() error = %v", err)
		}

		n, err := s.Commit(ctx)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 updated, got %d", n)
		}

		found, _ = s.FindByIDs(ctx, []string{"b"})
		if found[0].Title != "Renamed" || found[0].Artist != "" || found[0].Duration != 99 {
			t.Errorf("unexpected row after commit: %+v", found[0])
		}
	})

	t.Run("Commit failure clears pending changes", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable)
		_, _ = s.InsertAll(ctx, []*models.PersistedTrack{track("a", "First")})

		found, _ := s.FindByIDs(ctx, []string{"a"})
		_ = s.SetValues(found[0], models.Track{ID: "a"})

		if _, err := s.Commit(ctx); err == nil {
			t.Fatal("expected validation error")
		}

		n, err := s.Commit(ctx)
		if err != nil || n != 0 {
			t.Errorf("expected empty commit, got %d / %v", n, err)
		}
	})

	t.Run("RemoveAll deletes every given row", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable)
		_, _ = s.InsertAll(ctx, []*models.PersistedTrack{track("a", "A"), track("b", "B"), track("c", "C")})

		n, err := s.RemoveAll(ctx, []*models.PersistedTrack{track("a", "A"), track("c", "C")})
		if err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 removed, got %d", n)
		}

		all, _ := s.All(ctx)
		if len(all) != 1 || all[0].ID != "b" {
			t.Errorf("expected only b to remain, got %+v", all)
		}
	})

	t.Run("FindByIDs and RemoveAll split ids into batches", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable).WithBatchSize(2)
		batch := []*models.PersistedTrack{track("a", "A"), track("b", "B"), track("c", "C"), track("d", "D"), track("e", "E")}
		if _, err := s.InsertAll(ctx, batch); err != nil {
			t.Fatalf("InsertAll() error = %v", err)
		}

		found, err := s.FindByIDs(ctx, []string{"a", "b", "c", "d", "e", "z"})
		if err != nil {
			t.Fatalf("FindByIDs() error = %v", err)
		}
		if len(found) != 5 {
			t.Fatalf("expected 5 rows across batches, got %d", len(found))
		}

		n, err := s.RemoveAll(ctx, found)
		if err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		if n != 5 {
			t.Errorf("expected 5 removed, got %d", n)
		}
		if all, _ := s.All(ctx); len(all) != 0 {
			t.Errorf("expected empty table, got %+v", all)
		}
	})

	t.Run("WithBatchSize ignores non-positive sizes", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.TrackTable).WithBatchSize(0)
		_, _ = s.InsertAll(ctx, []*models.PersistedTrack{track("a", "A")})

		found, err := s.FindByIDs(ctx, []string{"a"})
		if err != nil || len(found) != 1 {
			t.Errorf("FindByIDs() = %v, %v", found, err)
		}
	})

	t.Run("empty inputs touch nothing", func(t *testing.T) {
		s := stores.NewSQLStore(setupDB(t), repositories.PlaylistTable)

		if n, err := s.InsertAll(ctx, nil); n != 0 || err != nil {
			t.Errorf("InsertAll(nil) = %d, %v", n, err)
		}
		if found, err := s.FindByIDs(ctx, nil); found != nil || err != nil {
			t.Errorf("FindByIDs(nil) = %v, %v", found, err)
		}
		if n, err := s.RemoveAll(ctx, nil); n != 0 || err != nil {
			t.Errorf("RemoveAll(nil) = %d, %v", n, err)
		}
	})

	t.Run("query errors are wrapped", func(t *testing.T) {
		db := setupDB(t)
		s := stores.NewSQLStore(db, repositories.PlaylistTable)
		db.Close()

		if _, err := s.All(ctx); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := s.InsertAll(ctx, []*models.PersistedPlaylist{playlist(1, "A")}); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
