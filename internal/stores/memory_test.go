package stores_test

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/reconcile"
	"github.com/desertthunder/reconcile/internal/shared"
	"github.com/desertthunder/reconcile/internal/stores"
)

var (
	_ reconcile.Store[int64, *models.PersistedPlaylist] = (*stores.MemoryStore[int64, *models.PersistedPlaylist])(nil)
	_ reconcile.Store[string, *models.PersistedTrack]   = (*stores.SQLStore[string, *models.PersistedTrack])(nil)
	_ reconcile.Store[string, *models.PersistedTrack]   = (*stores.GormStore[string, *models.PersistedTrack])(nil)
	_ reconcile.Discarder                               = (*stores.GormStore[string, *models.PersistedTrack])(nil)
)

func playlist(id int64, name string) *models.PersistedPlaylist {
	return &models.PersistedPlaylist{ID: id, Name: name}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertAll stamps and stores entities", func(t *testing.T) {
		s := stores.NewMemoryStore[int64, *models.PersistedPlaylist]()

		n, err := s.InsertAll(ctx, []*models.PersistedPlaylist{playlist(1, "A"), playlist(2, "B")})
		if err != nil {
			t.Fatalf("InsertAll() error = %v", err)
		}
		if n != 2 || s.Len() != 2 {
			t.Errorf("expected 2 inserted, got %d (len %d)", n, s.Len())
		}

		all, _ := s.All(ctx)
		if all[0].CreatedAt.IsZero() || all[0].UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("InsertAll is all or nothing", func(t *testing.T) {
		tt := []struct {
			name  string
			seed  []*models.PersistedPlaylist
			batch []*models.PersistedPlaylist
			want  error
		}{
			{
				name:  "already stored",
				seed:  []*models.PersistedPlaylist{playlist(1, "A")},
				batch: []*models.PersistedPlaylist{playlist(2, "B"), playlist(1, "A")},
				want:  shared.ErrDuplicateKey,
			},
			{
				name:  "repeated in batch",
				batch: []*models.PersistedPlaylist{playlist(3, "C"), playlist(3, "C")},
				want:  shared.ErrDuplicateKey,
			},
			{
				name:  "invalid entity",
				batch: []*models.PersistedPlaylist{playlist(4, "D"), playlist(5, "")},
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				s := stores.NewMemoryStore[int64](tc.seed...)

				_, err := s.InsertAll(ctx, tc.batch)
				if err == nil {
					t.Fatal("expected error")
				}
				if tc.want != nil && !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
				if s.Len() != len(tc.seed) {
					t.Errorf("expected store unchanged at %d, got %d", len(tc.seed), s.Len())
				}
			})
		}
	})

	t.Run("FindByIDs skips unknown identifiers", func(t *testing.T) {
		s := stores.NewMemoryStore[int64](playlist(1, "A"), playlist(2, "B"))

		found, err := s.FindByIDs(ctx, []int64{2, 9})
		if err != nil {
			t.Fatalf("FindByIDs() error = %v", err)
		}
		if len(found) != 1 || found[0].ID != 2 {
			t.Errorf("expected only id 2, got %+v", found)
		}
	})

	t.Run("SetValues is pending until Commit", func(t *testing.T) {
		s := stores.NewMemoryStore[int64](playlist(1, "A"))
		found, _ := s.FindByIDs(ctx, []int64{1})

		if err := s.SetValues(found[0], models.Playlist{ID: 1, Name: "A2", TrackCount: 4}); err != nil {
			t.Fatalf("SetValues() error = %v", err)
		}
		if s.Pending() != 1 {
			t.Errorf("expected 1 pending, got %d", s.Pending())
		}

		n, err := s.Commit(ctx)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if n != 1 || s.Pending() != 0 {
			t.Errorf("expected 1 committed and nothing pending, got %d / %d", n, s.Pending())
		}

		all, _ := s.All(ctx)
		if all[0].Name != "A2" || all[0].TrackCount != 4 {
			t.Errorf("unexpected entity after commit: %+v", all[0])
		}
	})

	t.Run("Commit rejects invalid values", func(t *testing.T) {
		s := stores.NewMemoryStore[int64](playlist(1, "A"))
		found, _ := s.FindByIDs(ctx, []int64{1})

		_ = s.SetValues(found[0], models.Playlist{ID: 1})
		if _, err := s.Commit(ctx); err == nil {
			t.Error("expected validation error for empty name")
		}
		if s.Pending() != 0 {
			t.Errorf("expected failed commit to clear pending, got %d", s.Pending())
		}

		all, _ := s.All(ctx)
		if all[0].Name != "A" || !all[0].UpdatedAt.IsZero() {
			t.Errorf("expected row restored after failed commit, got %+v", all[0])
		}
	})

	t.Run("Discard restores values from before SetValues", func(t *testing.T) {
		s := stores.NewMemoryStore[int64](&models.PersistedPlaylist{ID: 1, Name: "A", TrackCount: 2})
		found, _ := s.FindByIDs(ctx, []int64{1})

		_ = s.SetValues(found[0], models.Playlist{ID: 1, Name: "A2", TrackCount: 5})
		_ = s.SetValues(found[0], models.Playlist{ID: 1, Name: "A3", TrackCount: 9})
		if s.Pending() != 1 {
			t.Errorf("expected repeated SetValues to track one entity, got %d", s.Pending())
		}

		s.Discard()
		if s.Pending() != 0 {
			t.Errorf("expected discard to clear pending, got %d", s.Pending())
		}

		all, _ := s.All(ctx)
		if all[0].Name != "A" || all[0].TrackCount != 2 {
			t.Errorf("expected original values restored, got %+v", all[0])
		}
	})

	t.Run("RemoveAll keeps insertion order of the rest", func(t *testing.T) {
		s := stores.NewMemoryStore[int64](playlist(1, "A"), playlist(2, "B"), playlist(3, "C"))

		n, err := s.RemoveAll(ctx, []*models.PersistedPlaylist{playlist(2, "B"), playlist(7, "X")})
		if err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 removed, got %d", n)
		}

		all, _ := s.All(ctx)
		if len(all) != 2 || all[0].ID != 1 || all[1].ID != 3 {
			t.Errorf("unexpected remaining entities: %+v", all)
		}
	})
}

func TestOverwrite(t *testing.T) {
	dst := &models.PersistedTrack{ID: "t1", Title: "Old", Album: "Album", Duration: 200, ISRC: "X"}

	if err := stores.Overwrite(dst, models.Track{ID: "t1", Title: "New"}); err != nil {
		t.Fatalf("Overwrite() error = %v", err)
	}

	if dst.Title != "New" {
		t.Errorf("expected title New, got %q", dst.Title)
	}
	if dst.Album != "" || dst.Duration != 0 || dst.ISRC != "" {
		t.Errorf("expected zero values to be copied, got %+v", dst)
	}
}
