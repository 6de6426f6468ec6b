package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/shared"
)

func TestDecoders(t *testing.T) {
	t.Run("DecodeJSON", func(t *testing.T) {
		input := `[{"id":"spotify:1","title":"Song One","duration":180},{"id":"spotify:2","title":"Song Two","isrc":"USRC1"}]`

		tracks, err := DecodeJSON[models.Track](strings.NewReader(input))
		if err != nil {
			t.Fatalf("DecodeJSON failed: %v", err)
		}

		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].Duration != 180 || tracks[1].ISRC != "USRC1" {
			t.Errorf("unexpected tracks: %+v", tracks)
		}
	})

	t.Run("DecodeJSON empty inputs yield non-nil slices", func(t *testing.T) {
		for _, input := range []string{"", "[]", "null"} {
			playlists, err := DecodeJSON[models.Playlist](strings.NewReader(input))
			if err != nil {
				t.Fatalf("DecodeJSON(%q) failed: %v", input, err)
			}
			if playlists == nil || len(playlists) != 0 {
				t.Errorf("DecodeJSON(%q) = %#v, want empty non-nil slice", input, playlists)
			}
		}
	})

	t.Run("DecodeJSON invalid input", func(t *testing.T) {
		_, err := DecodeJSON[models.Track](strings.NewReader(`{"id":`))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("DecodeTracksCSV", func(t *testing.T) {
		input := "ID,Title,Artist,Duration\nspotify:1,Song One,Artist One,180\nspotify:2,\"Song, Two\",Artist Two,\n"

		tracks, err := DecodeTracksCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("DecodeTracksCSV failed: %v", err)
		}

		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].ID != "spotify:1" || tracks[0].Duration != 180 {
			t.Errorf("unexpected first track: %+v", tracks[0])
		}
		if tracks[1].Title != "Song, Two" || tracks[1].Duration != 0 {
			t.Errorf("unexpected second track: %+v", tracks[1])
		}
	})

	t.Run("DecodePlaylistsCSV", func(t *testing.T) {
		input := "id,name,track_count,public\n1,Mix,12,true\n2,Other,0,false\n"

		playlists, err := DecodePlaylistsCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("DecodePlaylistsCSV failed: %v", err)
		}

		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].ID != 1 || playlists[0].TrackCount != 12 || !playlists[0].Public {
			t.Errorf("unexpected first playlist: %+v", playlists[0])
		}
	})

	t.Run("CSV errors", func(t *testing.T) {
		tt := []struct {
			name  string
			input string
		}{
			{name: "missing id column", input: "name\nMix\n"},
			{name: "non-numeric id", input: "id,name\nabc,Mix\n"},
			{name: "bad boolean", input: "id,public\n1,maybe\n"},
			{name: "ragged row", input: "id,name\n1\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := DecodePlaylistsCSV(strings.NewReader(tc.input)); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("CSV header only", func(t *testing.T) {
		tracks, err := DecodeTracksCSV(strings.NewReader("id,title\n"))
		if err != nil {
			t.Fatalf("DecodeTracksCSV failed: %v", err)
		}
		if tracks == nil || len(tracks) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", tracks)
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	t.Run("dispatches on extension", func(t *testing.T) {
		fromJSON, err := LoadTracks(write("tracks.json", `[{"id":"a","title":"A"}]`))
		if err != nil || len(fromJSON) != 1 {
			t.Fatalf("LoadTracks(json) = %v, %v", fromJSON, err)
		}

		fromCSV, err := LoadPlaylists(write("playlists.CSV", "id,name\n7,Seven\n"))
		if err != nil || len(fromCSV) != 1 || fromCSV[0].ID != 7 {
			t.Fatalf("LoadPlaylists(csv) = %v, %v", fromCSV, err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		if _, err := LoadTracks(write("tracks.yaml", "")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTracks(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestRunsToCSV(t *testing.T) {
	applied := models.NewSyncRun(1, "tracks", "add", shared.BackendSQL, false)
	applied.Complete("applied", 2, "2 entities added.", "")

	failed := models.NewSyncRun(2, "playlists", "update", shared.BackendGorm, true)
	failed.Complete("failed", 0, "Failed to update entities.", "disk, full")

	data, err := RunsToCSV([]*models.SyncRun{applied, failed})
	if err != nil {
		t.Fatalf("RunsToCSV failed: %v", err)
	}

	output := string(data)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), output)
	}

	if !strings.HasPrefix(lines[0], "Sequence,ID,Entity,Operation,Backend,DryRun,Outcome,Affected,Message,Error") {
		t.Errorf("CSV missing headers, got: %s", lines[0])
	}
	if !strings.Contains(lines[1], "tracks,add,sql,false,applied,2,2 entities added.") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"disk, full"`) {
		t.Errorf("expected quoted error message, got: %s", lines[2])
	}

	path := filepath.Join(t.TempDir(), "runs.csv")
	if err := WriteRunsCSV([]*models.SyncRun{applied}, path); err != nil {
		t.Fatalf("WriteRunsCSV failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}
