// package formatter reads transfer objects from JSON and CSV files and exports the sync run journal as CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/shared"
)

// DecodeJSON reads a JSON array of transfer objects. An empty array yields an empty, non-nil slice.
func DecodeJSON[D any](r io.Reader) ([]D, error) {
	var dtos []D
	if err := json.NewDecoder(r).Decode(&dtos); err != nil {
		if errors.Is(err, io.EOF) {
			return []D{}, nil
		}
		return nil, fmt.Errorf("%w: failed to decode JSON: %v", shared.ErrInvalidInput, err)
	}
	if dtos == nil {
		dtos = []D{}
	}
	return dtos, nil
}

// record is one CSV row addressed by lower-cased header name.
type record struct {
	line   int
	fields map[string]string
}

func (r record) str(key string) string { return strings.TrimSpace(r.fields[key]) }

func (r record) atoi(key string) (int, error) {
	v := r.str(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s must be an integer, got %q", shared.ErrInvalidInput, r.line, key, v)
	}
	return n, nil
}

func (r record) parseInt(key string) (int64, error) {
	v := r.str(key)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s must be an integer, got %q", shared.ErrInvalidInput, r.line, key, v)
	}
	return n, nil
}

func (r record) parseBool(key string) (bool, error) {
	v := r.str(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: line %d: %s must be a boolean, got %q", shared.ErrInvalidInput, r.line, key, v)
	}
	return b, nil
}

// decodeCSV reads a headed CSV document and converts each row with fn.
// Headers are matched case-insensitively; every name in required must be present.
func decodeCSV[D any](r io.Reader, required []string, fn func(record) (D, error)) ([]D, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []D{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: CSV is missing the %q column", shared.ErrInvalidInput, name)
		}
	}

	dtos := []D{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV line %d: %v", shared.ErrInvalidInput, line, err)
		}

		rec := record{line: line, fields: make(map[string]string, len(columns))}
		for name, i := range columns {
			if i < len(row) {
				rec.fields[name] = row[i]
			}
		}

		dto, err := fn(rec)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// DecodeTracksCSV reads tracks with columns id, service, title, artist, album, duration and isrc.
// Only id is required.
func DecodeTracksCSV(r io.Reader) ([]models.Track, error) {
	return decodeCSV(r, []string{"id"}, func(rec record) (models.Track, error) {
		duration, err := rec.atoi("duration")
		if err != nil {
			return models.Track{}, err
		}
		return models.Track{
			ID:       rec.str("id"),
			Service:  rec.str("service"),
			Title:    rec.str("title"),
			Artist:   rec.str("artist"),
			Album:    rec.str("album"),
			Duration: duration,
			ISRC:     rec.str("isrc"),
		}, nil
	})
}

// DecodePlaylistsCSV reads playlists with columns id, service, name, description, track_count and public.
// Only id is required.
func DecodePlaylistsCSV(r io.Reader) ([]models.Playlist, error) {
	return decodeCSV(r, []string{"id"}, func(rec record) (models.Playlist, error) {
		id, err := rec.parseInt("id")
		if err != nil {
			return models.Playlist{}, err
		}
		count, err := rec.atoi("track_count")
		if err != nil {
			return models.Playlist{}, err
		}
		public, err := rec.parseBool("public")
		if err != nil {
			return models.Playlist{}, err
		}
		return models.Playlist{
			ID:          id,
			Service:     rec.str("service"),
			Name:        rec.str("name"),
			Description: rec.str("description"),
			TrackCount:  count,
			Public:      public,
		}, nil
	})
}

// LoadTracks reads tracks from a .json or .csv file.
func LoadTracks(path string) ([]models.Track, error) {
	return load(path, DecodeJSON[models.Track], DecodeTracksCSV)
}

// LoadPlaylists reads playlists from a .json or .csv file.
func LoadPlaylists(path string) ([]models.Playlist, error) {
	return load(path, DecodeJSON[models.Playlist], DecodePlaylistsCSV)
}

func load[D any](path string, fromJSON, fromCSV func(io.Reader) ([]D, error)) ([]D, error) {
	var decode func(io.Reader) ([]D, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = fromJSON
	case ".csv":
		decode = fromCSV
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (want .json or .csv)", shared.ErrInvalidInput, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dtos, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return dtos, nil
}

// RunsToCSV converts sync runs to CSV with columns: Sequence, ID, Entity, Operation, Backend, DryRun, Outcome, Affected, Message, Error, StartedAt, CompletedAt
func RunsToCSV(runs []*models.SyncRun) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "ID", "Entity", "Operation", "Backend", "DryRun", "Outcome", "Affected", "Message", "Error", "StartedAt", "CompletedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		completed := ""
		if run.CompletedAt() != nil {
			completed = run.CompletedAt().Format(time.RFC3339)
		}
		record := []string{
			strconv.Itoa(run.Sequence()),
			run.ID(),
			run.Entity(),
			run.Operation(),
			run.Backend(),
			strconv.FormatBool(run.DryRun()),
			run.Outcome(),
			strconv.FormatInt(run.Affected(), 10),
			run.Message(),
			run.ErrorMessage(),
			run.StartedAt().Format(time.RFC3339),
			completed,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteRunsCSV exports runs to path.
func WriteRunsCSV(runs []*models.SyncRun, path string) error {
	data, err := RunsToCSV(runs)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}
