package repositories

import (
	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/stores"
)

// TrackTable maps [models.PersistedTrack] onto the tracks table.
var TrackTable = stores.Table[string, *models.PersistedTrack]{
	Name:    "tracks",
	Key:     "id",
	Columns: []string{"service", "title", "artist", "album", "duration", "isrc", "created_at", "updated_at"},
	Values: func(t *models.PersistedTrack) []any {
		return []any{t.Service, t.Title, t.Artist, t.Album, t.Duration, t.ISRC, t.CreatedAt, t.UpdatedAt}
	},
	Scan: scanTrack,
}

func scanTrack(row stores.Scanner) (*models.PersistedTrack, error) {
	var t models.PersistedTrack
	err := row.Scan(&t.ID, &t.Service, &t.Title, &t.Artist, &t.Album, &t.Duration, &t.ISRC, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
