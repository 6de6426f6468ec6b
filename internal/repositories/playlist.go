package repositories

import (
	"github.com/desertthunder/reconcile/internal/models"
	"github.com/desertthunder/reconcile/internal/stores"
)

// PlaylistTable maps [models.PersistedPlaylist] onto the playlists table.
var PlaylistTable = stores.Table[int64, *models.PersistedPlaylist]{
	Name:    "playlists",
	Key:     "id",
	Columns: []string{"service", "name", "description", "track_count", "public", "created_at", "updated_at"},
	Values: func(p *models.PersistedPlaylist) []any {
		return []any{p.Service, p.Name, p.Description, p.TrackCount, p.Public, p.CreatedAt, p.UpdatedAt}
	},
	Scan: scanPlaylist,
}

func scanPlaylist(row stores.Scanner) (*models.PersistedPlaylist, error) {
	var p models.PersistedPlaylist
	err := row.Scan(&p.ID, &p.Service, &p.Name, &p.Description, &p.TrackCount, &p.Public, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
