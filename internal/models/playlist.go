package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Playlist is the transfer object for playlist metadata.
type Playlist struct {
	ID          int64  `json:"id"`
	Service     string `json:"service"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

func (p Playlist) Identifier() int64 { return p.ID }

func (p Playlist) NewEntity() *PersistedPlaylist { return &PersistedPlaylist{} }

// PersistedPlaylist is a stored playlist row in the playlists table.
type PersistedPlaylist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	Service     string    `gorm:"column:service" json:"service"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	TrackCount  int       `gorm:"column:track_count" json:"track_count"`
	Public      bool      `gorm:"column:public" json:"public"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (*PersistedPlaylist) TableName() string { return "playlists" }

func (p *PersistedPlaylist) Identifier() int64 { return p.ID }

func (p *PersistedPlaylist) Touch(now time.Time) { touch(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *PersistedPlaylist) Validate() error {
	switch {
	case p.ID <= 0:
		return errors.New("playlist id must be positive")
	case p.Name == "":
		return errors.New("playlist name is required")
	case p.TrackCount < 0:
		return errors.New("playlist track count must not be negative")
	}
	return nil
}

func (p *PersistedPlaylist) BeforeSave(*gorm.DB) error { return p.Validate() }
