package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Track is the transfer object for a song, keyed by a service-qualified ID (e.g. "spotify:4uLU6hMC").
type Track struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"` // seconds
	ISRC     string `json:"isrc,omitempty"`
}

func (t Track) Identifier() string { return t.ID }

// NewEntity returns an empty [PersistedTrack].
func (t Track) NewEntity() *PersistedTrack { return &PersistedTrack{} }

// PersistedTrack is a stored track row in the tracks table.
type PersistedTrack struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Service   string    `gorm:"column:service" json:"service"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Artist    string    `gorm:"column:artist" json:"artist"`
	Album     string    `gorm:"column:album" json:"album"`
	Duration  int       `gorm:"column:duration" json:"duration"`
	ISRC      string    `gorm:"column:isrc;index" json:"isrc"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName pins the GORM table name to the migrated schema.
func (*PersistedTrack) TableName() string { return "tracks" }

func (t *PersistedTrack) Identifier() string { return t.ID }

func (t *PersistedTrack) Touch(now time.Time) { touch(&t.CreatedAt, &t.UpdatedAt, now) }

// Validate checks the fields required by the tracks schema.
func (t *PersistedTrack) Validate() error {
	switch {
	case t.ID == "":
		return errors.New("track id is required")
	case t.Title == "":
		return errors.New("track title is required")
	case t.Duration < 0:
		return errors.New("track duration must not be negative")
	}
	return nil
}

// BeforeSave runs [PersistedTrack.Validate] for GORM creates and updates.
func (t *PersistedTrack) BeforeSave(*gorm.DB) error { return t.Validate() }
