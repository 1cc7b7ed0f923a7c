package models

import (
	"time"
)

// Artist is created lazily the first time a song or favorite-artist slot
// references it.
type Artist struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"external_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	PrimaryGenre string    `gorm:"type:varchar(100)" json:"primary_genre"`
	Language     string    `gorm:"type:varchar(10)" json:"language"`
	EraStart     int       `json:"era_start"`
	EraEnd       int       `json:"era_end"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Song is an immutable catalog entry, created on first reference and never
// deleted. Popularity30d is a rolling 30-day figure recomputed by a periodic
// job, not by the scoring engine.
type Song struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"external_id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	ArtistID     string    `gorm:"type:uuid;index;not null" json:"artist_id"`
	Genres       []string  `gorm:"serializer:json" json:"genres"`
	Language     string    `gorm:"type:varchar(10);index" json:"language"`
	ReleaseYear  int       `gorm:"index" json:"release_year"`
	Popularity30 float64   `gorm:"column:popularity_30d;default:0" json:"popularity_30d"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`

	Artist *Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
}

// GenreSet returns the song's genre tags as a set.
func (s *Song) GenreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Genres))
	for _, g := range s.Genres {
		set[g] = struct{}{}
	}
	return set
}
