package models

import (
	"fmt"
	"time"
)

// CompatibilityComponents is the per-signal breakdown of a pairwise score.
type CompatibilityComponents struct {
	CF       float64 `json:"cf"`
	Genre    float64 `json:"genre"`
	Artist   float64 `json:"artist"`
	Language float64 `json:"language"`
	Era      float64 `json:"era"`
}

// CompatibilityCache stores a computed pair score so repeat requests inside
// the freshness window skip recomputation. Keyed by the canonical (low, high)
// ordering of the two user IDs; upserted only by the compatibility engine.
type CompatibilityCache struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PairKey    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserLowID  uint      `gorm:"not null" json:"-"`
	UserHighID uint      `gorm:"not null" json:"-"`
	Score      float64   `gorm:"not null" json:"score"`
	CF         float64   `json:"cf"`
	Genre      float64   `json:"genre"`
	Artist     float64   `json:"artist"`
	Language   float64   `json:"language"`
	Era        float64   `json:"era"`
	ComputedAt time.Time `gorm:"not null" json:"computed_at"`
}

// Components rebuilds the breakdown struct from the cached columns.
func (c *CompatibilityCache) Components() CompatibilityComponents {
	return CompatibilityComponents{
		CF:       c.CF,
		Genre:    c.Genre,
		Artist:   c.Artist,
		Language: c.Language,
		Era:      c.Era,
	}
}

// PairKey canonicalizes an unordered user pair into a stable cache key.
func PairKey(a, b uint) (key string, low, high uint) {
	low, high = a, b
	if low > high {
		low, high = high, low
	}
	return fmt.Sprintf("%d:%d", low, high), low, high
}

// CompatibilityResult is the caller-facing shape: a display percentage plus
// the component breakdown it was blended from.
type CompatibilityResult struct {
	Percentage int                     `json:"percentage"`
	Score      float64                 `json:"score"`
	Components CompatibilityComponents `json:"components"`
	ComputedAt time.Time               `json:"computed_at"`
	FromCache  bool                    `json:"from_cache"`
}
