package models

import (
	"time"
)

const (
	MinRating     = 0.5
	MaxRating     = 5.0
	RatingStep    = 0.5
	ToxicityLimit = 0.5 // reviews above this toxicity carry zero community influence
)

// Review holds one user's rating of one song: at most one per (user, song),
// mutable and deletable only by its author.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_song" json:"user_id"`
	SongID    string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_song" json:"song_id"`
	Rating    float64   `gorm:"not null" json:"rating"`
	Text      string    `gorm:"type:text" json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      *User                `gorm:"foreignKey:UserID" json:"-"`
	Song      *Song                `gorm:"foreignKey:SongID" json:"song,omitempty"`
	Sentiment *SentimentAnnotation `gorm:"foreignKey:ReviewID" json:"sentiment,omitempty"`
}

// ValidRating reports whether r sits in [0.5, 5.0] on a 0.5 grid.
func ValidRating(r float64) bool {
	if r < MinRating || r > MaxRating {
		return false
	}
	steps := r / RatingStep
	return steps == float64(int(steps))
}

// SentimentAnnotation is produced asynchronously by an external annotator,
// keyed 1:1 to a review. A review may not have one yet; scoring treats that
// as neutral, never as an error.
type SentimentAnnotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"uniqueIndex;not null" json:"review_id"`
	Sentiment float64   `gorm:"not null" json:"sentiment"` // [-1, 1]
	Toxicity  float64   `gorm:"not null" json:"toxicity"`  // [0, 1]
	Emotions  []string  `gorm:"serializer:json" json:"emotions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SentimentMultiplier is the total function turning an optional annotation
// into a community-score multiplier: 1.0 when absent, 0 when toxic, else
// 1 + 0.2*sentiment.
func SentimentMultiplier(ann *SentimentAnnotation) float64 {
	if ann == nil {
		return 1.0
	}
	if ann.Toxicity > ToxicityLimit {
		return 0
	}
	return 1 + 0.2*ann.Sentiment
}

// SongRating is the slim {songID, rating} projection used by the similarity
// kernels.
type SongRating struct {
	SongID string  `json:"song_id"`
	Rating float64 `json:"rating"`
}

// ReviewInput is the inbound create/update payload.
type ReviewInput struct {
	SongID string  `json:"song_id" binding:"required"`
	Rating float64 `json:"rating" binding:"required"`
	Text   string  `json:"text"`
}

// SentimentInput is the annotator callback payload.
type SentimentInput struct {
	ReviewID  uint     `json:"review_id" binding:"required"`
	Sentiment float64  `json:"sentiment"`
	Toxicity  float64  `json:"toxicity"`
	Emotions  []string `json:"emotions"`
}
