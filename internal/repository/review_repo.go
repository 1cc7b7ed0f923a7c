package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmaddy200516-hash/melodyboxd/internal/database"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository interface {
	// GetReviewsByUser returns the user's rating vector as {songID, rating}.
	GetReviewsByUser(userID uint) ([]models.SongRating, error)
	// GetReviewsBySong returns all reviews of a song with sentiment
	// annotations preloaded where they exist.
	GetReviewsBySong(songID string) ([]models.Review, error)
	GetRecentReviews(since time.Time) ([]models.Review, error)
	CountReviewsByUser(userID uint) (int64, error)
	GetReview(userID uint, songID string) (*models.Review, error)
	GetReviewByID(id uint) (*models.Review, error)
	ListReviewsByUser(userID uint) ([]models.Review, error)
	UpsertReview(review *models.Review) error
	DeleteReview(userID uint, songID string) error
	UpsertSentiment(ann *models.SentimentAnnotation) error
}

type reviewRepo struct {
	db *gorm.DB
}

func NewReviewRepository() ReviewRepository {
	return &reviewRepo{db: database.DB}
}

func (r *reviewRepo) GetReviewsByUser(userID uint) ([]models.SongRating, error) {
	var ratings []models.SongRating
	err := r.db.Model(&models.Review{}).
		Select("song_id, rating").
		Where("user_id = ?", userID).
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []models.SongRating{}
	}
	return ratings, nil
}

func (r *reviewRepo) GetReviewsBySong(songID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Sentiment").
		Where("song_id = ?", songID).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

func (r *reviewRepo) GetRecentReviews(since time.Time) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("created_at >= ?", since).Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

func (r *reviewRepo) CountReviewsByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *reviewRepo) GetReview(userID uint, songID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("user_id = ? AND song_id = ?", userID, songID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetReviewByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ListReviewsByUser(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Song").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// UpsertReview enforces the one-review-per-(user, song) invariant: a second
// save from the same user overwrites rating and text.
func (r *reviewRepo) UpsertReview(review *models.Review) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "song_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "text", "updated_at"}),
	}).Create(review).Error
}

// DeleteReview hard-deletes the review and its sentiment annotation.
func (r *reviewRepo) DeleteReview(userID uint, songID string) error {
	var review models.Review
	err := r.db.Where("user_id = ? AND song_id = ?", userID, songID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if err := r.db.Where("review_id = ?", review.ID).Delete(&models.SentimentAnnotation{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&review).Error
}

// UpsertSentiment lands the annotator's result, last writer wins.
func (r *reviewRepo) UpsertSentiment(ann *models.SentimentAnnotation) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "review_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sentiment", "toxicity", "emotions", "updated_at"}),
	}).Create(ann).Error
}
