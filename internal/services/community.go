package services

import (
	"fmt"
	"math"
	"time"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// CommunityScoreService aggregates a song's reviews into one [0,1] score,
// weighted by recency, sentiment, toxicity, and the viewer's social
// closeness to each reviewer.
type CommunityScoreService interface {
	Score(viewerID uint, songID string, asOf time.Time) (float64, error)
}

type communityScoreService struct {
	reviewRepo repository.ReviewRepository
	social     SocialWeightService
	config     *config.Config
}

func NewCommunityScoreService(
	reviewRepo repository.ReviewRepository,
	social SocialWeightService,
	cfg *config.Config,
) CommunityScoreService {
	return &communityScoreService{
		reviewRepo: reviewRepo,
		social:     social,
		config:     cfg,
	}
}

func (s *communityScoreService) Score(viewerID uint, songID string, asOf time.Time) (float64, error) {
	reviews, err := s.reviewRepo.GetReviewsBySong(songID)
	if err != nil {
		return 0, fmt.Errorf("community score: %w", err)
	}
	if len(reviews) == 0 {
		return 0.5, nil
	}

	reviewerIDs := make([]uint, 0, len(reviews))
	for _, review := range reviews {
		reviewerIDs = append(reviewerIDs, review.UserID)
	}
	weights, err := s.social.WeightsFor(viewerID, reviewerIDs)
	if err != nil {
		return 0, fmt.Errorf("community score: %w", err)
	}

	var numerator, totalWeight float64
	for _, review := range reviews {
		multiplier := models.SentimentMultiplier(review.Sentiment)
		if multiplier == 0 {
			// toxic review: zero influence on both sides of the ratio
			continue
		}

		days := asOf.Sub(review.CreatedAt).Hours() / 24
		decayed := review.Rating * math.Exp(-s.config.CommunityDecayRate*days)
		weight := weights[review.UserID]

		numerator += weight * multiplier * decayed
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.5, nil
	}
	return clamp01(numerator / totalWeight / models.MaxRating), nil
}
