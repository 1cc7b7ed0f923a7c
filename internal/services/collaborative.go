package services

import (
	"fmt"

	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// CollaborativeService predicts a user's affinity for songs from the ratings
// of similar users (user-based collaborative filtering).
type CollaborativeService interface {
	// PredictRating returns a [0,1] affinity for one song: the
	// similarity-weighted average of other users' ratings, normalized, or
	// the neutral 0.5 when no positive-similarity neighbor rated it.
	PredictRating(userID uint, songID string) (float64, error)
	// PredictForSongs scores many songs at once, sharing neighbor rating
	// vectors across candidates.
	PredictForSongs(userID uint, songIDs []string) (map[string]float64, error)
	// UserSimilarity is cosine similarity over commonly-rated songs,
	// clamped to >= 0.
	UserSimilarity(userA, userB uint) (float64, error)
}

type collaborativeService struct {
	reviewRepo repository.ReviewRepository
}

func NewCollaborativeService(reviewRepo repository.ReviewRepository) CollaborativeService {
	return &collaborativeService{reviewRepo: reviewRepo}
}

func (s *collaborativeService) UserSimilarity(userA, userB uint) (float64, error) {
	ratingsA, err := s.reviewRepo.GetReviewsByUser(userA)
	if err != nil {
		return 0, fmt.Errorf("user similarity: %w", err)
	}
	ratingsB, err := s.reviewRepo.GetReviewsByUser(userB)
	if err != nil {
		return 0, fmt.Errorf("user similarity: %w", err)
	}
	return ClampSimilarity(CosineSimilarity(RatingVector(ratingsA), RatingVector(ratingsB))), nil
}

func (s *collaborativeService) PredictRating(userID uint, songID string) (float64, error) {
	scores, err := s.PredictForSongs(userID, []string{songID})
	if err != nil {
		return 0, err
	}
	return scores[songID], nil
}

func (s *collaborativeService) PredictForSongs(userID uint, songIDs []string) (map[string]float64, error) {
	ratings, err := s.reviewRepo.GetReviewsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("cf predict: %w", err)
	}
	userVec := RatingVector(ratings)

	// Neighbor vectors are shared across all candidate songs.
	neighborVecs := make(map[uint]map[string]float64)

	scores := make(map[string]float64, len(songIDs))
	for _, songID := range songIDs {
		reviews, err := s.reviewRepo.GetReviewsBySong(songID)
		if err != nil {
			return nil, fmt.Errorf("cf predict: %w", err)
		}

		var weightedSum, similaritySum float64
		for _, review := range reviews {
			if review.UserID == userID {
				continue
			}

			neighborVec, ok := neighborVecs[review.UserID]
			if !ok {
				neighborRatings, err := s.reviewRepo.GetReviewsByUser(review.UserID)
				if err != nil {
					return nil, fmt.Errorf("cf predict: %w", err)
				}
				neighborVec = RatingVector(neighborRatings)
				neighborVecs[review.UserID] = neighborVec
			}

			similarity := ClampSimilarity(CosineSimilarity(userVec, neighborVec))
			if similarity == 0 {
				continue
			}
			weightedSum += similarity * review.Rating
			similaritySum += similarity
		}

		if similaritySum == 0 {
			scores[songID] = 0.5
			continue
		}
		scores[songID] = NormalizePrediction(weightedSum / similaritySum)
	}
	return scores, nil
}
