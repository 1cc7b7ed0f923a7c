package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// TrendingService ranks songs by recency-decayed review engagement over a
// fixed window. Preference-agnostic: no hard filter, no personalization.
type TrendingService interface {
	Trending(limit int) ([]models.TrendingScore, error)
}

type trendingService struct {
	reviewRepo repository.ReviewRepository
	songRepo   repository.SongRepository
	config     *config.Config
	now        func() time.Time
}

func NewTrendingService(
	reviewRepo repository.ReviewRepository,
	songRepo repository.SongRepository,
	cfg *config.Config,
) TrendingService {
	return &trendingService{
		reviewRepo: reviewRepo,
		songRepo:   songRepo,
		config:     cfg,
		now:        time.Now,
	}
}

func (s *trendingService) Trending(limit int) ([]models.TrendingScore, error) {
	if limit <= 0 {
		limit = 10
	}

	asOf := s.now()
	since := asOf.AddDate(0, 0, -s.config.TrendingWindowDays)
	reviews, err := s.reviewRepo.GetRecentReviews(since)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}

	engagement := make(map[string]float64)
	for _, review := range reviews {
		if review.CreatedAt.Before(since) {
			// outside the window, excluded entirely
			continue
		}
		days := asOf.Sub(review.CreatedAt).Hours() / 24
		engagement[review.SongID] += review.Rating * math.Exp(-s.config.TrendingDecayRate*days)
	}

	if len(engagement) == 0 {
		return []models.TrendingScore{}, nil
	}

	songIDs := make([]string, 0, len(engagement))
	for songID := range engagement {
		songIDs = append(songIDs, songID)
	}
	// map iteration order is random; pin it down before ranking
	sort.Strings(songIDs)

	songs, err := s.songRepo.GetSongsByIDs(songIDs)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	songsByID := make(map[string]models.Song, len(songs))
	for _, song := range songs {
		songsByID[song.ID] = song
	}

	scores := make([]models.TrendingScore, 0, len(songIDs))
	for _, songID := range songIDs {
		song, ok := songsByID[songID]
		if !ok {
			continue
		}
		scores = append(scores, models.TrendingScore{
			Song:       song,
			Engagement: engagement[songID],
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Engagement > scores[j].Engagement
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores, nil
}
