package services

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// CompatibilityService computes the symmetric taste-compatibility score for
// an unordered user pair, serving fresh cached results as-is and upserting
// the cache after every recomputation.
type CompatibilityService interface {
	Compatibility(userA, userB uint) (*models.CompatibilityResult, error)
}

type compatibilityService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	songRepo   repository.SongRepository
	compatRepo repository.CompatibilityRepository
	config     *config.Config
	now        func() time.Time
}

func NewCompatibilityService(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	songRepo repository.SongRepository,
	compatRepo repository.CompatibilityRepository,
	cfg *config.Config,
) CompatibilityService {
	return &compatibilityService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		songRepo:   songRepo,
		compatRepo: compatRepo,
		config:     cfg,
		now:        time.Now,
	}
}

func (s *compatibilityService) Compatibility(userA, userB uint) (*models.CompatibilityResult, error) {
	pairKey, low, high := models.PairKey(userA, userB)
	asOf := s.now()

	cached, err := s.compatRepo.GetCompatibilityCache(pairKey)
	if err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}
	if cached != nil && asOf.Sub(cached.ComputedAt) < s.config.CompatibilityCacheTTL {
		return &models.CompatibilityResult{
			Percentage: toPercentage(cached.Score),
			Score:      cached.Score,
			Components: cached.Components(),
			ComputedAt: cached.ComputedAt,
			FromCache:  true,
		}, nil
	}

	// Independent per-user reads, fanned out.
	var (
		ratingsA, ratingsB []models.SongRating
		profileA, profileB *models.PreferenceProfile
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		ratingsA, err = s.reviewRepo.GetReviewsByUser(low)
		return err
	})
	g.Go(func() (err error) {
		ratingsB, err = s.reviewRepo.GetReviewsByUser(high)
		return err
	})
	g.Go(func() (err error) {
		profileA, err = s.userRepo.GetPreferenceProfile(low)
		return err
	})
	g.Go(func() (err error) {
		profileB, err = s.userRepo.GetPreferenceProfile(high)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}

	genreA, err := s.likedGenres(ratingsA)
	if err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}
	genreB, err := s.likedGenres(ratingsB)
	if err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}

	components := models.CompatibilityComponents{
		CF:       ClampSimilarity(CosineSimilarity(RatingVector(ratingsA), RatingVector(ratingsB))),
		Genre:    JaccardSimilarity(genreA, genreB),
		Artist:   JaccardSimilarity(profileA.FavoriteArtistSet(), profileB.FavoriteArtistSet()),
		Language: JaccardSimilarity(profileA.LanguageSet(), profileB.LanguageSet()),
		Era:      eraCompatibility(profileA, profileB),
	}

	w := s.config.CompatibilityWeights
	score := clamp01(w.CF*components.CF +
		w.Genre*components.Genre +
		w.Artist*components.Artist +
		w.Language*components.Language +
		w.Era*components.Era)

	entry := &models.CompatibilityCache{
		PairKey:    pairKey,
		UserLowID:  low,
		UserHighID: high,
		Score:      score,
		CF:         components.CF,
		Genre:      components.Genre,
		Artist:     components.Artist,
		Language:   components.Language,
		Era:        components.Era,
		ComputedAt: asOf,
	}
	if err := s.compatRepo.UpsertCompatibilityCache(entry); err != nil {
		return nil, fmt.Errorf("compatibility: %w", err)
	}

	return &models.CompatibilityResult{
		Percentage: toPercentage(score),
		Score:      score,
		Components: components,
		ComputedAt: asOf,
	}, nil
}

func (s *compatibilityService) likedGenres(ratings []models.SongRating) (map[string]struct{}, error) {
	ids := make([]string, 0, len(ratings))
	for _, r := range ratings {
		if r.Rating >= s.config.MinRatingForGenreTaste {
			ids = append(ids, r.SongID)
		}
	}
	if len(ids) == 0 {
		return map[string]struct{}{}, nil
	}
	songs, err := s.songRepo.GetSongsByIDs(ids)
	if err != nil {
		return nil, err
	}
	songsByID := make(map[string]models.Song, len(songs))
	for _, song := range songs {
		songsByID[song.ID] = song
	}
	return LikedGenreSet(ratings, songsByID, s.config.MinRatingForGenreTaste), nil
}

// eraCompatibility compares mean era midpoints; a user with no declared eras
// gets the neutral 0.5 rather than a zero, matching the era scorer's
// era-agnostic default.
func eraCompatibility(a, b *models.PreferenceProfile) float64 {
	midA, okA := a.MeanEraMidpoint()
	midB, okB := b.MeanEraMidpoint()
	if !okA || !okB {
		return 0.5
	}
	return EraMidpointSimilarity(midA, midB)
}

func toPercentage(score float64) int {
	return int(math.Round(clamp01(score) * 100))
}
