package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// communityWorkers bounds the per-candidate scoring fan-out.
const communityWorkers = 8

// RecommendationService is the hybrid engine entry point: it picks exactly
// one scoring mode per request (cold start below the activity threshold,
// hybrid at or above it), hard-filters candidates, blends the six signals
// with the configured weights, and ranks.
type RecommendationService interface {
	Recommend(userID uint, limit int) ([]models.RecommendationScore, error)
}

type recommendationService struct {
	userRepo   repository.UserRepository
	songRepo   repository.SongRepository
	reviewRepo repository.ReviewRepository
	coldStart  ColdStartService
	cf         CollaborativeService
	community  CommunityScoreService
	config     *config.Config
	now        func() time.Time
}

func NewRecommendationService(
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	reviewRepo repository.ReviewRepository,
	coldStart ColdStartService,
	cf CollaborativeService,
	community CommunityScoreService,
	cfg *config.Config,
) RecommendationService {
	return &recommendationService{
		userRepo:   userRepo,
		songRepo:   songRepo,
		reviewRepo: reviewRepo,
		coldStart:  coldStart,
		cf:         cf,
		community:  community,
		config:     cfg,
		now:        time.Now,
	}
}

// SelectMode is the two-state switch keyed on interaction count. Users below
// the threshold are cold-start, everyone else is hybrid; never both.
func SelectMode(reviewCount int64, threshold int) models.ScoringMode {
	if reviewCount < int64(threshold) {
		return models.ModeColdStart
	}
	return models.ModeHybrid
}

func (s *recommendationService) Recommend(userID uint, limit int) ([]models.RecommendationScore, error) {
	if limit <= 0 {
		limit = 10
	}

	count, err := s.reviewRepo.CountReviewsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	mode := SelectMode(count, s.config.ColdStartThreshold)
	log.Printf("[Recommend] user=%d reviews=%d mode=%s", userID, count, mode)
	if mode == models.ModeColdStart {
		return s.coldStart.Recommend(userID, limit)
	}
	return s.hybrid(userID, limit)
}

func (s *recommendationService) hybrid(userID uint, limit int) ([]models.RecommendationScore, error) {
	// The profile, rating history and candidate pool are independent reads.
	var (
		profile    *models.PreferenceProfile
		ratings    []models.SongRating
		candidates []models.Song
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		profile, err = s.userRepo.GetPreferenceProfile(userID)
		return err
	})
	g.Go(func() (err error) {
		ratings, err = s.reviewRepo.GetReviewsByUser(userID)
		return err
	})
	g.Go(func() (err error) {
		candidates, err = s.songRepo.GetCandidateSongs(nil, s.config.CandidatePoolCap)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	rated := make(map[string]struct{}, len(ratings))
	ratedIDs := make([]string, 0, len(ratings))
	for _, r := range ratings {
		rated[r.SongID] = struct{}{}
		ratedIDs = append(ratedIDs, r.SongID)
	}

	ratedSongs, err := s.songRepo.GetSongsByIDs(ratedIDs)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	songsByID := make(map[string]models.Song, len(ratedSongs))
	for _, song := range ratedSongs {
		songsByID[song.ID] = song
	}
	likedGenres := LikedGenreSet(ratings, songsByID, s.config.MinRatingForGenreTaste)

	// Hard filter first, then drop already-rated songs. Rejections are final
	// for this request.
	pool := make([]models.Song, 0, len(candidates))
	for _, song := range HardFilter(candidates, profile) {
		if _, seen := rated[song.ID]; seen {
			continue
		}
		pool = append(pool, song)
	}

	poolIDs := make([]string, len(pool))
	for i, song := range pool {
		poolIDs[i] = song.ID
	}
	cfScores, err := s.cf.PredictForSongs(userID, poolIDs)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	favorites := profile.FavoriteArtistSet()
	languages := profile.LanguageSet()
	weights := s.config.HybridWeights
	asOf := s.now()

	scores := make([]models.RecommendationScore, len(pool))
	var sg errgroup.Group
	sg.SetLimit(communityWorkers)
	for i, song := range pool {
		i, song := i, song
		sg.Go(func() error {
			communityScore, err := s.community.Score(userID, song.ID, asOf)
			if err != nil {
				return err
			}

			components := models.ScoreComponents{
				Genre:     JaccardSimilarity(likedGenres, song.GenreSet()),
				CF:        cfScores[song.ID],
				Community: communityScore,
				Era:       EraProximity(song.ReleaseYear, profile.PreferredEras),
			}
			if _, ok := favorites[song.ArtistID]; ok {
				components.Artist = 1
			}
			if _, ok := languages[song.Language]; ok {
				components.Language = 1
			}

			score := weights.Genre*components.Genre +
				weights.CF*components.CF +
				weights.Community*components.Community +
				weights.Artist*components.Artist +
				weights.Language*components.Language +
				weights.Era*components.Era

			scores[i] = models.RecommendationScore{
				Song:       song,
				Score:      clamp01(score),
				Mode:       models.ModeHybrid,
				Components: &components,
			}
			return nil
		})
	}
	if err := sg.Wait(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	// Stable sort keeps candidate-pool order (popularity-descending) as the
	// tie-break.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if len(scores) > limit {
		scores = scores[:limit]
	}
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores, nil
}
