package services

import (
	"fmt"
	"sort"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

const (
	coldStartArtistBoost   = 1.0
	coldStartLanguageBoost = 0.5
)

// ColdStartService ranks songs for users with too little history for
// collaborative signals. The score is an unbounded additive ranking key
// (popularity + affinity boosts), not a [0,1] value: only its ordering
// matters.
type ColdStartService interface {
	Recommend(userID uint, limit int) ([]models.RecommendationScore, error)
}

type coldStartService struct {
	userRepo repository.UserRepository
	songRepo repository.SongRepository
	config   *config.Config
}

func NewColdStartService(
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	cfg *config.Config,
) ColdStartService {
	return &coldStartService{
		userRepo: userRepo,
		songRepo: songRepo,
		config:   cfg,
	}
}

func (s *coldStartService) Recommend(userID uint, limit int) ([]models.RecommendationScore, error) {
	profile, err := s.userRepo.GetPreferenceProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("cold start: %w", err)
	}

	// Candidates restricted by preferred language only; the era filter does
	// not apply in cold start.
	candidates, err := s.songRepo.GetCandidateSongs(profile.PreferredLanguages, s.config.CandidatePoolCap)
	if err != nil {
		return nil, fmt.Errorf("cold start: %w", err)
	}

	favorites := profile.FavoriteArtistSet()
	languages := profile.LanguageSet()

	scores := make([]models.RecommendationScore, 0, len(candidates))
	for _, song := range candidates {
		score := song.Popularity30
		if _, ok := favorites[song.ArtistID]; ok {
			score += coldStartArtistBoost
		}
		if _, ok := languages[song.Language]; ok {
			score += coldStartLanguageBoost
		}
		scores = append(scores, models.RecommendationScore{
			Song:  song,
			Score: score,
			Mode:  models.ModeColdStart,
		})
	}

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
