package services

import (
	"time"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

const (
	socialWeightBase       = 1.0
	socialWeightFollowing  = 1.2
	socialWeightMutual     = 1.5
	socialSimilarityBonus  = 0.3
	socialSimilarityCutoff = 0.7
)

// SocialWeightService derives how much each reviewer's opinion counts for a
// given viewer, from the follow graph and cached taste compatibility.
type SocialWeightService interface {
	// WeightsFor returns a multiplier per reviewer. The bonus for high taste
	// compatibility reads fresh cache entries only; a miss means no bonus.
	WeightsFor(viewerID uint, reviewerIDs []uint) (map[uint]float64, error)
}

type socialWeightService struct {
	followRepo repository.FollowRepository
	compatRepo repository.CompatibilityRepository
	config     *config.Config
	now        func() time.Time
}

func NewSocialWeightService(
	followRepo repository.FollowRepository,
	compatRepo repository.CompatibilityRepository,
	cfg *config.Config,
) SocialWeightService {
	return &socialWeightService{
		followRepo: followRepo,
		compatRepo: compatRepo,
		config:     cfg,
		now:        time.Now,
	}
}

func (s *socialWeightService) WeightsFor(viewerID uint, reviewerIDs []uint) (map[uint]float64, error) {
	edges, err := s.followRepo.GetFollowEdges(viewerID)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	weights := make(map[uint]float64, len(reviewerIDs))
	for _, reviewerID := range reviewerIDs {
		if _, done := weights[reviewerID]; done {
			continue
		}

		weight := socialWeightBase
		switch {
		case edges.Mutual(reviewerID):
			weight = socialWeightMutual
		case edges.Follows(reviewerID):
			weight = socialWeightFollowing
		}

		// Similarity bonus stacks on the follow-based base weight; the
		// combined weight is intentionally uncapped.
		if reviewerID != viewerID {
			fresh, err := s.freshCompatibility(viewerID, reviewerID, asOf)
			if err != nil {
				return nil, err
			}
			if fresh > socialSimilarityCutoff {
				weight += socialSimilarityBonus
			}
		}

		weights[reviewerID] = weight
	}
	return weights, nil
}

// freshCompatibility returns the cached pair score, or 0 when the cache has
// no entry fresh enough to trust.
func (s *socialWeightService) freshCompatibility(a, b uint, asOf time.Time) (float64, error) {
	key, _, _ := models.PairKey(a, b)
	entry, err := s.compatRepo.GetCompatibilityCache(key)
	if err != nil {
		return 0, err
	}
	if entry == nil || asOf.Sub(entry.ComputedAt) >= s.config.CompatibilityCacheTTL {
		return 0, nil
	}
	return entry.Score, nil
}
