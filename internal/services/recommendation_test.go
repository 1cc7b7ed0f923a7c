package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

func TestSelectMode(t *testing.T) {
	tests := []struct {
		reviews int64
		want    models.ScoringMode
	}{
		{0, models.ModeColdStart},
		{4, models.ModeColdStart},
		{5, models.ModeHybrid},
		{100, models.ModeHybrid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SelectMode(tt.reviews, 5), "reviews=%d", tt.reviews)
	}
}

type engineFixture struct {
	users   *fakeUserRepo
	songs   *fakeSongRepo
	reviews *fakeReviewRepo
	follows *fakeFollowRepo
	cfg     *config.Config
}

func (f *engineFixture) build(asOf time.Time) RecommendationService {
	social := NewSocialWeightService(f.follows, newFakeCompatRepo(), f.cfg)
	social.(*socialWeightService).now = func() time.Time { return asOf }
	svc := NewRecommendationService(
		f.users,
		f.songs,
		f.reviews,
		NewColdStartService(f.users, f.songs, f.cfg),
		NewCollaborativeService(f.reviews),
		NewCommunityScoreService(f.reviews, social, f.cfg),
		f.cfg,
	)
	svc.(*recommendationService).now = func() time.Time { return asOf }
	return svc
}

// newEngineFixture seeds user 1 with n reviews (songs rated-0..rated-n-1,
// all 5 stars) plus two unrated candidates.
func newEngineFixture(n int) *engineFixture {
	f := &engineFixture{
		users:   &fakeUserRepo{},
		songs:   &fakeSongRepo{},
		reviews: &fakeReviewRepo{},
		follows: newFakeFollowRepo(),
		cfg:     config.DefaultEngineConfig(),
	}
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		id := ratedSongID(i)
		f.songs.songs = append(f.songs.songs, models.Song{
			ID: id, Language: "en", Genres: []string{"pop"}, ReleaseYear: 2020,
		})
		f.reviews.reviews = append(f.reviews.reviews, models.Review{
			ID: uint(i + 1), UserID: 1, SongID: id, Rating: 5, CreatedAt: base,
		})
	}
	f.songs.songs = append(f.songs.songs,
		models.Song{ID: "cand-pop", Language: "en", Genres: []string{"pop"}, ReleaseYear: 2021, Popularity30: 5},
		models.Song{ID: "cand-metal", Language: "en", Genres: []string{"metal"}, ReleaseYear: 2021, Popularity30: 4},
	)
	return f
}

func ratedSongID(i int) string {
	return "rated-" + string(rune('a'+i))
}

func TestRecommendModeBoundary(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cold := newEngineFixture(4).build(asOf)
	coldScores, err := cold.Recommend(1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, coldScores)
	for _, s := range coldScores {
		assert.Equal(t, models.ModeColdStart, s.Mode)
		assert.Nil(t, s.Components)
	}

	hybrid := newEngineFixture(5).build(asOf)
	hybridScores, err := hybrid.Recommend(1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hybridScores)
	for _, s := range hybridScores {
		assert.Equal(t, models.ModeHybrid, s.Mode)
		require.NotNil(t, s.Components)
	}
}

func TestHybridExcludesRatedSongs(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newEngineFixture(6)
	svc := f.build(asOf)

	scores, err := svc.Recommend(1, 50)

	require.NoError(t, err)
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.NotContains(t, s.Song.ID, "rated-")
	}
}

func TestHybridAppliesHardFilter(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newEngineFixture(5)
	f.users.profiles = map[uint]*models.PreferenceProfile{
		1: {UserID: 1, PreferredLanguages: []string{"en"}},
	}
	f.songs.songs = append(f.songs.songs,
		models.Song{ID: "cand-es", Language: "es", Genres: []string{"pop"}, ReleaseYear: 2021, Popularity30: 9})
	svc := f.build(asOf)

	scores, err := svc.Recommend(1, 50)

	require.NoError(t, err)
	for _, s := range scores {
		assert.NotEqual(t, "cand-es", s.Song.ID)
	}
}

func TestHybridScoresStayInUnitRange(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newEngineFixture(5)
	f.users.profiles = map[uint]*models.PreferenceProfile{
		1: {
			UserID:             1,
			PreferredLanguages: []string{"en"},
			PreferredEras:      []models.EraRange{{Start: 2015, End: 2025}},
			FavoriteArtistIDs:  []string{"artist-x"},
		},
	}
	svc := f.build(asOf)

	scores, err := svc.Recommend(1, 50)

	require.NoError(t, err)
	require.NotEmpty(t, scores)
	for i, s := range scores {
		assert.GreaterOrEqual(t, s.Score, 0.0)
		assert.LessOrEqual(t, s.Score, 1.0)
		assert.Equal(t, i+1, s.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, scores[i-1].Score, s.Score)
		}
	}
}

func TestHybridGenreSignalRanksMatchingSongFirst(t *testing.T) {
	// With every weight but genre zeroed out, the candidate sharing the
	// user's liked genre must outrank the one that does not.
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newEngineFixture(5)
	f.cfg.HybridWeights = config.HybridWeights{Genre: 1}
	svc := f.build(asOf)

	scores, err := svc.Recommend(1, 10)

	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "cand-pop", scores[0].Song.ID)
	assert.InDelta(t, 1.0, scores[0].Components.Genre, 1e-9)
	assert.Equal(t, "cand-metal", scores[1].Song.ID)
	assert.InDelta(t, 0.0, scores[1].Components.Genre, 1e-9)
}

func TestHybridTieBreakKeepsPopularityOrder(t *testing.T) {
	// Both candidates score identically when only the (equal) language signal
	// carries weight, so the popularity-ordered pool decides.
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newEngineFixture(5)
	f.users.profiles = map[uint]*models.PreferenceProfile{
		1: {UserID: 1, PreferredLanguages: []string{"en"}},
	}
	f.cfg.HybridWeights = config.HybridWeights{Language: 1}
	svc := f.build(asOf)

	scores, err := svc.Recommend(1, 10)

	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "cand-pop", scores[0].Song.ID)
	assert.Equal(t, "cand-metal", scores[1].Song.ID)
	assert.InDelta(t, scores[0].Score, scores[1].Score, 1e-9)
}

func TestRecommendPropagatesUpstreamFailure(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newEngineFixture(5)
	f.reviews.err = assert.AnError
	svc := f.build(asOf)

	_, err := svc.Recommend(1, 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
