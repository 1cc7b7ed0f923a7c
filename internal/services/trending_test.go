package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

func newTrendingService(reviews *fakeReviewRepo, songs *fakeSongRepo, asOf time.Time) TrendingService {
	svc := NewTrendingService(reviews, songs, config.DefaultEngineConfig())
	svc.(*trendingService).now = func() time.Time { return asOf }
	return svc
}

func TestTrendingExcludesReviewsOutsideWindow(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "recent", Rating: 5, CreatedAt: asOf.AddDate(0, 0, -1)},
		{ID: 2, UserID: 2, SongID: "ancient", Rating: 5, CreatedAt: asOf.AddDate(0, 0, -8)},
	}}
	songs := &fakeSongRepo{songs: []models.Song{
		{ID: "recent"}, {ID: "ancient"},
	}}
	svc := newTrendingService(reviews, songs, asOf)

	scores, err := svc.Trending(10)

	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "recent", scores[0].Song.ID)
}

func TestTrendingFresherReviewsRankHigher(t *testing.T) {
	// Equal ratings, so the decay alone decides the order.
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "older", Rating: 5, CreatedAt: asOf.AddDate(0, 0, -5)},
		{ID: 2, UserID: 2, SongID: "newer", Rating: 5, CreatedAt: asOf.AddDate(0, 0, -1)},
	}}
	songs := &fakeSongRepo{songs: []models.Song{
		{ID: "older"}, {ID: "newer"},
	}}
	svc := newTrendingService(reviews, songs, asOf)

	scores, err := svc.Trending(10)

	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "newer", scores[0].Song.ID)
	assert.Equal(t, 1, scores[0].Rank)
	assert.Greater(t, scores[0].Engagement, scores[1].Engagement)
}

func TestTrendingAggregatesPerSong(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "crowd", Rating: 3, CreatedAt: asOf},
		{ID: 2, UserID: 2, SongID: "crowd", Rating: 3, CreatedAt: asOf},
		{ID: 3, UserID: 3, SongID: "solo", Rating: 5, CreatedAt: asOf},
	}}
	songs := &fakeSongRepo{songs: []models.Song{
		{ID: "crowd"}, {ID: "solo"},
	}}
	svc := newTrendingService(reviews, songs, asOf)

	scores, err := svc.Trending(10)

	require.NoError(t, err)
	require.Len(t, scores, 2)
	// two 3-star reviews outweigh one 5-star review
	assert.Equal(t, "crowd", scores[0].Song.ID)
	assert.InDelta(t, 6.0, scores[0].Engagement, 1e-9)
	assert.InDelta(t, 5.0, scores[1].Engagement, 1e-9)
}

func TestTrendingEmptyWindow(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTrendingService(&fakeReviewRepo{}, &fakeSongRepo{}, asOf)

	scores, err := svc.Trending(10)

	require.NoError(t, err)
	assert.NotNil(t, scores)
	assert.Empty(t, scores)
}

func TestTrendingTruncatesToLimit(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := &fakeReviewRepo{}
	songs := &fakeSongRepo{}
	for i := 0; i < 5; i++ {
		id := "song-" + string(rune('a'+i))
		songs.songs = append(songs.songs, models.Song{ID: id})
		reviews.reviews = append(reviews.reviews, models.Review{
			ID: uint(i + 1), UserID: uint(i + 1), SongID: id, Rating: 4,
			CreatedAt: asOf.AddDate(0, 0, -i),
		})
	}
	svc := newTrendingService(reviews, songs, asOf)

	scores, err := svc.Trending(3)

	require.NoError(t, err)
	require.Len(t, scores, 3)
	for i, s := range scores {
		assert.Equal(t, i+1, s.Rank)
	}
}
