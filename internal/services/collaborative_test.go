package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

func TestPredictRatingFromOneNeighbor(t *testing.T) {
	// User 1 and user 2 agree perfectly on s1; user 2 rated s2 with 4.5, so
	// the prediction for user 1 on s2 is 4.5, normalized to (4.5-0.5)/4.5.
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "s1", Rating: 5},
		{ID: 2, UserID: 2, SongID: "s1", Rating: 5},
		{ID: 3, UserID: 2, SongID: "s2", Rating: 4.5},
	}}
	svc := NewCollaborativeService(reviews)

	score, err := svc.PredictRating(1, "s2")

	require.NoError(t, err)
	assert.InDelta(t, 4.0/4.5, score, 1e-9)
}

func TestPredictRatingNeutralWithoutNeighbors(t *testing.T) {
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "s1", Rating: 5},
	}}
	svc := NewCollaborativeService(reviews)

	score, err := svc.PredictRating(1, "s2")

	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}

func TestPredictRatingIgnoresOwnReview(t *testing.T) {
	// The only rater of s1 is the user themself, so there is no neighbor
	// evidence and the prediction stays neutral.
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "s1", Rating: 5},
	}}
	svc := NewCollaborativeService(reviews)

	score, err := svc.PredictRating(1, "s1")

	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}

func TestPredictRatingSkipsZeroSimilarityNeighbors(t *testing.T) {
	// User 3 rated s2 but shares no songs with user 1, so their rating
	// contributes nothing and the score falls back to neutral.
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "s1", Rating: 5},
		{ID: 2, UserID: 3, SongID: "s2", Rating: 0.5},
	}}
	svc := NewCollaborativeService(reviews)

	score, err := svc.PredictRating(1, "s2")

	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}

func TestPredictForSongsCoversAllCandidates(t *testing.T) {
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "s1", Rating: 5},
		{ID: 2, UserID: 2, SongID: "s1", Rating: 5},
		{ID: 3, UserID: 2, SongID: "s2", Rating: 5},
		{ID: 4, UserID: 2, SongID: "s3", Rating: 0.5},
	}}
	svc := NewCollaborativeService(reviews)

	scores, err := svc.PredictForSongs(1, []string{"s2", "s3", "s4"})

	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores["s2"], 1e-9)
	assert.InDelta(t, 0.0, scores["s3"], 1e-9)
	assert.Equal(t, 0.5, scores["s4"])
	for _, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestUserSimilarity(t *testing.T) {
	reviews := &fakeReviewRepo{reviews: []models.Review{
		{ID: 1, UserID: 1, SongID: "s1", Rating: 5},
		{ID: 2, UserID: 1, SongID: "s2", Rating: 1},
		{ID: 3, UserID: 2, SongID: "s1", Rating: 5},
		{ID: 4, UserID: 2, SongID: "s2", Rating: 1},
		{ID: 5, UserID: 3, SongID: "s9", Rating: 5},
	}}
	svc := NewCollaborativeService(reviews)

	same, err := svc.UserSimilarity(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	none, err := svc.UserSimilarity(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, none)
}
