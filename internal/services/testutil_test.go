package services

import (
	"sort"
	"time"

	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// In-memory repository fakes. Each carries an optional err that, when set,
// is returned by every read so upstream-failure propagation can be tested.

type fakeReviewRepo struct {
	reviews []models.Review
	nextID  uint
	err     error
}

var _ repository.ReviewRepository = (*fakeReviewRepo)(nil)

func (f *fakeReviewRepo) GetReviewsByUser(userID uint) ([]models.SongRating, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.SongRating{}
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, models.SongRating{SongID: r.SongID, Rating: r.Rating})
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetReviewsBySong(songID string) ([]models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.SongID == songID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetRecentReviews(since time.Time) ([]models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Review{}
	for _, r := range f.reviews {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) CountReviewsByUser(userID uint) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, r := range f.reviews {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReviewRepo) GetReview(userID uint, songID string) (*models.Review, error) {
	for i := range f.reviews {
		if f.reviews[i].UserID == userID && f.reviews[i].SongID == songID {
			return &f.reviews[i], nil
		}
	}
	return nil, repository.ErrReviewNotFound
}

func (f *fakeReviewRepo) GetReviewByID(id uint) (*models.Review, error) {
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			return &f.reviews[i], nil
		}
	}
	return nil, repository.ErrReviewNotFound
}

func (f *fakeReviewRepo) ListReviewsByUser(userID uint) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) UpsertReview(review *models.Review) error {
	for i := range f.reviews {
		if f.reviews[i].UserID == review.UserID && f.reviews[i].SongID == review.SongID {
			f.reviews[i].Rating = review.Rating
			f.reviews[i].Text = review.Text
			return nil
		}
	}
	f.nextID++
	review.ID = f.nextID
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewRepo) DeleteReview(userID uint, songID string) error {
	for i := range f.reviews {
		if f.reviews[i].UserID == userID && f.reviews[i].SongID == songID {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return repository.ErrReviewNotFound
}

func (f *fakeReviewRepo) UpsertSentiment(ann *models.SentimentAnnotation) error {
	for i := range f.reviews {
		if f.reviews[i].ID == ann.ReviewID {
			f.reviews[i].Sentiment = ann
			return nil
		}
	}
	return repository.ErrReviewNotFound
}

type fakeSongRepo struct {
	songs []models.Song // slice order doubles as popularity order
	err   error
}

var _ repository.SongRepository = (*fakeSongRepo)(nil)

func (f *fakeSongRepo) CreateSong(song *models.Song) error {
	f.songs = append(f.songs, *song)
	return nil
}

func (f *fakeSongRepo) GetSongByID(id string) (*models.Song, error) {
	for i := range f.songs {
		if f.songs[i].ID == id {
			return &f.songs[i], nil
		}
	}
	return nil, repository.ErrSongNotFound
}

func (f *fakeSongRepo) GetSongByExternalID(externalID string) (*models.Song, error) {
	for i := range f.songs {
		if f.songs[i].ExternalID == externalID {
			return &f.songs[i], nil
		}
	}
	return nil, repository.ErrSongNotFound
}

func (f *fakeSongRepo) GetSongsByIDs(ids []string) ([]models.Song, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []models.Song{}
	for _, s := range f.songs {
		if _, ok := want[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSongRepo) SearchSongs(query string, limit int) ([]models.Song, error) {
	return nil, nil
}

func (f *fakeSongRepo) GetPopularSongs(limit int) ([]models.Song, error) {
	if limit > len(f.songs) {
		limit = len(f.songs)
	}
	return append([]models.Song{}, f.songs[:limit]...), nil
}

func (f *fakeSongRepo) GetCandidateSongs(languages []string, cap int) ([]models.Song, error) {
	if f.err != nil {
		return nil, f.err
	}
	langs := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		langs[l] = struct{}{}
	}
	out := []models.Song{}
	for _, s := range f.songs {
		if len(langs) > 0 {
			if _, ok := langs[s.Language]; !ok {
				continue
			}
		}
		out = append(out, s)
		if len(out) == cap {
			break
		}
	}
	return out, nil
}

func (f *fakeSongRepo) EnsureArtist(artist *models.Artist) error { return nil }

func (f *fakeSongRepo) GetArtistByID(id string) (*models.Artist, error) {
	return nil, repository.ErrArtistNotFound
}

func (f *fakeSongRepo) GetArtistsByIDs(ids []string) ([]models.Artist, error) {
	return nil, nil
}

func (f *fakeSongRepo) UpdateSong(song *models.Song) error { return nil }

func (f *fakeSongRepo) RefreshPopularity(window time.Duration) error { return nil }

type fakeUserRepo struct {
	profiles map[uint]*models.PreferenceProfile
	err      error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) CreateUser(user *models.User) error { return nil }

func (f *fakeUserRepo) FindUserByEmail(email string) (*models.User, error) { return nil, nil }

func (f *fakeUserRepo) FindUserByID(id uint) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (f *fakeUserRepo) GetPreferenceProfile(userID uint) (*models.PreferenceProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if profile, ok := f.profiles[userID]; ok {
		return profile, nil
	}
	return &models.PreferenceProfile{UserID: userID}, nil
}

func (f *fakeUserRepo) UpsertPreferenceProfile(profile *models.PreferenceProfile) error {
	if f.profiles == nil {
		f.profiles = make(map[uint]*models.PreferenceProfile)
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeUserRepo) HashPassword(password string) (string, error) { return password, nil }

func (f *fakeUserRepo) VerifyPassword(hashedPassword, password string) error { return nil }

type fakeFollowRepo struct {
	edges map[uint]map[uint]struct{} // follower -> followees
	err   error
}

var _ repository.FollowRepository = (*fakeFollowRepo)(nil)

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[uint]map[uint]struct{})}
}

func (f *fakeFollowRepo) follow(follower, followee uint) {
	if f.edges[follower] == nil {
		f.edges[follower] = make(map[uint]struct{})
	}
	f.edges[follower][followee] = struct{}{}
}

func (f *fakeFollowRepo) GetFollowEdges(userID uint) (models.FollowEdges, error) {
	edges := models.FollowEdges{
		Following: make(map[uint]struct{}),
		Followers: make(map[uint]struct{}),
	}
	if f.err != nil {
		return edges, f.err
	}
	for followee := range f.edges[userID] {
		edges.Following[followee] = struct{}{}
	}
	for follower, followees := range f.edges {
		if _, ok := followees[userID]; ok {
			edges.Followers[follower] = struct{}{}
		}
	}
	return edges, nil
}

func (f *fakeFollowRepo) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return repository.ErrSelfFollow
	}
	f.follow(followerID, followeeID)
	return nil
}

func (f *fakeFollowRepo) Unfollow(followerID, followeeID uint) error {
	delete(f.edges[followerID], followeeID)
	return nil
}

type fakeCompatRepo struct {
	entries map[string]*models.CompatibilityCache
	upserts int
	err     error
}

var _ repository.CompatibilityRepository = (*fakeCompatRepo)(nil)

func newFakeCompatRepo() *fakeCompatRepo {
	return &fakeCompatRepo{entries: make(map[string]*models.CompatibilityCache)}
}

func (f *fakeCompatRepo) GetCompatibilityCache(pairKey string) (*models.CompatibilityCache, error) {
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[pairKey]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeCompatRepo) UpsertCompatibilityCache(entry *models.CompatibilityCache) error {
	copied := *entry
	f.entries[entry.PairKey] = &copied
	f.upserts++
	return nil
}

// songIDsOf extracts the IDs of a ranked recommendation list, in order.
func songIDsOf(scores []models.RecommendationScore) []string {
	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.Song.ID
	}
	return ids
}

// sortedIDs returns the song IDs of a slice as a sorted set, order ignored.
func sortedIDs(songs []models.Song) []string {
	ids := make([]string, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	sort.Strings(ids)
	return ids
}
