package repository

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gmaddy200516-hash/melodyboxd/internal/database"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

var (
	ErrSongNotFound   = errors.New("song not found")
	ErrArtistNotFound = errors.New("artist not found")
)

type SongRepository interface {
	CreateSong(song *models.Song) error
	GetSongByID(id string) (*models.Song, error)
	GetSongByExternalID(externalID string) (*models.Song, error)
	GetSongsByIDs(ids []string) ([]models.Song, error)
	SearchSongs(query string, limit int) ([]models.Song, error)
	GetPopularSongs(limit int) ([]models.Song, error)
	// GetCandidateSongs returns up to cap songs ordered by 30-day popularity,
	// optionally restricted to the given languages.
	GetCandidateSongs(languages []string, cap int) ([]models.Song, error)
	EnsureArtist(artist *models.Artist) error
	GetArtistByID(id string) (*models.Artist, error)
	GetArtistsByIDs(ids []string) ([]models.Artist, error)
	UpdateSong(song *models.Song) error
	RefreshPopularity(window time.Duration) error
}

type songRepo struct {
	db *gorm.DB
}

func NewSongRepository() SongRepository {
	return &songRepo{db: database.DB}
}

func (r *songRepo) CreateSong(song *models.Song) error {
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	return r.db.Create(song).Error
}

func (r *songRepo) GetSongByID(id string) (*models.Song, error) {
	var song models.Song
	err := r.db.Preload("Artist").First(&song, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return &song, nil
}

func (r *songRepo) GetSongByExternalID(externalID string) (*models.Song, error) {
	var song models.Song
	err := r.db.First(&song, "external_id = ?", externalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return &song, nil
}

func (r *songRepo) GetSongsByIDs(ids []string) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Where("id IN ?", ids).Find(&songs).Error
	return songs, err
}

func (r *songRepo) SearchSongs(query string, limit int) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Preload("Artist").
		Where("title ILIKE ?", "%"+query+"%").
		Limit(limit).
		Find(&songs).Error
	return songs, err
}

func (r *songRepo) GetPopularSongs(limit int) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Order("popularity_30d DESC").Limit(limit).Find(&songs).Error
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

func (r *songRepo) GetCandidateSongs(languages []string, cap int) ([]models.Song, error) {
	q := r.db.Order("popularity_30d DESC").Limit(cap)
	if len(languages) > 0 {
		q = q.Where("language IN ?", languages)
	}
	var songs []models.Song
	if err := q.Find(&songs).Error; err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

// EnsureArtist creates the artist on first reference; when the external ID
// is already known, the stored record is loaded into artist instead.
func (r *songRepo) EnsureArtist(artist *models.Artist) error {
	var existing models.Artist
	err := r.db.Where("external_id = ?", artist.ExternalID).First(&existing).Error
	if err == nil {
		*artist = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if artist.ID == "" {
		artist.ID = uuid.NewString()
	}
	return r.db.Create(artist).Error
}

func (r *songRepo) GetArtistByID(id string) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.First(&artist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &artist, nil
}

func (r *songRepo) GetArtistsByIDs(ids []string) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.Where("id IN ?", ids).Find(&artists).Error
	return artists, err
}

func (r *songRepo) UpdateSong(song *models.Song) error {
	return r.db.Save(song).Error
}

// RefreshPopularity recomputes the rolling popularity figure from review
// volume inside the window. Normally invoked by the periodic job, exposed
// here so the admin route can force it.
func (r *songRepo) RefreshPopularity(window time.Duration) error {
	cutoff := time.Now().Add(-window)
	err := r.db.Exec(`
		UPDATE songs SET popularity_30d = COALESCE(sub.pop, 0)
		FROM (
			SELECT song_id, SUM(rating) / 5.0 AS pop
			FROM reviews
			WHERE created_at >= ?
			GROUP BY song_id
		) AS sub
		WHERE songs.id = sub.song_id`, cutoff).Error
	if err != nil {
		return err
	}
	log.Printf("[RefreshPopularity] Rolling popularity recomputed (window %s)", window)
	return nil
}
