package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
	"github.com/gmaddy200516-hash/melodyboxd/internal/services"
)

type ProfileHandler struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	songRepo   repository.SongRepository
	config     *config.Config
}

func NewProfileHandler(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	songRepo repository.SongRepository,
	cfg *config.Config,
) *ProfileHandler {
	return &ProfileHandler{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		songRepo:   songRepo,
		config:     cfg,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	profile, err := h.userRepo.GetPreferenceProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   profile,
	})
}

// UpdateProfile overwrites the caller's preference profile in place;
// profiles are never deleted.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	if err := validateProfileUpdate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	profile := &models.PreferenceProfile{
		UserID:             userID,
		PreferredLanguages: req.PreferredLanguages,
		PreferredEras:      req.PreferredEras,
		FavoriteArtistIDs:  req.FavoriteArtistIDs,
	}
	if err := h.userRepo.UpsertPreferenceProfile(profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   profile,
	})
}

// GetTasteGenres is the diagnostic view of the caller's highly-rated genres,
// ranked by frequency.
func (h *ProfileHandler) GetTasteGenres(c *gin.Context) {
	userID := c.GetUint("user_id")

	ratings, err := h.reviewRepo.GetReviewsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch reviews",
		})
		return
	}

	ids := make([]string, 0, len(ratings))
	for _, r := range ratings {
		ids = append(ids, r.SongID)
	}
	songs, err := h.songRepo.GetSongsByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch songs",
		})
		return
	}
	songsByID := make(map[string]models.Song, len(songs))
	for _, song := range songs {
		songsByID[song.ID] = song
	}

	ranked := services.RankGenresByFrequency(ratings, songsByID, h.config.MinRatingForGenreTaste)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   ranked,
	})
}

func validateProfileUpdate(req *models.ProfileUpdate) error {
	if len(req.FavoriteArtistIDs) > models.MaxFavoriteArtists {
		return fmt.Errorf("at most %d favorite artists allowed", models.MaxFavoriteArtists)
	}
	for _, era := range req.PreferredEras {
		if era.Start > era.End {
			return fmt.Errorf("invalid era range %d-%d: start must not exceed end", era.Start, era.End)
		}
	}
	return nil
}
