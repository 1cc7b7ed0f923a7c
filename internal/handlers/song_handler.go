package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
	"github.com/gmaddy200516-hash/melodyboxd/internal/services"
)

type SongHandler struct {
	songRepo        repository.SongRepository
	metadataService services.MusicMetadataService
	uploadService   services.UploadService
}

func NewSongHandler(
	songRepo repository.SongRepository,
	metadataService services.MusicMetadataService,
	uploadService services.UploadService,
) *SongHandler {
	return &SongHandler{
		songRepo:        songRepo,
		metadataService: metadataService,
		uploadService:   uploadService,
	}
}

// SearchSongs checks the local catalog first and falls back to the external
// metadata lookup, ingesting anything new (songs and artists are created on
// first reference).
func (h *SongHandler) SearchSongs(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Query parameter 'q' is required",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 20 {
		limit = 20
	}

	songs, err := h.songRepo.SearchSongs(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Search failed",
		})
		return
	}

	if len(songs) == 0 {
		ingested, err := h.metadataService.SearchAndIngest(query, limit)
		if err != nil {
			log.Printf("[SearchSongs] external lookup failed: %v", err)
		} else {
			songs = ingested
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   songs,
		"count":  len(songs),
	})
}

func (h *SongHandler) GetSongByID(c *gin.Context) {
	song, err := h.songRepo.GetSongByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Song not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch song",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   song,
	})
}

func (h *SongHandler) GetPopularSongs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	songs, err := h.songRepo.GetPopularSongs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch popular songs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   songs,
		"count":  len(songs),
	})
}

// RefreshPopularity forces the rolling 30-day popularity recompute the
// periodic job normally runs.
func (h *SongHandler) RefreshPopularity(c *gin.Context) {
	if err := h.songRepo.RefreshPopularity(30 * 24 * time.Hour); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to refresh popularity",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Popularity refreshed",
	})
}

func (h *SongHandler) UploadCoverArt(c *gin.Context) {
	if h.uploadService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Cover upload is not configured",
		})
		return
	}
	songID := c.Param("id")

	file, _, err := c.Request.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Form file 'cover' is required",
		})
		return
	}
	defer file.Close()

	url, err := h.uploadService.UploadCoverArt(file, songID)
	if err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Song not found",
			})
			return
		}
		log.Printf("[UploadCoverArt] song=%s: %v", songID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Upload failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"image_url": url},
	})
}
