package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

type ReviewHandler struct {
	reviewRepo repository.ReviewRepository
	songRepo   repository.SongRepository
}

func NewReviewHandler(reviewRepo repository.ReviewRepository, songRepo repository.SongRepository) *ReviewHandler {
	return &ReviewHandler{
		reviewRepo: reviewRepo,
		songRepo:   songRepo,
	}
}

// UpsertReview creates or overwrites the caller's review of a song; a user
// holds at most one review per song.
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	if !models.ValidRating(req.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Rating must be between 0.5 and 5.0 in 0.5 steps",
		})
		return
	}

	if _, err := h.songRepo.GetSongByID(req.SongID); err != nil {
		if errors.Is(err, repository.ErrSongNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Song not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to look up song",
		})
		return
	}

	review := &models.Review{
		UserID: userID,
		SongID: req.SongID,
		Rating: req.Rating,
		Text:   req.Text,
	}
	if err := h.reviewRepo.UpsertReview(review); err != nil {
		log.Printf("[UpsertReview] user=%d song=%s: %v", userID, req.SongID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save review",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   review,
	})
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint("user_id")
	songID := c.Param("song_id")

	if err := h.reviewRepo.DeleteReview(userID, songID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Review not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete review",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Review deleted",
	})
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviews, err := h.reviewRepo.ListReviewsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch reviews",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   reviews,
		"count":  len(reviews),
	})
}

// UpsertSentiment is the annotator callback. Annotations land eventually;
// until then scoring treats the review as neutral.
func (h *ReviewHandler) UpsertSentiment(c *gin.Context) {
	var req models.SentimentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	if req.Sentiment < -1 || req.Sentiment > 1 || req.Toxicity < 0 || req.Toxicity > 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Sentiment must be in [-1,1] and toxicity in [0,1]",
		})
		return
	}

	if _, err := h.reviewRepo.GetReviewByID(req.ReviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Review not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to look up review",
		})
		return
	}

	ann := &models.SentimentAnnotation{
		ReviewID:  req.ReviewID,
		Sentiment: req.Sentiment,
		Toxicity:  req.Toxicity,
		Emotions:  req.Emotions,
	}
	if err := h.reviewRepo.UpsertSentiment(ann); err != nil {
		log.Printf("[UpsertSentiment] review=%d: %v", req.ReviewID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to save sentiment annotation",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   ann,
	})
}
