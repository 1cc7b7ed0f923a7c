package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gmaddy200516-hash/melodyboxd/internal/services"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
	trendingService       services.TrendingService
	compatibilityService  services.CompatibilityService
}

func NewRecommendationHandler(
	recommendation services.RecommendationService,
	trending services.TrendingService,
	compatibility services.CompatibilityService,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendation,
		trendingService:       trending,
		compatibilityService:  compatibility,
	}
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return limit
}

// GetRecommendations serves the mode-selected ranking. Upstream failure is a
// 503, never an empty list: an empty 200 means the engine genuinely found
// nothing to recommend.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID := c.GetUint("user_id")
	limit := parseLimit(c)

	recommendations, err := h.recommendationService.Recommend(userID, limit)
	if err != nil {
		log.Printf("[GetRecommendations] user=%d: %v", userID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Recommendations temporarily unavailable, please retry",
		})
		return
	}

	for i := range recommendations {
		recommendations[i].Score = math.Round(recommendations[i].Score*10000) / 10000
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   recommendations,
		"count":  len(recommendations),
	})
}

func (h *RecommendationHandler) GetTrending(c *gin.Context) {
	limit := parseLimit(c)

	trending, err := h.trendingService.Trending(limit)
	if err != nil {
		log.Printf("[GetTrending] %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Trending temporarily unavailable, please retry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   trending,
		"count":  len(trending),
	})
}

func (h *RecommendationHandler) GetCompatibility(c *gin.Context) {
	viewerID := c.GetUint("user_id")

	otherID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || otherID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid user id",
		})
		return
	}
	if uint(otherID) == viewerID {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Cannot compute compatibility with yourself",
		})
		return
	}

	result, err := h.compatibilityService.Compatibility(viewerID, uint(otherID))
	if err != nil {
		log.Printf("[GetCompatibility] %d vs %d: %v", viewerID, otherID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Compatibility temporarily unavailable, please retry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   result,
	})
}
