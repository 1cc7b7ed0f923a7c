package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

type SocialHandler struct {
	followRepo repository.FollowRepository
}

func NewSocialHandler(followRepo repository.FollowRepository) *SocialHandler {
	return &SocialHandler{followRepo: followRepo}
}

func parseTargetUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid user id",
		})
		return 0, false
	}
	return uint(id), true
}

func (h *SocialHandler) Follow(c *gin.Context) {
	userID := c.GetUint("user_id")
	targetID, ok := parseTargetUserID(c)
	if !ok {
		return
	}

	if err := h.followRepo.Follow(userID, targetID); err != nil {
		if errors.Is(err, repository.ErrSelfFollow) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Cannot follow yourself",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to follow user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Following",
	})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint("user_id")
	targetID, ok := parseTargetUserID(c)
	if !ok {
		return
	}

	if err := h.followRepo.Unfollow(userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to unfollow user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Unfollowed",
	})
}

func (h *SocialHandler) GetEdges(c *gin.Context) {
	userID := c.GetUint("user_id")

	edges, err := h.followRepo.GetFollowEdges(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch follow edges",
		})
		return
	}

	following := make([]uint, 0, len(edges.Following))
	for id := range edges.Following {
		following = append(following, id)
	}
	followers := make([]uint, 0, len(edges.Followers))
	for id := range edges.Followers {
		followers = append(followers, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"following": following,
			"followers": followers,
		},
	})
}
