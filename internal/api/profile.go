package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"veno_backend/internal/realtime"
	"veno_backend/internal/store"
	"veno_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// UpdateProfileRequest carries the only field users may edit
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// GetProfileHandler returns the user's profile along with wallet balance and
// daily quota usage
func GetProfileHandler(st *store.Store, rdb *redis.Client, dailyLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := st.UserByID(c.Request.Context(), userID.(uint))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		used, err := st.DailyVideoCount(c.Request.Context(), userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily usage"})
			return
		}
		remaining := int64(dailyLimit) - used
		if remaining < 0 {
			remaining = 0
		}
		c.JSON(http.StatusOK, gin.H{
			"profile":         user,
			"daily_used":      used,
			"daily_limit":     dailyLimit,
			"daily_remaining": remaining,
		})
	}
}

// UpdateProfileHandler changes the display name
func UpdateProfileHandler(st *store.Store, rdb *redis.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		name := strings.TrimSpace(req.DisplayName)
		if name == "" || len(name) > 64 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Display name must be 1-64 characters"})
			return
		}
		if err := st.UpdateDisplayName(c.Request.Context(), userID.(uint), name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		// Invalidate the cached wallet view (it embeds profile fields)
		_ = utils.DeleteCache(context.Background(), rdb, "wallet:user:"+strconv.Itoa(int(userID.(uint))))
		hub.Publish(realtime.Event{Table: "profiles", Op: "update"})
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
	}
}

// walletCacheTTL keeps the balance view fresh enough for the UI
const walletCacheTTL = 60 * time.Second
