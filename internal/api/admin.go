package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"veno_backend/internal/domain"
	"veno_backend/internal/realtime"
	"veno_backend/internal/store"
	"veno_backend/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ListTopupsHandler returns all top-up requests with requester emails,
// optionally filtered by status
func ListTopupsHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		status := c.Query("status")
		if status != "" && status != domain.TopupStatusPending &&
			status != domain.TopupStatusApproved && status != domain.TopupStatusRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		// Create a cache key based on the status filter
		cacheKey := "admin:topups:status=" + status
		var cached []store.TopupWithOwner
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"requests": cached, "cached": true})
			return
		}
		reqs, err := st.ListTopups(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top-up requests"})
			return
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, reqs, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"requests": reqs, "cached": false})
	}
}

// ApproveTopupHandler atomically approves a pending request and credits the
// requester's wallet. Reapplying to a settled request is a no-op.
func ApproveTopupHandler(st *store.Store, rdb *redis.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := c.MustGet("userID").(uint) // Resolved by the admin middleware
		requestID := c.Param("id")
		topup, err := st.ApproveTopup(c.Request.Context(), requestID, adminID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Top-up request not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"admin_id":   adminID,
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Top-up approval failed") // Log approval failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve top-up"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id":   adminID,
			"request_id": requestID,
			"user_id":    topup.UserID,
			"amount":     topup.Amount,
			"type":       "topup_approve",
		}).Info("Top-up approved") // Log approval
		invalidateTopupCaches(rdb, topup.UserID)
		hub.Publish(realtime.Event{Table: "topup_requests", Op: "update"})
		hub.Publish(realtime.Event{Table: "profiles", Op: "update"})
		c.JSON(http.StatusOK, gin.H{"message": "Top-up approved", "request": topup})
	}
}

// RejectTopupHandler marks a pending request rejected with no balance
// effect. Reapplying to a settled request is a no-op.
func RejectTopupHandler(st *store.Store, rdb *redis.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := c.MustGet("userID").(uint)
		requestID := c.Param("id")
		topup, err := st.RejectTopup(c.Request.Context(), requestID, adminID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Top-up request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject top-up"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id":   adminID,
			"request_id": requestID,
			"type":       "topup_reject",
		}).Info("Top-up rejected")
		invalidateTopupCaches(rdb, topup.UserID)
		hub.Publish(realtime.Event{Table: "topup_requests", Op: "update"})
		c.JSON(http.StatusOK, gin.H{"message": "Top-up rejected", "request": topup})
	}
}

// AdminListVideosHandler returns all videos with owner emails, filtered by an
// optional substring match on prompt or email
func AdminListVideosHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		page, pageSize := pagination(c)
		search := c.Query("search")
		// Build cache key from all query params
		cacheKey := "admin:videos:search=" + search +
			":page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Videos     []store.VideoWithOwner `json:"videos"`
			Total      int64                  `json:"total"`
			TotalPages int                    `json:"total_pages"`
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"videos":      cached.Videos,
				"page":        page,
				"page_size":   pageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		videos, total, err := st.SearchVideos(c.Request.Context(), search, offset, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"videos":      videos,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// AdminDeleteVideoHandler permanently removes a video row
func AdminDeleteVideoHandler(st *store.Store, rdb *redis.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := c.MustGet("userID").(uint)
		videoID := c.Param("id")
		video, err := st.VideoByID(c.Request.Context(), videoID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		if err := st.DeleteVideo(c.Request.Context(), videoID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id": adminID,
			"video_id": videoID,
			"user_id":  video.UserID,
		}).Info("Video deleted")
		invalidateVideoCaches(context.Background(), rdb, video.UserID)
		hub.Publish(realtime.Event{Table: "videos", Op: "delete"})
		c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
	}
}

// invalidateTopupCaches drops the admin top-up listings and the affected
// user's wallet view after a settlement
func invalidateTopupCaches(rdb *redis.Client, userID uint) {
	ctx := context.Background()
	for _, status := range []string{"", domain.TopupStatusPending, domain.TopupStatusApproved, domain.TopupStatusRejected} {
		_ = utils.DeleteCache(ctx, rdb, "admin:topups:status="+status)
	}
	_ = utils.DeleteCache(ctx, rdb, "wallet:user:"+strconv.Itoa(int(userID)))
}
