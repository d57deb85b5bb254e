package api

import (
	"context"  // Context for Redis operations
	"io"       // Streaming download bytes
	"net/http" // HTTP status codes
	"net/url"  // Deep link encoding
	"strconv"  // String conversion
	"time"     // Time durations

	"veno_backend/internal/domain"
	"veno_backend/internal/store"
	"veno_backend/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// ListVideosHandler returns the authenticated user's videos, newest first
func ListVideosHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page, pageSize := pagination(c)
		// Redis cache key
		cacheKey := "videos:user:" + strconv.Itoa(int(userID.(uint))) +
			":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Videos     []domain.Video `json:"videos"`
			Page       int            `json:"page"`
			PageSize   int            `json:"page_size"`
			Total      int64          `json:"total"`
			TotalPages int            `json:"total_pages"`
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"videos":      cached.Videos,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true, // Indicate response is from cache
			})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		videos, total, err := st.VideosByUser(c.Request.Context(), userID.(uint), offset, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		resp := gin.H{
			"videos":      videos,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp)
	}
}

// VideoStatsHandler returns the user's generation statistics
func VideoStatsHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()
		cacheKey := "videostats:user:" + strconv.Itoa(int(userID.(uint)))
		var cached store.VideoStats
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"stats": cached, "cached": true})
			return
		}
		stats, err := st.StatsByUser(c.Request.Context(), userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, stats, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{"stats": stats, "cached": false})
	}
}

// ShareVideoHandler builds a prefilled WhatsApp deep link for a video the
// user owns
func ShareVideoHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		video, ok := ownedVideo(c, st, userID.(uint))
		if !ok {
			return
		}
		if video.VideoURL == nil || video.Status != domain.VideoStatusCompleted {
			c.JSON(http.StatusConflict, gin.H{"error": "Video is not ready to share"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"share_url": ShareLink(*video.VideoURL)})
	}
}

// ShareLink builds the WhatsApp deep link containing the video URL
func ShareLink(videoURL string) string {
	text := "Check out this AI-generated video I made with Veno! 🎥✨\n" + videoURL
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

// DownloadVideoHandler fetches the video bytes from the provider's CDN and
// streams them back as an attachment
func DownloadVideoHandler(st *store.Store, client *http.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		video, ok := ownedVideo(c, st, userID.(uint))
		if !ok {
			return
		}
		if video.VideoURL == nil || video.Status != domain.VideoStatusCompleted {
			c.JSON(http.StatusConflict, gin.H{"error": "Video is not ready to download"})
			return
		}
		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, *video.VideoURL, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video"})
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch video"})
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch video"})
			return
		}
		filename := "veno-video-" + strconv.FormatInt(time.Now().Unix(), 10) + ".mp4"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "video/mp4")
		_, _ = io.Copy(c.Writer, resp.Body) // Stream bytes through
	}
}

// ownedVideo loads the :id video and enforces ownership, writing the error
// response itself when the lookup fails
func ownedVideo(c *gin.Context, st *store.Store, userID uint) (*domain.Video, bool) {
	video, err := st.VideoByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return nil, false
	}
	if video.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your video"})
		return nil, false
	}
	return video, true
}

// pagination reads page/page_size query params with the usual bounds
func pagination(c *gin.Context) (int, int) {
	page := 1      // Default page number
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}
