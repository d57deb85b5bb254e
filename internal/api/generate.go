package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"veno_backend/internal/domain"
	"veno_backend/internal/generation"
	"veno_backend/internal/provider"
	"veno_backend/internal/realtime"
	"veno_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Generator runs the generation workflow
type Generator interface {
	Generate(ctx context.Context, userID uint, prompt string, premium bool) (*domain.Video, error)
}

// GenerateRequest represents a generation submission
type GenerateRequest struct {
	Prompt    string `json:"prompt"`     // Free-text video description
	IsPremium bool   `json:"is_premium"` // Bill against wallet instead of the daily quota
}

// inFlightTTL bounds how long a crashed request can hold the per-user lock.
// Slightly above the worst-case poll window (20 attempts x 3s).
const inFlightTTL = 90 * time.Second

// GenerateVideoHandler accepts a prompt, runs the generation workflow under a
// per-user in-flight lock, and returns the settled video
func GenerateVideoHandler(gen Generator, rdb *redis.Client, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req GenerateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "code": "invalid_request"})
			return
		}
		req.Prompt = strings.TrimSpace(req.Prompt)

		// One generation in flight per user: a resubmission while the first
		// is still polling is rejected, not queued
		lockKey := "generate:inflight:user:" + strconv.Itoa(int(userID.(uint)))
		ctx := c.Request.Context()
		ok, err := utils.AcquireLock(ctx, rdb, lockKey, inFlightTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start generation"})
			return
		}
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "A generation is already in progress", "code": "generation_in_flight"})
			return
		}
		defer func() {
			_ = utils.ReleaseLock(context.Background(), rdb, lockKey)
		}()

		video, err := gen.Generate(ctx, userID.(uint), req.Prompt, req.IsPremium)
		if err != nil {
			status, code := generationErrorResponse(err)
			c.JSON(status, gin.H{"error": err.Error(), "code": code})
			return
		}

		// Invalidate the user's cached lists and notify subscribers; clients
		// re-fetch rather than trusting the event payload
		invalidateVideoCaches(ctx, rdb, userID.(uint))
		hub.Publish(realtime.Event{Table: "videos", Op: "insert"})
		if req.IsPremium {
			_ = utils.DeleteCache(ctx, rdb, "wallet:user:"+strconv.Itoa(int(userID.(uint))))
			hub.Publish(realtime.Event{Table: "profiles", Op: "update"})
		}

		logrus.WithFields(logrus.Fields{
			"user_id":  userID,
			"video_id": video.ID,
			"premium":  req.IsPremium,
		}).Info("Video generated")
		c.JSON(http.StatusOK, gin.H{"video": video})
	}
}

// generationErrorResponse maps workflow errors to HTTP status and a stable
// machine-readable code
func generationErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest, "empty_prompt"
	case errors.Is(err, generation.ErrDailyLimitReached):
		return http.StatusForbidden, "daily_limit_reached"
	case errors.Is(err, generation.ErrInsufficientBalance):
		return http.StatusPaymentRequired, "insufficient_balance"
	case errors.Is(err, generation.ErrTimedOut):
		return http.StatusGatewayTimeout, "timed_out"
	case errors.Is(err, provider.ErrNoTaskID):
		return http.StatusBadGateway, "no_task_id"
	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, context.Canceled):
		return 499, "client_closed_request"
	default:
		return http.StatusBadGateway, "generation_failed"
	}
}

// invalidateVideoCaches drops the user's cached video pages and stats after
// a write (simple version: delete first 5 pages)
func invalidateVideoCaches(ctx context.Context, rdb *redis.Client, userID uint) {
	prefix := "videos:user:" + strconv.Itoa(int(userID))
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, prefix+":page:"+strconv.Itoa(i)+":size:20")
	}
	_ = utils.DeleteCache(ctx, rdb, "videostats:user:"+strconv.Itoa(int(userID)))
}
