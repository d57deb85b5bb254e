package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"veno_backend/internal/domain"
	"veno_backend/internal/realtime"
	"veno_backend/internal/store"
	"veno_backend/internal/utils" // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// TopupRequestBody represents a top-up claim submission
type TopupRequestBody struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"` // Requested credit amount
	PhoneNumber    string `json:"phone_number" binding:"required"`
	TransactionRef string `json:"transaction_ref" binding:"required"`
}

// GetWalletHandler returns the wallet balance for the authenticated user
func GetWalletHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                                   // Context for Redis operations
		cacheKey := "wallet:user:" + strconv.Itoa(int(userID.(uint))) // Cache key for wallet
		var cached struct {
			Balance int64 `json:"balance"`
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"balance": cached.Balance, "cached": true})
			return
		}
		balance, err := st.WalletBalance(c.Request.Context(), userID.(uint))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, gin.H{"balance": balance}, walletCacheTTL)
		c.JSON(http.StatusOK, gin.H{"balance": balance, "cached": false})
	}
}

// CreateTopupHandler records a pending top-up claim for admin review
func CreateTopupHandler(st *store.Store, rdb *redis.Client, hub *realtime.Hub, minAmount int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req TopupRequestBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Amount < minAmount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Minimum top-up is " + strconv.FormatInt(minAmount, 10)})
			return
		}
		topup := domain.TopupRequest{
			UserID:         userID.(uint),
			Amount:         req.Amount,
			PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
			TransactionRef: strings.TrimSpace(req.TransactionRef),
		}
		if err := st.CreateTopupRequest(c.Request.Context(), &topup); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"amount":  req.Amount,
				"error":   err.Error(),
			}).Error("Failed to create top-up request") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create top-up request"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,
			"topup_id": topup.ID,
			"amount":   req.Amount,
			"type":     "topup_request",
		}).Info("Top-up request created")
		// Admin listings cache this table; drop them so the new claim shows up
		invalidateTopupCaches(rdb, userID.(uint))
		hub.Publish(realtime.Event{Table: "topup_requests", Op: "insert"})
		c.JSON(http.StatusCreated, gin.H{"message": "Top-up request submitted", "request": topup})
	}
}

// ListOwnTopupsHandler returns the user's own top-up requests
func ListOwnTopupsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		reqs, err := st.TopupsByUser(c.Request.Context(), userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top-up requests"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": reqs})
	}
}
