package middleware

import (
	"net/http"                    // HTTP status codes
	"veno_backend/internal/store" // Admin membership lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks admin membership once per request and stashes
// the result in the context so handlers never re-check
func AdminOnlyMiddleware(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		isAdmin, err := st.IsAdmin(c.Request.Context(), userID.(uint))
		if err != nil || !isAdmin {
			// Membership row absent means no admin privilege
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Set("isAdmin", true) // Request-scoped authorization result
		c.Next()               // Proceed to the next handler
	}
}
