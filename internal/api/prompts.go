package api

import (
	"net/http"
	"strconv"

	"veno_backend/internal/catalog"

	"github.com/gin-gonic/gin"
)

// ListPromptsHandler returns random curated prompt suggestions
func ListPromptsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count := 6 // Default suggestion count
		if v := c.Query("count"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 20 {
				count = n
			}
		}
		c.JSON(http.StatusOK, gin.H{"prompts": catalog.Random(count)})
	}
}
