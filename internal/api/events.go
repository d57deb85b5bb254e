package api

import (
	"encoding/json"
	"io"

	"veno_backend/internal/realtime"

	"github.com/gin-gonic/gin"
)

// EventsHandler streams change notifications over SSE. Events carry only the
// table and operation; clients re-fetch the affected list on receipt, which
// makes duplicate or out-of-order delivery harmless.
func EventsHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		events, cancel := hub.Subscribe(c.Request.Context())
		defer cancel()

		c.Stream(func(w io.Writer) bool {
			e, ok := <-events
			if !ok {
				return false // Subscription ended with the request context
			}
			payload, err := json.Marshal(e)
			if err != nil {
				return true
			}
			c.SSEvent("change", string(payload))
			return true
		})
	}
}
