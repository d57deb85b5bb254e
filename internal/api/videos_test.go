package api

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLinkEmbedsVideoURL(t *testing.T) {
	link := ShareLink("https://x/y.mp4")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "https://x/y.mp4")
	assert.Contains(t, text, "Veno")
}

func TestPaginationDefaultsAndBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 20},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=0", 1, 20},     // Out of range falls back
		{"page=-1&page_size=101", 1, 20},  // Page size cap is 100
		{"page=abc&page_size=def", 1, 20}, // Garbage falls back
		{"page=2&page_size=100", 2, 100},  // Upper bound inclusive
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/videos?"+tc.query, nil)
		page, pageSize := pagination(c)
		assert.Equal(t, tc.wantPage, page, tc.query)
		assert.Equal(t, tc.wantPageSize, pageSize, tc.query)
	}
}
