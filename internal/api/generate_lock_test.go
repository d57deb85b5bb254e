package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"veno_backend/internal/domain"
	"veno_backend/internal/generation"
	"veno_backend/internal/realtime"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	video *domain.Video
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, userID uint, prompt string, premium bool) (*domain.Video, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.video, nil
}

const lockTestKey = "generate:inflight:user:7"

func newGenerateRouter(t *testing.T, gen Generator) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := gin.New()
	r.POST("/videos",
		func(c *gin.Context) { c.Set("userID", uint(7)) },
		GenerateVideoHandler(gen, rdb, realtime.NewHub()))
	return r, mr
}

func postGenerate(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/videos", bytes.NewBufferString(`{"prompt":"sunset over the bay"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateRejectsWhileAnotherIsInFlight(t *testing.T) {
	url := "https://cdn/video.mp4"
	gen := &stubGenerator{video: &domain.Video{ID: "v1", UserID: 7, VideoURL: &url, Status: domain.VideoStatusCompleted}}
	r, mr := newGenerateRouter(t, gen)

	// Another request for this user already holds the lock
	require.NoError(t, mr.Set(lockTestKey, "1"))

	w := postGenerate(r)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "generation_in_flight")
	assert.Zero(t, gen.calls, "workflow must not start while the lock is held")
}

func TestGenerateReleasesLockOnSuccess(t *testing.T) {
	url := "https://cdn/video.mp4"
	gen := &stubGenerator{video: &domain.Video{ID: "v1", UserID: 7, VideoURL: &url, Status: domain.VideoStatusCompleted}}
	r, mr := newGenerateRouter(t, gen)

	w := postGenerate(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists(lockTestKey), "lock must be released after settlement")

	// A follow-up request for the same user goes straight through
	w = postGenerate(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, gen.calls)
}

func TestGenerateReleasesLockOnFailure(t *testing.T) {
	gen := &stubGenerator{err: generation.ErrTimedOut}
	r, mr := newGenerateRouter(t, gen)

	w := postGenerate(r)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.False(t, mr.Exists(lockTestKey), "lock must be released after a failed run")
}
