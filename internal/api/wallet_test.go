package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"veno_backend/internal/domain"
	"veno_backend/internal/realtime"
	"veno_backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTopupRouter(t *testing.T) (*gin.Engine, *store.Store, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.TopupRequest{}))
	st := store.New(db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := gin.New()
	r.POST("/wallet/topups",
		func(c *gin.Context) { c.Set("userID", uint(1)) },
		CreateTopupHandler(st, rdb, realtime.NewHub(), 100))
	return r, st, mr
}

func postTopup(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/wallet/topups", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTopupDropsAdminListingCaches(t *testing.T) {
	r, st, mr := newTopupRouter(t)

	// Stale admin listings from before the claim
	require.NoError(t, mr.Set("admin:topups:status=", `{"stale":true}`))
	require.NoError(t, mr.Set("admin:topups:status=pending", `{"stale":true}`))

	w := postTopup(r, `{"amount":200,"phone_number":"03161234567","transaction_ref":"tx-77"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.False(t, mr.Exists("admin:topups:status="), "unfiltered admin listing must be invalidated")
	assert.False(t, mr.Exists("admin:topups:status=pending"), "pending admin listing must be invalidated")

	reqs, err := st.TopupsByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.TopupStatusPending, reqs[0].Status)
	assert.Equal(t, int64(200), reqs[0].Amount)
}

func TestCreateTopupBelowMinimumLeavesCachesAlone(t *testing.T) {
	r, st, mr := newTopupRouter(t)

	require.NoError(t, mr.Set("admin:topups:status=pending", `{"stale":true}`))

	w := postTopup(r, `{"amount":50,"phone_number":"03161234567","transaction_ref":"tx-78"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, mr.Exists("admin:topups:status=pending"), "rejected claim must not touch the cache")

	reqs, err := st.TopupsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}
