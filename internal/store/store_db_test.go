package store

import (
	"context"
	"testing"
	"time"

	"veno_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestStore opens an isolated in-memory database with the full schema
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // Keep the in-memory database on one connection
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Video{}, &domain.TopupRequest{}, &domain.AdminUser{}))
	return New(db)
}

func createTestUser(t *testing.T, st *Store, balance int64) *domain.User {
	t.Helper()
	u := &domain.User{Email: "user@example.com", Password: "hash", WalletBalance: balance}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func TestApproveTopupCreditsOnce(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, st, 0)

	topup := &domain.TopupRequest{UserID: user.ID, Amount: 500, PhoneNumber: "0316", TransactionRef: "tx-1"}
	require.NoError(t, st.CreateTopupRequest(ctx, topup))

	settled, err := st.ApproveTopup(ctx, topup.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupStatusApproved, settled.Status)

	balance, err := st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	// Reapplying approve is a no-op: same status, no second credit
	settled, err = st.ApproveTopup(ctx, topup.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupStatusApproved, settled.Status)

	balance, err = st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance, "second approve must not double-credit")
}

func TestRejectAfterApproveIsNoOp(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, st, 0)

	topup := &domain.TopupRequest{UserID: user.ID, Amount: 300}
	require.NoError(t, st.CreateTopupRequest(ctx, topup))

	_, err := st.ApproveTopup(ctx, topup.ID, 99)
	require.NoError(t, err)

	// A terminal request cannot be flipped to rejected
	settled, err := st.RejectTopup(ctx, topup.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupStatusApproved, settled.Status)

	balance, err := st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestRejectTopupHasNoBalanceEffect(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, st, 0)

	topup := &domain.TopupRequest{UserID: user.ID, Amount: 300}
	require.NoError(t, st.CreateTopupRequest(ctx, topup))

	settled, err := st.RejectTopup(ctx, topup.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupStatusRejected, settled.Status)

	balance, err := st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)

	// Approving a rejected request credits nothing
	settled, err = st.ApproveTopup(ctx, topup.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.TopupStatusRejected, settled.Status)
	balance, err = st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestApproveTopupNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ApproveTopup(context.Background(), "no-such-id", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeductWalletBalance(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, st, 50)

	require.NoError(t, st.DeductWalletBalance(ctx, user.ID, 20))
	balance, err := st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	// Over-draw fails with zero rows affected and leaves the balance alone
	err = st.DeductWalletBalance(ctx, user.ID, 40)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	balance, err = st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)

	// Exact balance is spendable down to zero
	require.NoError(t, st.DeductWalletBalance(ctx, user.ID, 30))
	balance, err = st.WalletBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestDailyVideoCountFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, st, 0)
	today, _ := dayRange(time.Now().UTC())
	inToday := today.Add(time.Hour)

	url := "https://x/y.mp4"
	rows := []*domain.Video{
		{UserID: user.ID, Prompt: "a", VideoURL: &url, Status: domain.VideoStatusCompleted, CreatedAt: inToday},
		{UserID: user.ID, Prompt: "b", VideoURL: &url, Status: domain.VideoStatusCompleted, CreatedAt: inToday},
		{UserID: user.ID, Prompt: "c", VideoURL: &url, IsPremium: true, Status: domain.VideoStatusCompleted, CreatedAt: inToday},
		{UserID: user.ID, Prompt: "d", VideoURL: &url, Status: domain.VideoStatusCompleted, CreatedAt: today.Add(-48 * time.Hour)},
		{UserID: user.ID + 1, Prompt: "e", VideoURL: &url, Status: domain.VideoStatusCompleted, CreatedAt: inToday},
	}
	for _, v := range rows {
		require.NoError(t, st.CreateVideo(ctx, v))
	}

	// Premium, other-day and other-user rows are all excluded
	count, err := st.DailyVideoCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteVideo(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, st, 0)

	v := &domain.Video{UserID: user.ID, Prompt: "a", Status: domain.VideoStatusFailed}
	require.NoError(t, st.CreateVideo(ctx, v))
	require.NoError(t, st.DeleteVideo(ctx, v.ID))

	_, err := st.VideoByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.DeleteVideo(ctx, v.ID), ErrNotFound)
}
