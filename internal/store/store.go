// Package store is the GORM-backed persistence layer. The two wallet moves
// (deduct, approve-with-credit) are single atomic operations so a balance can
// never be observed half-updated.
package store

import (
	"context"
	"errors"
	"time"

	"veno_backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrNotFound            = errors.New("record not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// Store wraps the database handle
type Store struct {
	db *gorm.DB
}

// New returns a Store over an open GORM handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- users / profiles ---

// CreateUser inserts a new user row
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// UserByEmail fetches a user by login email
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// UserByID fetches a user by primary key
func (s *Store) UserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// UpdateDisplayName changes the only profile field users may edit
func (s *Store) UpdateDisplayName(ctx context.Context, userID uint, name string) error {
	return s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).
		Update("display_name", name).Error
}

// IsAdmin reports whether the user id is in the admin membership set
func (s *Store) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.AdminUser{}).Where("user_id = ?", userID).Count(&n).Error
	return n > 0, err
}

// WalletBalance returns the user's current balance
func (s *Store) WalletBalance(ctx context.Context, userID uint) (int64, error) {
	u, err := s.UserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.WalletBalance, nil
}

// DeductWalletBalance debits amount from the wallet in one conditional
// UPDATE. The balance guard is part of the statement, so a concurrent debit
// can never drive the balance negative; zero rows affected means the funds
// were not there.
func (s *Store) DeductWalletBalance(ctx context.Context, userID uint, amount int64) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// --- videos ---

// CreateVideo inserts a settled video row, assigning a UUID when absent
func (s *Store) CreateVideo(ctx context.Context, v *domain.Video) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(v).Error
}

// DailyVideoCount counts the user's non-premium videos created within the
// current UTC calendar day. This is the number the daily free cap is checked
// against.
func (s *Store) DailyVideoCount(ctx context.Context, userID uint) (int64, error) {
	start, end := dayRange(time.Now().UTC())
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Video{}).
		Where("user_id = ? AND is_premium = ? AND created_at >= ? AND created_at < ?",
			userID, false, start, end).
		Count(&n).Error
	return n, err
}

// VideosByUser returns a page of the user's videos, newest first, plus the
// total count for pagination
func (s *Store) VideosByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.Video, int64, error) {
	var total int64
	q := s.db.WithContext(ctx).Model(&domain.Video{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var videos []domain.Video
	err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&videos).Error
	return videos, total, err
}

// VideoByID fetches a single video row
func (s *Store) VideoByID(ctx context.Context, id string) (*domain.Video, error) {
	var v domain.Video
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &v, nil
}

// DeleteVideo removes a video row (admin operation)
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Video{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// VideoWithOwner pairs a video with its owner's email for admin listings
type VideoWithOwner struct {
	domain.Video
	OwnerEmail string `json:"owner_email"`
}

// SearchVideos lists all videos joined with owner emails, optionally filtered
// by a substring match on prompt or email, newest first
func (s *Store) SearchVideos(ctx context.Context, search string, offset, limit int) ([]VideoWithOwner, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.Video{}).
		Select("videos.*, users.email AS owner_email").
		Joins("JOIN users ON users.id = videos.user_id")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("videos.prompt LIKE ? OR users.email LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []VideoWithOwner
	err := q.Order("videos.created_at desc").Offset(offset).Limit(limit).Scan(&rows).Error
	return rows, total, err
}

// VideoStats summarizes a user's generation history
type VideoStats struct {
	Total     int64 `json:"total"`
	Premium   int64 `json:"premium"`
	Free      int64 `json:"free"`
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"this_week"`
	Completed int64 `json:"completed"`
}

// StatsByUser computes the profile statistics projection
func (s *Store) StatsByUser(ctx context.Context, userID uint) (*VideoStats, error) {
	var st VideoStats
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Video{}).Where("user_id = ?", userID)
	}
	if err := base().Count(&st.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_premium = ?", true).Count(&st.Premium).Error; err != nil {
		return nil, err
	}
	st.Free = st.Total - st.Premium
	now := time.Now().UTC()
	dayStart, _ := dayRange(now)
	if err := base().Where("created_at >= ?", dayStart).Count(&st.Today).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at >= ?", now.Add(-7*24*time.Hour)).Count(&st.ThisWeek).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.VideoStatusCompleted).Count(&st.Completed).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// --- top-up requests ---

// CreateTopupRequest inserts a pending top-up claim
func (s *Store) CreateTopupRequest(ctx context.Context, t *domain.TopupRequest) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Status = domain.TopupStatusPending
	return s.db.WithContext(ctx).Create(t).Error
}

// TopupsByUser returns the user's own top-up requests, newest first
func (s *Store) TopupsByUser(ctx context.Context, userID uint) ([]domain.TopupRequest, error) {
	var reqs []domain.TopupRequest
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at desc").Find(&reqs).Error
	return reqs, err
}

// TopupWithOwner pairs a top-up request with the requester's email
type TopupWithOwner struct {
	domain.TopupRequest
	OwnerEmail string `json:"owner_email"`
}

// ListTopups returns all top-up requests joined with requester emails,
// optionally filtered by status, newest first
func (s *Store) ListTopups(ctx context.Context, status string) ([]TopupWithOwner, error) {
	q := s.db.WithContext(ctx).Model(&domain.TopupRequest{}).
		Select("topup_requests.*, users.email AS owner_email").
		Joins("JOIN users ON users.id = topup_requests.user_id")
	if status != "" {
		q = q.Where("topup_requests.status = ?", status)
	}
	var rows []TopupWithOwner
	err := q.Order("topup_requests.created_at desc").Scan(&rows).Error
	return rows, err
}

// TopupByID fetches a single top-up request
func (s *Store) TopupByID(ctx context.Context, id string) (*domain.TopupRequest, error) {
	var t domain.TopupRequest
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

// ApproveTopup marks a pending request approved and credits the requester's
// wallet in one transaction. The status guard in the UPDATE makes reapplying
// the operation to an already-settled request a no-op that never
// double-credits: the request is re-read and returned either way.
func (s *Store) ApproveTopup(ctx context.Context, requestID string, adminID uint) (*domain.TopupRequest, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req domain.TopupRequest
		if err := tx.Where("id = ?", requestID).First(&req).Error; err != nil {
			return mapNotFound(err)
		}
		res := tx.Model(&domain.TopupRequest{}).
			Where("id = ? AND status = ?", requestID, domain.TopupStatusPending).
			Updates(map[string]any{"status": domain.TopupStatusApproved, "reviewed_by": adminID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // Already settled, nothing to credit
		}
		// Credit the wallet in the same transaction as the status flip
		return tx.Model(&domain.User{}).Where("id = ?", req.UserID).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", req.Amount)).Error
	})
	if err != nil {
		return nil, err
	}
	return s.TopupByID(ctx, requestID)
}

// RejectTopup marks a pending request rejected with no balance effect.
// Reapplying to a settled request is a no-op.
func (s *Store) RejectTopup(ctx context.Context, requestID string, adminID uint) (*domain.TopupRequest, error) {
	if _, err := s.TopupByID(ctx, requestID); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&domain.TopupRequest{}).
		Where("id = ? AND status = ?", requestID, domain.TopupStatusPending).
		Updates(map[string]any{"status": domain.TopupStatusRejected, "reviewed_by": adminID}).Error
	if err != nil {
		return nil, err
	}
	return s.TopupByID(ctx, requestID)
}

// dayRange returns the UTC calendar-day bounds [start, end) containing t
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// mapNotFound converts GORM's not-found into the package sentinel
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
