// Package generation runs the prompt-to-video workflow: gate the request,
// create an upstream task, poll it to settlement within a bounded window, and
// persist the outcome.
package generation

import (
	"context"
	"errors"
	"time"

	"veno_backend/internal/domain"
	"veno_backend/internal/provider"
	"veno_backend/internal/store"

	"github.com/sirupsen/logrus"
)

// Workflow errors. Validation errors are raised before any upstream call.
var (
	ErrEmptyPrompt         = errors.New("prompt must not be empty")
	ErrDailyLimitReached   = errors.New("daily free video limit reached")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrGenerationFailed    = errors.New("video generation failed")
	ErrTimedOut            = errors.New("video generation timed out")
)

// Store is the slice of persistence the workflow needs
type Store interface {
	WalletBalance(ctx context.Context, userID uint) (int64, error)
	DailyVideoCount(ctx context.Context, userID uint) (int64, error)
	DeductWalletBalance(ctx context.Context, userID uint, amount int64) error
	CreateVideo(ctx context.Context, v *domain.Video) error
}

// Provider creates upstream tasks and reports their status
type Provider interface {
	CreateTask(ctx context.Context, prompt string) (string, error)
	TaskStatus(ctx context.Context, taskID string) (provider.TaskStatus, error)
}

// Config holds the workflow tunables
type Config struct {
	PremiumPrice   int64         // Wallet cost of one premium generation
	DailyFreeLimit int           // Free generations per user per UTC day
	PollInterval   time.Duration // Delay between status checks
	MaxAttempts    int           // Status check ceiling
}

// Service orchestrates the generation workflow
type Service struct {
	store    Store
	provider Provider
	cfg      Config
}

// New returns a generation Service
func New(st Store, pr Provider, cfg Config) *Service {
	return &Service{store: st, provider: pr, cfg: cfg}
}

// Generate runs one request end to end and returns the persisted video row.
// The caller's context cancels the poll loop, so teardown deterministically
// stops further upstream calls.
func (s *Service) Generate(ctx context.Context, userID uint, prompt string, premium bool) (*domain.Video, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	// Gates: both are checked before the first upstream call
	if premium {
		balance, err := s.store.WalletBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if balance < s.cfg.PremiumPrice {
			return nil, ErrInsufficientBalance
		}
	} else {
		count, err := s.store.DailyVideoCount(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= int64(s.cfg.DailyFreeLimit) {
			return nil, ErrDailyLimitReached
		}
	}

	taskID, err := s.provider.CreateTask(ctx, prompt)
	if err != nil {
		return nil, err // Includes the fatal no-task-id case, never retried
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"task_id": taskID,
		"premium": premium,
	}).Info("Generation task created")

	videoURL, err := s.poll(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, ErrGenerationFailed) {
			// Best-effort failed row so the history shows the attempt
			s.persist(ctx, userID, prompt, premium, nil, domain.VideoStatusFailed)
		}
		return nil, err
	}

	// Premium settles the debit before the row is persisted; a failed debit
	// (balance raced away since the gate) aborts the whole request
	if premium {
		if err := s.store.DeductWalletBalance(ctx, userID, s.cfg.PremiumPrice); err != nil {
			if errors.Is(err, store.ErrInsufficientBalance) {
				return nil, ErrInsufficientBalance
			}
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  s.cfg.PremiumPrice,
			"type":    "premium_debit",
		}).Info("Wallet debited")
	}

	video := s.persist(ctx, userID, prompt, premium, &videoURL, domain.VideoStatusCompleted)
	return video, nil
}

// poll checks the task status every PollInterval until it settles or the
// attempt ceiling is reached. No backoff, no jitter: a fixed window of
// MaxAttempts * PollInterval bounds the whole wait.
func (s *Service) poll(ctx context.Context, userID uint, taskID string) (string, error) {
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.cfg.PollInterval):
		}

		st, err := s.provider.TaskStatus(ctx, taskID)
		if err != nil {
			// Transient status failures don't abort the workflow; the next
			// attempt re-checks
			logrus.WithFields(logrus.Fields{
				"task_id": taskID,
				"attempt": attempt,
				"error":   err.Error(),
			}).Warn("Status check failed")
			continue
		}
		switch st.State {
		case provider.StateCompleted:
			if st.VideoURL == "" {
				return "", ErrGenerationFailed
			}
			return st.VideoURL, nil
		case provider.StateFailed:
			return "", ErrGenerationFailed
		}
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"task_id": taskID,
	}).Warn("Generation timed out")
	return "", ErrTimedOut
}

// persist writes the settled video row. A persist failure after a successful
// generation is logged, not re-surfaced: the caller already holds the URL.
func (s *Service) persist(ctx context.Context, userID uint, prompt string, premium bool, videoURL *string, status string) *domain.Video {
	video := &domain.Video{
		UserID:    userID,
		Prompt:    prompt,
		VideoURL:  videoURL,
		IsPremium: premium,
		Status:    status,
	}
	if err := s.store.CreateVideo(ctx, video); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"status":  status,
			"error":   err.Error(),
		}).Error("Failed to persist video record")
	}
	return video
}
