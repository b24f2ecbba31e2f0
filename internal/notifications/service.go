package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/jobs"
)

// RepositoryPort defines data access methods for preferences.
type RepositoryPort interface {
	Get(ctx context.Context, userID int64) (Preference, error)
	Upsert(ctx context.Context, p Preference) error
}

// Enqueuer submits delivery tasks to the queue.
type Enqueuer interface {
	EnqueueNotifyDeliver(ctx context.Context, payload jobs.NotifyDeliverPayload) (*asynq.TaskInfo, error)
}

// Service routes notifications through user preferences and enqueues the
// actual delivery work.
type Service struct {
	logger   *slog.Logger
	repo     RepositoryPort
	enqueuer Enqueuer
	clock    func() time.Time
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, enqueuer Enqueuer) *Service {
	return &Service{
		logger:   logger,
		repo:     repo,
		enqueuer: enqueuer,
		clock:    time.Now,
	}
}

// GetPreferences returns a user's delivery settings.
func (s *Service) GetPreferences(ctx context.Context, userID int64) (Preference, error) {
	return s.repo.Get(ctx, userID)
}

// UpdatePreferences validates and saves delivery settings.
func (s *Service) UpdatePreferences(ctx context.Context, p Preference) (Preference, error) {
	p.Locale = NormalizeLocale(p.Locale)
	if (p.QuietStart == "") != (p.QuietEnd == "") {
		return Preference{}, fmt.Errorf("quiet hours need both start and end: %w", httpx.ErrValidation)
	}
	if p.QuietStart != "" {
		if _, err := parseClock(p.QuietStart); err != nil {
			return Preference{}, fmt.Errorf("%v: %w", err, httpx.ErrValidation)
		}
		if _, err := parseClock(p.QuietEnd); err != nil {
			return Preference{}, fmt.Errorf("%v: %w", err, httpx.ErrValidation)
		}
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return Preference{}, err
	}
	return p, nil
}

// Dispatch enqueues a notification for a user, honouring their channel
// toggles and quiet hours. A suppressed notification is not an error.
func (s *Service) Dispatch(ctx context.Context, userID int64, subject, body string) error {
	pref, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !pref.ShouldDeliver(s.clock()) {
		s.logger.Debug("notification suppressed",
			slog.Int64("user_id", userID),
			slog.String("subject", subject))
		return nil
	}
	if s.enqueuer == nil {
		return nil
	}
	_, err = s.enqueuer.EnqueueNotifyDeliver(ctx, jobs.NotifyDeliverPayload{
		UserID:  userID,
		Subject: subject,
		Body:    body,
		Email:   pref.EmailEnabled,
		Push:    pref.PushEnabled,
		Locale:  pref.Locale,
	})
	if err != nil {
		s.logger.Error("enqueue notification",
			slog.Int64("user_id", userID),
			slog.Any("error", err))
		return err
	}
	return nil
}
