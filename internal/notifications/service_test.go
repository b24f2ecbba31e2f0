package notifications

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/jobs"
)

type stubPrefsRepo struct {
	prefs map[int64]Preference
}

func (r *stubPrefsRepo) Get(_ context.Context, userID int64) (Preference, error) {
	if p, ok := r.prefs[userID]; ok {
		return p, nil
	}
	return DefaultPreference(userID), nil
}

func (r *stubPrefsRepo) Upsert(_ context.Context, p Preference) error {
	if r.prefs == nil {
		r.prefs = map[int64]Preference{}
	}
	r.prefs[p.UserID] = p
	return nil
}

type stubEnqueuer struct {
	payloads []jobs.NotifyDeliverPayload
}

func (e *stubEnqueuer) EnqueueNotifyDeliver(_ context.Context, payload jobs.NotifyDeliverPayload) (*asynq.TaskInfo, error) {
	e.payloads = append(e.payloads, payload)
	return &asynq.TaskInfo{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchEnqueuesWithPreferenceChannels(t *testing.T) {
	repo := &stubPrefsRepo{prefs: map[int64]Preference{
		5: {UserID: 5, EmailEnabled: true, PushEnabled: false, Locale: "ar"},
	}}
	enq := &stubEnqueuer{}
	svc := NewService(testLogger(), repo, enq)

	require.NoError(t, svc.Dispatch(context.Background(), 5, "Ticket assigned", "details"))

	require.Len(t, enq.payloads, 1)
	got := enq.payloads[0]
	assert.Equal(t, int64(5), got.UserID)
	assert.True(t, got.Email)
	assert.False(t, got.Push)
	assert.Equal(t, "ar", got.Locale)
}

func TestDispatchSuppressedDuringQuietHours(t *testing.T) {
	repo := &stubPrefsRepo{prefs: map[int64]Preference{
		5: {UserID: 5, EmailEnabled: true, PushEnabled: true, Locale: "en", QuietStart: "22:00", QuietEnd: "06:00"},
	}}
	enq := &stubEnqueuer{}
	svc := NewService(testLogger(), repo, enq)
	svc.clock = func() time.Time {
		return time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	}

	require.NoError(t, svc.Dispatch(context.Background(), 5, "subject", "body"))
	assert.Empty(t, enq.payloads)
}

func TestUpdatePreferencesValidation(t *testing.T) {
	repo := &stubPrefsRepo{}
	svc := NewService(testLogger(), repo, nil)

	_, err := svc.UpdatePreferences(context.Background(), Preference{UserID: 1, QuietStart: "22:00"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.UpdatePreferences(context.Background(), Preference{UserID: 1, QuietStart: "22:00", QuietEnd: "99:00"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	got, err := svc.UpdatePreferences(context.Background(), Preference{UserID: 1, EmailEnabled: true, Locale: "ar-SA"})
	require.NoError(t, err)
	assert.Equal(t, "ar", got.Locale)
	assert.Equal(t, got, repo.prefs[1])
}
