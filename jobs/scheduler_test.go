package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExpirer struct {
	calls chan time.Duration
	err   error
}

func (f *fakeExpirer) ExpireBroadcasts(ctx context.Context, ttl time.Duration) (int64, error) {
	f.calls <- ttl
	return 2, f.err
}

type fakeCleaner struct {
	calls chan time.Duration
}

func (f *fakeCleaner) CleanupLimiters(idle time.Duration) int {
	f.calls <- idle
	return 1
}

func TestAddBroadcastExpiryRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	err := s.AddBroadcastExpiry("not a schedule", &fakeExpirer{}, time.Hour)
	assert.Error(t, err)
}

func TestExpireBroadcastsPassesTTL(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	expirer := &fakeExpirer{calls: make(chan time.Duration, 2)}

	s.expireBroadcasts(expirer, 48*time.Hour)
	expirer.err = errors.New("db down")
	s.expireBroadcasts(expirer, time.Hour)

	assert.Equal(t, 48*time.Hour, <-expirer.calls)
	assert.Equal(t, time.Hour, <-expirer.calls)
}

func TestLimiterCleanupRuns(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	cleaner := &fakeCleaner{calls: make(chan time.Duration, 4)}
	s.AddLimiterCleanup(time.Second, cleaner, 10*time.Minute)
	require.NoError(t, s.AddBroadcastExpiry("@daily", &fakeExpirer{calls: make(chan time.Duration, 1)}, time.Hour))

	s.Start()
	defer s.Stop(context.Background())

	select {
	case idle := <-cleaner.calls:
		assert.Equal(t, 10*time.Minute, idle)
	case <-time.After(5 * time.Second):
		t.Fatal("limiter cleanup did not run")
	}
}
