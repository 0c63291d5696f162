package fulfillment

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Services
// ==========================

type MockRunner struct {
	RunOnceFunc func(ctx context.Context) (Outcome, error)
}

func (m *MockRunner) RunOnce(ctx context.Context) (Outcome, error) {
	return m.RunOnceFunc(ctx)
}

// ==========================
// Scheduling Tests
// ==========================

func TestRunEvery_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int32
	r := &MockRunner{RunOnceFunc: func(ctx context.Context) (Outcome, error) {
		if atomic.AddInt32(&runs, 1) == 3 {
			cancel()
		}
		return OutcomeIdle, nil
	}}

	err := RunEvery(ctx, r, 5*time.Millisecond, time.Second, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&runs))
}

func TestRunEvery_RunsDoNotOverlap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inFlight, maxInFlight, runs int32
	r := &MockRunner{RunOnceFunc: func(ctx context.Context) (Outcome, error) {
		n := atomic.AddInt32(&inFlight, 1)
		if n > atomic.LoadInt32(&maxInFlight) {
			atomic.StoreInt32(&maxInFlight, n)
		}
		// Each run outlasts several ticks.
		time.Sleep(15 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if atomic.AddInt32(&runs, 1) == 4 {
			cancel()
		}
		return OutcomeDelivered, nil
	}}

	require.NoError(t, RunEvery(ctx, r, time.Millisecond, time.Second, logger.NewTestLogger(t)))
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
	assert.Equal(t, int32(4), atomic.LoadInt32(&runs))
}

func TestRunEvery_AppliesRunTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var remaining time.Duration
	r := &MockRunner{RunOnceFunc: func(ctx context.Context) (Outcome, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		remaining = time.Until(deadline)
		cancel()
		return OutcomeIdle, nil
	}}

	require.NoError(t, RunEvery(ctx, r, time.Minute, 200*time.Millisecond, logger.NewTestLogger(t)))
	assert.LessOrEqual(t, remaining, 200*time.Millisecond)
	assert.Greater(t, remaining, 100*time.Millisecond)
}

func TestRunEvery_ContinuesAfterFailedRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int32
	r := &MockRunner{RunOnceFunc: func(ctx context.Context) (Outcome, error) {
		if atomic.AddInt32(&runs, 1) == 2 {
			cancel()
			return OutcomeIdle, nil
		}
		return "", apperrors.NewSearchUnavailableError(errors.New("connection refused"))
	}}

	require.NoError(t, RunEvery(ctx, r, time.Millisecond, time.Second, logger.NewTestLogger(t)))
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestRunEvery_RejectsNonPositiveInterval(t *testing.T) {
	r := &MockRunner{RunOnceFunc: func(ctx context.Context) (Outcome, error) {
		t.Fatal("runner must not be called")
		return "", nil
	}}

	for _, interval := range []time.Duration{0, -time.Second} {
		err := RunEvery(context.Background(), r, interval, time.Second, logger.NewTestLogger(t))
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	}
}

func TestRunEvery_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var runs int32
	r := &MockRunner{RunOnceFunc: func(ctx context.Context) (Outcome, error) {
		atomic.AddInt32(&runs, 1)
		return OutcomeIdle, nil
	}}

	require.NoError(t, RunEvery(ctx, r, time.Millisecond, time.Second, logger.NewTestLogger(t)))
	assert.Zero(t, atomic.LoadInt32(&runs))
}
