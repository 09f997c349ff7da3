package acceptor

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerRequiresCallback(t *testing.T) {
	s := NewDefaultSuiteScheduler(0, true, zap.NewNop())
	err := s.Start(context.Background())
	require.ErrorContains(t, err, "callback must be registered")
}

func TestSchedulerRunOnce(t *testing.T) {
	s := NewDefaultSuiteScheduler(0, true, zap.NewNop())

	var calls atomic.Int32
	s.RegisterCallback(func() error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, int32(1), calls.Load(), "run-once mode runs the callback synchronously exactly once")
	assert.True(t, s.Stopped(), "run-once scheduler reports stopped once the run completes")
}

func TestSchedulerRunOncePropagatesError(t *testing.T) {
	s := NewDefaultSuiteScheduler(0, true, zap.NewNop())
	s.RegisterCallback(func() error {
		return fmt.Errorf("suite blew up")
	})

	err := s.Start(context.Background())
	require.ErrorContains(t, err, "suite blew up")
}

func TestSchedulerContinuousMode(t *testing.T) {
	s := NewDefaultSuiteScheduler(10*time.Millisecond, false, zap.NewNop())

	var calls atomic.Int32
	s.RegisterCallback(func() error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Stopped())

	require.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond, "continuous mode reruns at the configured interval")

	require.NoError(t, s.Stop())
	assert.True(t, s.Stopped())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.WaitForShutdown(ctx))
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := NewDefaultSuiteScheduler(time.Hour, false, zap.NewNop())
	s.RegisterCallback(func() error { return nil })

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestSchedulerContextCancelStopsRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewDefaultSuiteScheduler(10*time.Millisecond, false, zap.NewNop())

	var calls atomic.Int32
	s.RegisterCallback(func() error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, s.Start(ctx))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	require.NoError(t, s.WaitForShutdown(shutdownCtx))
	assert.True(t, s.Stopped())
}
