package acceptor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// SuiteScheduler is responsible for scheduling suite runs.
type SuiteScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RegisterCallback(func() error)
	WaitForShutdown(ctx context.Context) error
	Stopped() bool
}

// DefaultSuiteScheduler implements the SuiteScheduler interface. In
// run-once mode the callback runs synchronously exactly once; in
// continuous mode it reruns at the configured interval.
type DefaultSuiteScheduler struct {
	interval time.Duration
	runOnce  bool
	logger   *zap.Logger
	callback func() error

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewDefaultSuiteScheduler creates a new DefaultSuiteScheduler.
func NewDefaultSuiteScheduler(interval time.Duration, runOnce bool, logger *zap.Logger) *DefaultSuiteScheduler {
	return &DefaultSuiteScheduler{
		interval: interval,
		runOnce:  runOnce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// RegisterCallback registers the callback to be called when the suite should run.
func (s *DefaultSuiteScheduler) RegisterCallback(callback func() error) {
	s.callback = callback
}

// Start starts the scheduler.
func (s *DefaultSuiteScheduler) Start(ctx context.Context) error {
	if s.callback == nil {
		return errors.New("callback must be registered before starting scheduler")
	}

	s.done = make(chan struct{})
	s.running.Store(true)

	if s.runOnce {
		s.logger.Info("starting scheduler in run-once mode")
		defer s.running.Store(false)
		return s.callback()
	}

	s.logger.Info("starting scheduler in continuous mode", zap.Duration("interval", s.interval))

	// Run the suite immediately on startup
	err := s.callback()
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Debug("starting periodic suite runner goroutine", zap.Duration("interval", s.interval))

		for {
			select {
			case <-time.After(s.interval):
				if !s.running.Load() {
					s.logger.Debug("service stopped, exiting periodic suite runner")
					return
				}

				s.logger.Info("running periodic suite")
				if err := s.callback(); err != nil {
					s.logger.Error("error running periodic suite", zap.Error(err))
				}

			case <-s.done:
				s.logger.Debug("done signal received, stopping periodic suite runner")
				return

			case <-ctx.Done():
				s.logger.Debug("context canceled, stopping periodic suite runner")
				s.running.Store(false)
				return
			}
		}
	}()

	return nil
}

// Stop stops the scheduler.
func (s *DefaultSuiteScheduler) Stop() error {
	if !s.running.Load() {
		s.logger.Debug("scheduler already stopped, nothing to do")
		return nil
	}

	// Update running state first to prevent new suite runs
	s.running.Store(false)
	close(s.done)

	return nil
}

// Stopped returns true if the scheduler is stopped.
func (s *DefaultSuiteScheduler) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until all goroutines have terminated.
func (s *DefaultSuiteScheduler) WaitForShutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for goroutines to terminate", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}
