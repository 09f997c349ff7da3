package acceptor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ASRagab/llm-vertex-acceptor/runner"
	"github.com/ASRagab/llm-vertex-acceptor/types"
)

type fakeSuiteRunner struct {
	result *runner.SuiteResult
	err    error
	calls  int
}

func (f *fakeSuiteRunner) RunSuite(ctx context.Context) (*runner.SuiteResult, error) {
	f.calls++
	return f.result, f.err
}

func newTestAcceptor(r runner.SuiteRunner) *Acceptor {
	log := zap.NewNop()
	return &Acceptor{
		config:    &Config{Project: "test-project", Region: DefaultRegion, RunOnce: true},
		version:   "test",
		runner:    r,
		scheduler: NewDefaultSuiteScheduler(0, true, log),
		formatter: NewConsoleResultFormatter(log),
		reporter:  NewDefaultMetricsReporter(),
		log:       log,
	}
}

func passingResult() *runner.SuiteResult {
	return &runner.SuiteResult{
		RunID:  "run-1",
		Status: types.CaseStatusPass,
		Stats:  runner.ResultStats{Total: 3, Passed: 3},
	}
}

func TestAcceptorRunPassingSuite(t *testing.T) {
	fake := &fakeSuiteRunner{result: passingResult()}
	a := newTestAcceptor(fake)

	err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestAcceptorRunFailingSuite(t *testing.T) {
	fake := &fakeSuiteRunner{result: &runner.SuiteResult{
		RunID:  "run-1",
		Status: types.CaseStatusFail,
		Stats:  runner.ResultStats{Total: 3, Passed: 2, Failed: 1},
	}}
	a := newTestAcceptor(fake)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsSetupError(err))
}

func TestAcceptorRunSetupFailure(t *testing.T) {
	fake := &fakeSuiteRunner{
		result: &runner.SuiteResult{RunID: "run-1", Status: types.CaseStatusPass},
		err:    fmt.Errorf("%w: llm CLI not reachable", runner.ErrSetup),
	}
	a := newTestAcceptor(fake)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsSetupError(err))
	assert.False(t, IsRuntimeError(err))
}

func TestAcceptorRunInternalFault(t *testing.T) {
	fake := &fakeSuiteRunner{err: fmt.Errorf("runtime error: boom")}
	a := newTestAcceptor(fake)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err))
}

func TestAcceptorContinuousModeFatalFirstRunReturns(t *testing.T) {
	fake := &fakeSuiteRunner{
		result: &runner.SuiteResult{RunID: "run-1"},
		err:    fmt.Errorf("%w: plugin did not install", runner.ErrSetup),
	}

	log := zap.NewNop()
	a := &Acceptor{
		config:    &Config{Project: "test-project", Region: DefaultRegion, RunInterval: 20 * time.Millisecond},
		version:   "test",
		runner:    fake,
		scheduler: NewDefaultSuiteScheduler(20*time.Millisecond, false, log),
		formatter: NewConsoleResultFormatter(log),
		reporter:  NewDefaultMetricsReporter(),
		log:       log,
	}

	done := make(chan error, 1)
	go func() {
		done <- a.Run(context.Background())
	}()

	// A fatal first run must surface immediately instead of waiting for
	// an operator interrupt that schedules nothing.
	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, IsSetupError(err))
		assert.Equal(t, 1, fake.calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a fatal first run in continuous mode")
	}
}

func TestAcceptorSkippedSuiteStillPasses(t *testing.T) {
	fake := &fakeSuiteRunner{result: &runner.SuiteResult{
		RunID:  "run-1",
		Status: types.CaseStatusSkip,
		Stats:  runner.ResultStats{Total: 3, Skipped: 3},
	}}
	a := newTestAcceptor(fake)

	require.NoError(t, a.Run(context.Background()))
}

func TestAcceptorCanceledRunIsNotRuntimeError(t *testing.T) {
	fake := &fakeSuiteRunner{err: fmt.Errorf("run interrupted: %w", context.Canceled)}
	a := newTestAcceptor(fake)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.False(t, IsRuntimeError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAcceptorValidation(t *testing.T) {
	_, err := New(nil, "test")
	require.ErrorContains(t, err, "config is required")

	_, err = New(&Config{Region: DefaultRegion, PluginSource: "."}, "test")
	require.ErrorContains(t, err, "project is required")
}

func TestNewAcceptorWiresCollaborators(t *testing.T) {
	a, err := New(&Config{
		Project:      "test-project",
		Region:       DefaultRegion,
		PluginSource: ".",
		RunOnce:      true,
	}, "test")
	require.NoError(t, err)
	require.NotNil(t, a.registry)
	require.NotNil(t, a.runner)
	assert.Len(t, a.registry.Models(), 2)
}
