// Package acceptor is a black-box acceptance harness for the
// llm-gcp-vertex plugin: it installs the plugin into the external llm
// CLI, drives a fixed suite of prompts against the hosted Vertex AI
// providers, tallies pass/fail/skip and guarantees the plugin is
// uninstalled on every exit path.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ASRagab/llm-vertex-acceptor/llm"
	"github.com/ASRagab/llm-vertex-acceptor/registry"
	"github.com/ASRagab/llm-vertex-acceptor/runner"
	"github.com/ASRagab/llm-vertex-acceptor/types"
)

// Acceptor wires the registry, collaborator client and suite runner
// together and owns the run lifecycle.
type Acceptor struct {
	config    *Config
	version   string
	registry  *registry.Registry
	runner    runner.SuiteRunner
	scheduler SuiteScheduler
	formatter ResultFormatter
	reporter  MetricsReporter
	log       *zap.Logger

	result *runner.SuiteResult
	runErr error
}

// New creates an Acceptor from config.
func New(config *Config, version string) (*Acceptor, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	log.Debug("creating acceptor",
		zap.String("project", config.Project),
		zap.String("region", config.Region),
		zap.String("pluginSource", config.PluginSource),
		zap.Bool("runOnce", config.RunOnce))

	reg, err := registry.NewRegistry(registry.Config{
		SuiteConfigFile: config.SuiteConfigFile,
		Logger:          log.Named("registry"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	client, err := llm.NewClient(llm.Config{
		Binary:  config.LLMBinary,
		Project: config.Project,
		Region:  config.Region,
		Logger:  log.Named("llm"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	suiteRunner, err := runner.NewSuiteRunner(runner.Config{
		Registry:     reg,
		Client:       client,
		Project:      config.Project,
		PluginSource: config.PluginSource,
		Editable:     config.Editable,
		PluginName:   config.PluginName,
		LogDir:       config.LogDir,
		Logger:       log.Named("runner"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create suite runner: %w", err)
	}

	return &Acceptor{
		config:    config,
		version:   version,
		registry:  reg,
		runner:    suiteRunner,
		scheduler: NewDefaultSuiteScheduler(config.RunInterval, config.RunOnce, log.Named("scheduler")),
		formatter: NewConsoleResultFormatter(log),
		reporter:  NewDefaultMetricsReporter(),
		log:       log,
	}, nil
}

// Run executes the suite until completion (run-once mode) or until the
// context is canceled (continuous mode), then returns the verdict as a
// typed error the CLI layer maps to an exit code.
func (a *Acceptor) Run(ctx context.Context) error {
	a.scheduler.RegisterCallback(func() error {
		return a.runSuite(ctx)
	})

	if err := a.scheduler.Start(ctx); err != nil {
		// A fatal first run means nothing was scheduled; waiting for an
		// interrupt here would leave the service idle forever.
		a.runErr = err
		return a.verdict()
	}

	if !a.config.RunOnce {
		<-ctx.Done()
		if err := a.scheduler.Stop(); err != nil {
			a.log.Warn("error stopping scheduler", zap.Error(err))
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.scheduler.WaitForShutdown(shutdownCtx); err != nil {
			a.log.Warn("shutdown incomplete", zap.Error(err))
		}
	}

	return a.verdict()
}

// runSuite runs the suite once and processes the results.
func (a *Acceptor) runSuite(ctx context.Context) error {
	result, err := a.runner.RunSuite(ctx)
	a.result = result

	if result != nil && result.Stats.Total > 0 {
		if ferr := a.formatter.FormatResults(result); ferr != nil {
			a.log.Warn("failed to format results", zap.Error(ferr))
		}
	}
	if result != nil {
		fmt.Println(result.String())
		a.reporter.ReportResults(a.config.Project, result)

		if tr, ok := a.runner.(runner.SuiteRunnerWithTranscripts); ok {
			if serr := tr.SaveSummary(result.String()); serr != nil {
				a.log.Warn("failed to save summary", zap.Error(serr))
			}
		}

		a.log.Info("suite run completed",
			zap.String("run_id", result.RunID),
			zap.String("status", string(result.Status)))
	}

	return err
}

// Stopped reports whether the acceptor's scheduler has stopped.
func (a *Acceptor) Stopped() bool {
	return a.scheduler.Stopped()
}

// verdict folds the last run into the process exit decision: skips
// never fail a run, the suite fails iff at least one case failed.
func (a *Acceptor) verdict() error {
	if a.runErr != nil {
		if errors.Is(a.runErr, runner.ErrSetup) {
			return NewSetupError(a.runErr)
		}
		if errors.Is(a.runErr, context.Canceled) {
			return a.runErr
		}
		return NewRuntimeError(a.runErr)
	}
	if a.result != nil && a.result.Status == types.CaseStatusFail {
		return NewTestFailureError(a.result.String())
	}
	return nil
}
