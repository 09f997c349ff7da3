// Package runner executes the acceptance suite against the external
// llm CLI: install the plugin, drive every prompt case in order,
// classify outcomes and guarantee the plugin is uninstalled on every
// exit path.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ASRagab/llm-vertex-acceptor/llm"
	"github.com/ASRagab/llm-vertex-acceptor/logging"
	"github.com/ASRagab/llm-vertex-acceptor/metrics"
	"github.com/ASRagab/llm-vertex-acceptor/registry"
	"github.com/ASRagab/llm-vertex-acceptor/types"
)

// ErrSetup marks fatal setup failures: the CLI is missing, the plugin
// did not install, or a suite model is not registered. No case runs
// after one of these.
var ErrSetup = errors.New("setup failed")

// SuiteRunner defines the interface for running the acceptance suite.
type SuiteRunner interface {
	RunSuite(ctx context.Context) (*SuiteResult, error)
}

// SuiteRunnerWithTranscripts extends SuiteRunner for implementations
// that persist per-case transcripts and a run summary to disk.
type SuiteRunnerWithTranscripts interface {
	SuiteRunner
	SaveSummary(summary string) error
}

// Config holds configuration for creating a new runner.
type Config struct {
	Registry     *registry.Registry
	Client       llm.Client
	Project      string // used as a metrics label only
	PluginSource string // path or package spec passed to `llm install`
	Editable     bool   // install the plugin source in editable mode
	PluginName   string // name passed to `llm uninstall`
	LogDir       string // transcript directory; empty disables transcripts
	Logger       *zap.Logger
}

type runner struct {
	registry     *registry.Registry
	client       llm.Client
	project      string
	pluginSource string
	editable     bool
	pluginName   string
	logDir       string
	log          *zap.Logger
	runID        string
	transcripts  *logging.TranscriptWriter
	tracer       trace.Tracer
}

// NewSuiteRunner creates a new suite runner instance.
func NewSuiteRunner(cfg Config) (SuiteRunner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.PluginSource == "" {
		return nil, fmt.Errorf("plugin source is required")
	}
	if cfg.PluginName == "" {
		cfg.PluginName = registry.PluginName
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &runner{
		registry:     cfg.Registry,
		client:       cfg.Client,
		project:      cfg.Project,
		pluginSource: cfg.PluginSource,
		editable:     cfg.Editable,
		pluginName:   cfg.PluginName,
		logDir:       cfg.LogDir,
		log:          cfg.Logger,
		tracer:       otel.Tracer("suite runner"),
	}, nil
}

// RunSuite implements the SuiteRunner interface. Execution is strictly
// sequential: setup, the ordered groups, then teardown. Teardown runs
// exactly once on every path, including fatal setup failures and
// operator interrupts.
func (r *runner) RunSuite(ctx context.Context) (result *SuiteResult, err error) {
	r.runID = uuid.New().String()
	defer func() { r.runID = "" }()

	start := time.Now()
	r.log.Info("starting suite run", zap.String("run_id", r.runID))

	if r.logDir != "" {
		tw, terr := logging.NewTranscriptWriter(r.logDir, r.runID)
		if terr != nil {
			return nil, fmt.Errorf("creating transcript writer: %w", terr)
		}
		r.transcripts = tw
	}

	result = &SuiteResult{
		RunID: r.runID,
		Stats: ResultStats{StartTime: start},
	}

	// Scoped cleanup guarantee: the install below is paired with this
	// uninstall regardless of how the run ends.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("runtime error: %v", rec)
		}
		result.TeardownError = r.teardown()
		result.Duration = time.Since(start)
		result.Stats.EndTime = time.Now()
		result.Status = determineSuiteStatus(result)
	}()

	if err := r.setup(ctx); err != nil {
		return result, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	for _, group := range r.registry.Suite().Groups {
		if ctx.Err() != nil {
			return result, fmt.Errorf("run interrupted: %w", ctx.Err())
		}
		r.processGroup(ctx, group, result)
	}

	return result, nil
}

// setup verifies the external CLI is reachable, installs the plugin
// and checks that every suite model got registered. Any failure here is
// fatal: no case runs without a working plugin.
func (r *runner) setup(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "setup")
	defer span.End()

	out, err := r.client.Version(ctx)
	if err != nil {
		return err
	}
	r.log.Info("llm CLI reachable", zap.String("version", strings.TrimSpace(out)))

	out, err = r.client.Install(ctx, r.pluginSource, r.editable)
	if err != nil {
		return fmt.Errorf("installing plugin %s: %w\noutput: %s", r.pluginName, err, out)
	}
	r.log.Info("plugin installed", zap.String("plugin", r.pluginName), zap.String("source", r.pluginSource))

	listing, err := r.client.Models(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w\noutput: %s", err, listing)
	}
	for _, model := range r.registry.Models() {
		if !strings.Contains(listing, model) {
			return fmt.Errorf("model %q not registered after install", model)
		}
	}
	r.log.Info("plugin models registered", zap.Strings("models", r.registry.Models()))

	return nil
}

// teardown uninstalls the plugin. Its failure is reported but never
// changes the run's verdict. Uses a fresh context so an operator
// interrupt doesn't also cancel the cleanup.
func (r *runner) teardown() error {
	r.log.Info("uninstalling plugin", zap.String("plugin", r.pluginName))

	out, err := r.client.Uninstall(context.Background(), r.pluginName)
	if err != nil {
		r.log.Error("teardown failed", zap.Error(err), zap.String("output", out))
		metrics.RecordErrorDetails("teardown", err)
		return err
	}
	return nil
}

// processGroup runs every case of one group in order, honoring the
// group's skip cascade.
func (r *runner) processGroup(ctx context.Context, group types.GroupConfig, result *SuiteResult) {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("group %s", group.Name))
	defer span.End()

	groupStart := time.Now()
	groupResult := &GroupResult{
		Config: group,
		Stats:  ResultStats{StartTime: groupStart},
	}
	result.Groups = append(result.Groups, groupResult)

	for _, c := range group.Cases {
		// An interrupt mid-group stops the remaining cases; they were
		// never attempted and get no verdict.
		if ctx.Err() != nil {
			break
		}

		var caseResult *CaseResult
		if groupResult.SkipSignal != "" {
			// Provider already known unavailable; don't attempt the
			// remaining cases, just record them as skipped.
			caseResult = &CaseResult{
				Config: c,
				Group:  group.Name,
				Status: types.CaseStatusSkip,
				Error:  fmt.Errorf("provider unavailable: %q", groupResult.SkipSignal),
			}
			r.log.Info("SKIP", zap.String("case", group.Name+"/"+c.Name), zap.String("signal", groupResult.SkipSignal))
		} else {
			caseResult = r.runCase(ctx, group, c)
			if caseResult.Status == types.CaseStatusSkip && caseResult.Invoked {
				if signal, ok := group.MatchSkipSignal(caseResult.Output); ok {
					groupResult.SkipSignal = signal
				}
			}
		}

		groupResult.Cases = append(groupResult.Cases, caseResult)
		groupResult.Stats.record(caseResult.Status)
		result.Stats.record(caseResult.Status)
		metrics.RecordCase(r.project, r.runID, group.Name, c.Name, caseResult.Status)
		r.saveTranscript(group.Name, caseResult)
	}

	groupResult.Duration = time.Since(groupStart)
	groupResult.Stats.EndTime = time.Now()
	groupResult.Status = determineGroupStatus(groupResult)
}

// runCase invokes the collaborator for one case and classifies the
// outcome.
func (r *runner) runCase(ctx context.Context, group types.GroupConfig, c types.CaseConfig) *CaseResult {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("case %s", c.Name))
	defer span.End()

	name := group.Name + "/" + c.Name
	r.log.Info("TEST", zap.String("case", name), zap.String("model", group.Model))

	start := time.Now()
	out, err := r.client.Prompt(ctx, llm.PromptRequest{
		Model:    group.Model,
		Text:     c.Prompt,
		System:   c.System,
		Continue: c.Continue,
		Options:  c.Options,
	})

	result := &CaseResult{
		Config:   c,
		Group:    group.Name,
		Output:   out,
		Duration: time.Since(start),
		Invoked:  true,
	}

	switch {
	case c.ExpectFailure && err != nil:
		result.Status = types.CaseStatusPass

	case c.ExpectFailure:
		result.Status = types.CaseStatusFail
		result.Error = fmt.Errorf("expected the command to fail but it succeeded")

	case err != nil:
		if signal, ok := group.MatchSkipSignal(out); ok {
			result.Status = types.CaseStatusSkip
			result.Error = fmt.Errorf("provider unavailable: %q", signal)
		} else {
			result.Status = types.CaseStatusFail
			result.Error = fmt.Errorf("command failed: %w", err)
		}

	case c.Matches(out):
		result.Status = types.CaseStatusPass

	default:
		result.Status = types.CaseStatusFail
		result.Error = fmt.Errorf("response did not contain %q", c.Expect)
	}

	switch result.Status {
	case types.CaseStatusPass:
		r.log.Info("PASS", zap.String("case", name), zap.Duration("duration", result.Duration))
	case types.CaseStatusSkip:
		r.log.Warn("SKIP", zap.String("case", name), zap.Error(result.Error))
	default:
		r.log.Error("FAIL", zap.String("case", name), zap.Error(result.Error), zap.String("output", strings.TrimSpace(out)))
	}

	return result
}

func (r *runner) saveTranscript(group string, c *CaseResult) {
	if r.transcripts == nil {
		return
	}
	if err := r.transcripts.SaveCase(group, c.Config.Name, string(c.Status), c.Output); err != nil {
		r.log.Warn("failed to save transcript", zap.String("case", c.Config.Name), zap.Error(err))
	}
}

// SaveSummary writes the final summary block next to the transcripts.
func (r *runner) SaveSummary(summary string) error {
	if r.transcripts == nil {
		return nil
	}
	return r.transcripts.SaveSummary(summary)
}
