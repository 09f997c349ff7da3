package acceptor

import (
	"github.com/ASRagab/llm-vertex-acceptor/metrics"
	"github.com/ASRagab/llm-vertex-acceptor/runner"
)

// MetricsReporter is responsible for reporting metrics from suite results.
type MetricsReporter interface {
	ReportResults(project string, result *runner.SuiteResult)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the suite results to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(project string, result *runner.SuiteResult) {
	metrics.RecordSuite(
		project,
		result.RunID,
		string(result.Status),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		result.Stats.Skipped,
		result.Duration,
	)
}
