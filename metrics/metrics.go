package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ASRagab/llm-vertex-acceptor/logging"
	"github.com/ASRagab/llm-vertex-acceptor/types"
)

const (
	MetricsNamespace = "llm_acceptor"
)

var (
	Debug                bool = true
	validResults              = []types.CaseStatus{types.CaseStatusPass, types.CaseStatusFail, types.CaseStatusSkip}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	casesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "cases_total",
		Help:      "Count of executed prompt cases",
	}, []string{
		"project",
		"run_id",
		"group",
		"name",
		"result",
	})

	suiteResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of the acceptance suite",
	}, []string{
		"project",
		"run_id",
		"result",
	})

	suiteCaseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_case_total",
		Help:      "Total number of cases in the suite run",
	}, []string{
		"project",
		"run_id",
	})

	suiteCasePassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_case_passed",
		Help:      "Number of passed cases",
	}, []string{
		"project",
		"run_id",
	})

	suiteCaseFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_case_failed",
		Help:      "Number of failed cases",
	}, []string{
		"project",
		"run_id",
	})

	suiteCaseSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_case_skipped",
		Help:      "Number of skipped cases",
	}, []string{
		"project",
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration",
		Help:      "Duration of the acceptance suite in seconds",
	}, []string{
		"project",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		logging.S().Debugw("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordCase records the outcome of a single prompt case.
func RecordCase(project string, runID string, group string, name string, result types.CaseStatus) {
	if !isValidResult(result) {
		logging.S().Errorw("RecordCase - invalid result", "result", result)
		return
	}
	if Debug {
		logging.S().Debugw("metric inc",
			"m", "cases_total",
			"project", project,
			"run_id", runID,
			"group", group,
			"case", name,
			"result", result)
	}
	casesTotal.WithLabelValues(project, runID, group, name, string(result)).Inc()
}

// RecordSuite records the aggregate outcome of a suite run.
func RecordSuite(
	project string,
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	skipped int,
	duration time.Duration,
) {
	suiteResults.WithLabelValues(project, runID, result).Set(1)
	suiteCaseTotal.WithLabelValues(project, runID).Add(float64(total))
	suiteCasePassed.WithLabelValues(project, runID).Add(float64(passed))
	suiteCaseFailed.WithLabelValues(project, runID).Add(float64(failed))
	suiteCaseSkipped.WithLabelValues(project, runID).Add(float64(skipped))
	suiteDuration.WithLabelValues(project, runID).Set(duration.Seconds())
}

func isValidResult(result types.CaseStatus) bool {
	return slices.Contains(validResults, result)
}
