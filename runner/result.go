package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ASRagab/llm-vertex-acceptor/types"
)

// CaseResult captures the outcome of a single prompt case.
type CaseResult struct {
	Config   types.CaseConfig
	Group    string
	Status   types.CaseStatus
	Error    error
	Output   string // captured collaborator output, ANSI-stripped
	Duration time.Duration
	Invoked  bool // false for cases skipped by a group cascade
}

// GroupResult captures aggregated results for one provider group.
type GroupResult struct {
	Config   types.GroupConfig
	Cases    []*CaseResult
	Status   types.CaseStatus
	Duration time.Duration
	Stats    ResultStats

	// SkipSignal is the authorization/availability signal that
	// triggered the group's skip cascade, if any.
	SkipSignal string
}

// SuiteResult captures the complete suite run.
type SuiteResult struct {
	RunID    string
	Groups   []*GroupResult
	Status   types.CaseStatus
	Duration time.Duration
	Stats    ResultStats

	// TeardownError is reported but never changes the overall verdict.
	TeardownError error
}

// ResultStats tracks case statistics at each level.
type ResultStats struct {
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	StartTime time.Time
	EndTime   time.Time
}

func (s *ResultStats) record(status types.CaseStatus) {
	s.Total++
	switch status {
	case types.CaseStatusPass:
		s.Passed++
	case types.CaseStatusFail:
		s.Failed++
	case types.CaseStatusSkip:
		s.Skipped++
	}
}

// determineGroupStatus derives a group's status from its stats.
func determineGroupStatus(g *GroupResult) types.CaseStatus {
	if g.Stats.Failed > 0 {
		return types.CaseStatusFail
	}
	if g.Stats.Total > 0 && g.Stats.Skipped == g.Stats.Total {
		return types.CaseStatusSkip
	}
	return types.CaseStatusPass
}

// determineSuiteStatus derives the overall status. Skips never fail a
// run: the suite passes iff no case failed.
func determineSuiteStatus(r *SuiteResult) types.CaseStatus {
	if r.Stats.Failed > 0 {
		return types.CaseStatusFail
	}
	if r.Stats.Total > 0 && r.Stats.Skipped == r.Stats.Total {
		return types.CaseStatusSkip
	}
	return types.CaseStatusPass
}

// FailureError aggregates the errors of all failed cases, or nil when
// none failed.
func (r *SuiteResult) FailureError() error {
	var errs *multierror.Error
	for _, g := range r.Groups {
		for _, c := range g.Cases {
			if c.Status == types.CaseStatusFail && c.Error != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s/%s: %w", g.Config.Name, c.Config.Name, c.Error))
			}
		}
	}
	return errs.ErrorOrNil()
}

// String returns the human-readable summary block printed at the end
// of a run.
func (r *SuiteResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suite run %s: %s\n", r.RunID, strings.ToUpper(string(r.Status)))
	fmt.Fprintf(&b, "Total: %d, Passed: %d, Failed: %d, Skipped: %d (%.1fs)\n",
		r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Stats.Skipped, r.Duration.Seconds())
	for _, g := range r.Groups {
		if g.SkipSignal != "" {
			fmt.Fprintf(&b, "Group %s skipped: provider unavailable (%q)\n", g.Config.Name, g.SkipSignal)
		}
	}
	if r.TeardownError != nil {
		fmt.Fprintf(&b, "Teardown failed (verdict unchanged): %v\n", r.TeardownError)
	}
	return b.String()
}
