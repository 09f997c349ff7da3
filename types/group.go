package types

import (
	"fmt"
	"strings"
)

// GroupConfig is an ordered batch of cases exercising one provider
// model. All cases in a group share the same skip-cascade rule: when an
// invocation fails and the captured output matches one of SkipSignals,
// the case and every later case in the group are recorded as skipped
// rather than failed.
type GroupConfig struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Model       string       `yaml:"model"`
	SkipSignals []string     `yaml:"skip_signals,omitempty"`
	Cases       []CaseConfig `yaml:"cases"`
}

// MatchSkipSignal returns the first skip signal contained in the
// captured output, if any. Matching is case-insensitive.
func (g GroupConfig) MatchSkipSignal(output string) (string, bool) {
	lower := strings.ToLower(output)
	for _, signal := range g.SkipSignals {
		if strings.Contains(lower, strings.ToLower(signal)) {
			return signal, true
		}
	}
	return "", false
}

// Validate checks the group configuration and all of its cases.
func (g GroupConfig) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("group name is required")
	}
	if g.Model == "" {
		return fmt.Errorf("group %q: model is required", g.Name)
	}
	if len(g.Cases) == 0 {
		return fmt.Errorf("group %q: at least one case is required", g.Name)
	}
	seen := make(map[string]bool)
	for _, c := range g.Cases {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("group %q: duplicate case %q", g.Name, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// SuiteConfig is the full ordered test suite: groups run in declaration
// order, cases run in declaration order within their group.
type SuiteConfig struct {
	Name   string        `yaml:"name"`
	Groups []GroupConfig `yaml:"groups"`
}

// Validate checks the suite and everything below it.
func (s SuiteConfig) Validate() error {
	if len(s.Groups) == 0 {
		return fmt.Errorf("suite has no groups")
	}
	seen := make(map[string]bool)
	for _, g := range s.Groups {
		if err := g.Validate(); err != nil {
			return err
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group %q", g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}

// CaseCount returns the total number of cases across all groups.
func (s SuiteConfig) CaseCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Cases)
	}
	return n
}
