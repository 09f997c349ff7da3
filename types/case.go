package types

import (
	"fmt"
	"strings"
)

// CaseStatus represents the possible outcomes of a prompt case execution
type CaseStatus string

const (
	CaseStatusPass  CaseStatus = "pass"
	CaseStatusFail  CaseStatus = "fail"
	CaseStatusSkip  CaseStatus = "skip"
	CaseStatusError CaseStatus = "error"
)

// Option is a single provider option forwarded to the collaborator
// as an `-o name value` pair. The harness does not validate option
// values; a bad value is expected to come back as a command failure.
type Option struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// CaseConfig describes one prompt case: the text sent to the model and
// the predicate applied to the captured output.
type CaseConfig struct {
	Name    string   `yaml:"name"`
	Prompt  string   `yaml:"prompt"`
	System  string   `yaml:"system,omitempty"`
	Options []Option `yaml:"options,omitempty"`

	// Continue sends the prompt as a continuation of the previous
	// conversation instead of starting a fresh one.
	Continue bool `yaml:"continue,omitempty"`

	// Expect is a substring the response must contain. Empty means any
	// successful response passes.
	Expect        string `yaml:"expect,omitempty"`
	CaseSensitive bool   `yaml:"case_sensitive,omitempty"`

	// ExpectFailure inverts the contract: the collaborator invocation
	// itself must fail for the case to pass.
	ExpectFailure bool `yaml:"expect_failure,omitempty"`
}

// Matches reports whether the captured output satisfies the case's
// response predicate.
func (c CaseConfig) Matches(output string) bool {
	if c.Expect == "" {
		return true
	}
	if c.CaseSensitive {
		return strings.Contains(output, c.Expect)
	}
	return strings.Contains(strings.ToLower(output), strings.ToLower(c.Expect))
}

// Validate checks the case configuration for structural problems.
func (c CaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("case name is required")
	}
	if c.Prompt == "" {
		return fmt.Errorf("case %q: prompt is required", c.Name)
	}
	if c.ExpectFailure && c.Expect != "" {
		return fmt.Errorf("case %q: expect and expect_failure are mutually exclusive", c.Name)
	}
	for _, opt := range c.Options {
		if opt.Name == "" {
			return fmt.Errorf("case %q: option with empty name", c.Name)
		}
	}
	return nil
}
