package acceptor

import (
	"fmt"
	"time"

	"github.com/ASRagab/llm-vertex-acceptor/types"
)

// Helper function to convert bool to int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// getResultString returns a short string representing the case result
func getResultString(status types.CaseStatus) string {
	switch status {
	case types.CaseStatusPass:
		return "✓ pass"
	case types.CaseStatusSkip:
		return "- skip"
	default:
		return "✗ fail"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
