package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunDirectoryPrefix is the standardized prefix for per-run log directories.
const RunDirectoryPrefix = "testrun-"

// TranscriptWriter persists the captured collaborator output of each
// case under a per-run directory, so failing responses can be inspected
// after the console scrolls away.
//
// Layout:
//
//	<baseDir>/testrun-<runID>/<group>/<case>.log
//	<baseDir>/testrun-<runID>/summary.txt
type TranscriptWriter struct {
	runDir string
	mu     sync.Mutex
}

// NewTranscriptWriter creates the run directory and returns a writer
// bound to it.
func NewTranscriptWriter(baseDir, runID string) (*TranscriptWriter, error) {
	runDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", runDir, err)
	}
	return &TranscriptWriter{runDir: runDir}, nil
}

// RunDir returns the directory transcripts are written to.
func (w *TranscriptWriter) RunDir() string {
	return w.runDir
}

// SaveCase writes the captured output of one case.
func (w *TranscriptWriter) SaveCase(group, name, status, output string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Join(w.runDir, sanitizeFilename(group))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating group directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, sanitizeFilename(name)+".log")
	header := fmt.Sprintf("case: %s/%s\nstatus: %s\ntime: %s\n\n", group, name, status, time.Now().Format(time.RFC3339))
	return os.WriteFile(path, []byte(header+output), 0644)
}

// SaveSummary writes the final human-readable summary block.
func (w *TranscriptWriter) SaveSummary(summary string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return os.WriteFile(filepath.Join(w.runDir, "summary.txt"), []byte(summary), 0644)
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
