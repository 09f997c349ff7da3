package acceptor

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/ASRagab/llm-vertex-acceptor/runner"
	"github.com/ASRagab/llm-vertex-acceptor/types"
)

// ResultFormatter is responsible for formatting and displaying suite results.
type ResultFormatter interface {
	FormatResults(result *runner.SuiteResult) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger *zap.Logger
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger *zap.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
	}
}

// FormatResults renders the suite results as a table on stdout.
func (f *ConsoleResultFormatter) FormatResults(result *runner.SuiteResult) error {
	f.logger.Info("printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Plugin Acceptance Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Model", "Duration", "Passed", "Failed", "Skipped", "Status", "Error",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, group := range result.Groups {
		t.AppendRow(table.Row{
			"Group",
			group.Config.Name,
			group.Config.Model,
			formatDuration(group.Duration),
			group.Stats.Passed,
			group.Stats.Failed,
			group.Stats.Skipped,
			getResultString(group.Status),
			"",
		})

		for i, c := range group.Cases {
			prefix := "├──"
			if i == len(group.Cases)-1 {
				prefix = "└──"
			}

			t.AppendRow(table.Row{
				"Case",
				fmt.Sprintf("%s %s", prefix, c.Config.Name),
				"",
				formatDuration(c.Duration),
				boolToInt(c.Status == types.CaseStatusPass),
				boolToInt(c.Status == types.CaseStatusFail),
				boolToInt(c.Status == types.CaseStatusSkip),
				getResultString(c.Status),
				extractKeyErrorMessage(c.Error),
			})
		}

		t.AppendSeparator()
	}

	if result.Status == types.CaseStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else if result.Status == types.CaseStatusSkip {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		"",
		formatDuration(result.Duration),
		result.Stats.Passed,
		result.Stats.Failed,
		result.Stats.Skipped,
		getResultString(result.Status),
		"",
	})

	t.Render()
	return nil
}

// extractKeyErrorMessage trims an error down to something that fits a
// table cell: the first line, capped at 80 characters.
func extractKeyErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if idx := strings.Index(errStr, "\n"); idx != -1 {
		errStr = errStr[:idx]
	}
	if len(errStr) > 80 {
		return errStr[:70] + "..."
	}
	return errStr
}
