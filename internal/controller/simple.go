package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayRunInfo prints the scan root and mode.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, root m.Path, recursive bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", runInfoLine(root, recursive, s.config.mode))
}

// DisplayFileResult prints one line per processed file, plus a diff for previews.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", fileResultLine(result))

	if result.Status == m.StatusPreview {
		s.printf("%s", renderDiff(result))
	}
}

// DisplaySummary prints the summary table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.RunSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(summary))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func runInfoLine(root m.Path, recursive bool, mode StartMode) string {
	scope := "top level only"
	if recursive {
		scope = "recursive"
	}

	prefix := "Generating"
	if mode == ModeDryRun {
		prefix = "Previewing (dry run)"
	}

	return fmt.Sprintf("%s configs in %s (%s)", prefix, root, scope)
}

func fileResultLine(result m.FileResult) string {
	switch result.Status {
	case m.StatusGenerated, m.StatusPreview:
		line := fmt.Sprintf("[%s] %s -> %s (%d placeholders", result.Status, result.Source, result.Generated, result.Placeholders)
		if keys := result.KeysFrom(m.SourceEnvironment); len(keys) > 0 {
			line += "; environment: " + strings.Join(keys, ", ")
		}

		return line + ")"
	case m.StatusFailed:
		return fmt.Sprintf("[%s] %s: %v", result.Status, result.Source, result.Err)
	default:
		return fmt.Sprintf("[%s] %s", result.Status, result.Source)
	}
}

// renderDiff returns a unified diff between the source and the rendered output.
func renderDiff(result m.FileResult) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(result.Original),
		B:        difflib.SplitLines(result.Rendered),
		FromFile: string(result.Source),
		ToFile:   string(result.Generated),
		Context:  1,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("diff error: %v\n", err)
	}

	return text
}

func renderSummaryTable(summary m.RunSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Status", "Placeholders"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT})

	placeholders := 0

	for _, res := range summary.Results {
		table.Append([]string{displayPath(res), res.Status.String(), fmt.Sprintf("%d", res.Placeholders)})

		placeholders += res.Placeholders
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(summary.Results)),
		fmt.Sprintf("%d written", summary.Count(m.StatusGenerated)),
		fmt.Sprintf("%d", placeholders),
	})

	table.Render()

	return tableBuffer.String()
}

// displayPath prefers the path relative to the scan root.
func displayPath(result m.FileResult) string {
	if result.RelSource != "" {
		return string(result.RelSource)
	}

	return string(result.Source)
}
