package controller

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/traefik-replace/internal/model"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	generatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	previewStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	unchangedStyle = lipgloss.NewStyle().Faint(true)
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// StyledUI renders the same information as SimpleUI with terminal colors.
type StyledUI struct {
	*SimpleUI
}

// NewStyledUI creates a new StyledUI.
func NewStyledUI(cmd *cobra.Command) *StyledUI {
	return &StyledUI{SimpleUI: NewSimpleUI(cmd)}
}

// DisplayRunInfo prints the scan root and mode in bold.
func (s *StyledUI) DisplayRunInfo(ctx context.Context, root m.Path, recursive bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", headerStyle.Render(runInfoLine(root, recursive, s.config.mode)))
}

// DisplayFileResult prints a colored status line per file.
func (s *StyledUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", statusStyle(result.Status).Render(fileResultLine(result)))

	if result.Status == m.StatusPreview {
		s.printf("%s", renderDiff(result))
	}
}

func statusStyle(status m.Status) lipgloss.Style {
	switch status {
	case m.StatusGenerated:
		return generatedStyle
	case m.StatusPreview:
		return previewStyle
	case m.StatusFailed:
		return failedStyle
	default:
		return unchangedStyle
	}
}
