package status

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	repositoryColumnHeaderConstant = "Repository"
	branchColumnHeaderConstant     = "Branch"
	stateColumnHeaderConstant      = "State"
	rowTemplateConstant            = "%-*s  %-*s  %s%s"
	headerTemplateConstant         = "%-*s  %-*s  %s"
	dividerCharacterConstant       = "="
	columnGapWidthConstant         = 2
	cleanSeverityColorConstant     = "2"
	remoteSeverityColorConstant    = "208"
	localSeverityColorConstant     = "1"
)

// RowTemplate carries the column widths shared by the header and every data row.
type RowTemplate struct {
	RepositoryColumnWidth int
	BranchColumnWidth     int
}

// NewRowTemplate computes column widths from the repository and branch names
// observed across the scanned set.
func NewRowTemplate(repositoryNames []string, branchNames []string) RowTemplate {
	return RowTemplate{
		RepositoryColumnWidth: maximumNameLength(repositoryNames),
		BranchColumnWidth:     maximumNameLength(branchNames),
	}
}

func maximumNameLength(names []string) int {
	maximumLength := 0
	for _, name := range names {
		if len(name) > maximumLength {
			maximumLength = len(name)
		}
	}
	return maximumLength
}

// ReportRenderer formats report rows with a severity-selected color.
type ReportRenderer struct {
	severityStyles map[Severity]lipgloss.Style
}

// NewReportRenderer builds a renderer targeting the provided writer. When
// colorization is disabled the renderer emits plain text.
func NewReportRenderer(outputWriter io.Writer, colorizeOutput bool) *ReportRenderer {
	lipglossRenderer := lipgloss.NewRenderer(outputWriter)
	if colorizeOutput {
		lipglossRenderer.SetColorProfile(termenv.ANSI256)
	} else {
		lipglossRenderer.SetColorProfile(termenv.Ascii)
	}

	return &ReportRenderer{
		severityStyles: map[Severity]lipgloss.Style{
			SeverityClean:      lipglossRenderer.NewStyle().Foreground(lipgloss.Color(cleanSeverityColorConstant)),
			SeverityRemoteOnly: lipglossRenderer.NewStyle().Foreground(lipgloss.Color(remoteSeverityColorConstant)),
			SeverityLocalDirty: lipglossRenderer.NewStyle().Foreground(lipgloss.Color(localSeverityColorConstant)),
		},
	}
}

// RenderHeader formats the header row and its divider line using the template widths.
func (renderer *ReportRenderer) RenderHeader(rowTemplate RowTemplate) string {
	headerRow := fmt.Sprintf(
		headerTemplateConstant,
		rowTemplate.RepositoryColumnWidth, repositoryColumnHeaderConstant,
		rowTemplate.BranchColumnWidth, branchColumnHeaderConstant,
		stateColumnHeaderConstant,
	)
	dividerWidth := rowTemplate.RepositoryColumnWidth + rowTemplate.BranchColumnWidth + len(stateColumnHeaderConstant) + 2*columnGapWidthConstant
	dividerRow := strings.Repeat(dividerCharacterConstant, dividerWidth)
	return headerRow + "\n" + dividerRow + "\n"
}

// RenderRow formats a single report row, colorized by severity.
func (renderer *ReportRenderer) RenderRow(reportRow ReportRow, rowTemplate RowTemplate) string {
	rowBody := fmt.Sprintf(
		rowTemplateConstant,
		rowTemplate.RepositoryColumnWidth, reportRow.RepositoryName,
		rowTemplate.BranchColumnWidth, reportRow.BranchName,
		reportRow.LocalFlags,
		reportRow.RemoteFlags,
	)
	return renderer.severityStyles[reportRow.Severity].Render(rowBody) + "\n"
}

// shouldColorizeOutput reports whether the writer is an interactive terminal
// and colorization has not been disabled.
func shouldColorizeOutput(outputWriter io.Writer, disableColor bool) bool {
	if disableColor {
		return false
	}
	outputFile, isFile := outputWriter.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(outputFile.Fd()) || isatty.IsCygwinTerminal(outputFile.Fd())
}
