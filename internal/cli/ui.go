package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/pipeline"
	"github.com/matzehuels/polisher/pkg/quality"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// stdout receives all command output.
var stdout io.Writer = os.Stdout

func emit(s string) {
	fmt.Fprintln(stdout, s)
}

// status prints msg behind a colored icon.
func status(icon string, style lipgloss.Style, format string, args ...any) {
	emit(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(iconSuccess, styleIconSuccess, format, args...) }
func printError(format string, args ...any)   { status(iconError, styleIconError, format, args...) }
func printInfo(format string, args ...any)    { status(iconInfo, styleIconInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(iconWarning, styleIconWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	emit("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output path.
func printFile(path string) {
	emit("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

var styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)

func printKeyValue(key, value string) {
	emit(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	emit(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	emit("")
}

// =============================================================================
// Runs & Reports
// =============================================================================

// levelStyle colors a verdict from green (PERFECT) to red (FAILED).
func levelStyle(l quality.Level) lipgloss.Style {
	switch l {
	case quality.Perfect:
		return StyleSuccess.Bold(true)
	case quality.Acceptable:
		return StyleSuccess
	case quality.NeedsAttention:
		return StyleWarning
	default:
		return StyleError.Bold(true)
	}
}

func severityStyle(s quality.Severity) lipgloss.Style {
	switch s {
	case quality.Critical:
		return StyleError
	case quality.Review:
		return StyleWarning
	default:
		return StyleDim
	}
}

// printResult prints one brand's outcome.
func printResult(r *pipeline.Result) {
	if r.Err != nil {
		printError("%s %s", StyleHighlight.Render(r.Brand), StyleError.Render(errors.UserMessage(r.Err)))
		return
	}
	printSuccess("%s %s", StyleHighlight.Render(r.Brand), levelStyle(r.Report.Level()).Render(r.Report.Level().String()))
	if r.OutputPath != "" {
		printFile(r.OutputPath)
	}
	printRunStats(r.Report, r.Stats, r.CacheHit)
}

// printRunStats prints issue counts and timings on a single line.
func printRunStats(rep *quality.Report, stats pipeline.Stats, cached bool) {
	var parts []string
	if n := len(rep.Issues()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d issues", n))
	}
	if stats.Total > 0 {
		parts = append(parts, stats.Total.Round(time.Millisecond).String())
	}

	label, statusStyle := iconFresh, styleComputed
	if cached {
		label, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	if len(parts) > 0 {
		line += StyleDim.Render(" · ")
	}
	emit(line + statusStyle.Render(label))
}

// printReport prints a verdict and every issue in report order.
func printReport(rep *quality.Report) {
	emit(renderReport(rep.Level(), rep.Issues()))
}

func renderReport(level quality.Level, issues []quality.Issue) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Quality") + " " + levelStyle(level).Render(level.String()))
	if len(issues) == 0 {
		b.WriteString("\n  " + StyleDim.Render("no issues"))
		return b.String()
	}
	for _, is := range issues {
		sev := severityStyle(is.Severity).Width(9).Render(is.Severity.String())
		cat := StyleDim.Width(11).Render(string(is.Category))
		line := "\n  " + sev + " " + cat + " " + is.Description
		if is.Location != "" {
			line += " " + StyleDim.Render("("+is.Location+")")
		}
		b.WriteString(line)
	}
	return b.String()
}
