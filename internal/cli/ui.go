package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowbench/pkg/compare"
	"github.com/matzehuels/flowbench/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
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

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleBackend = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
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
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output path line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Comparison Output
// =============================================================================

// itemLine formats one finished comparison item. Multi-backend runs prefix
// the file with its backend:
//
//	✓ [3/12] Generated: loan-approval.svg
//	✗ [4/12] broken-case: edge a -> ghost references missing node "ghost"
func itemLine(it compare.Item, withBackend bool) string {
	counter := StyleDim.Render(fmt.Sprintf("[%d/%d]", it.Index, it.Total))
	if it.OK() {
		file := it.File()
		if withBackend {
			file = it.Backend + "/" + file
		}
		return styleIconSuccess.Render(iconSuccess) + " " + counter + " Generated: " + file
	}
	name := it.Case
	if withBackend {
		name += " (" + it.Backend + ")"
	}
	return styleIconError.Render(iconError) + " " + counter + " " + name + ": " + errors.UserMessage(it.Err)
}

// printTargetHeader introduces a backend's section in single-target runs.
func printTargetHeader(w io.Writer, t compare.Target) {
	fmt.Fprintln(w, styleBackend.Render(t.Backend())+" "+StyleDim.Render(iconArrow+" "+t.Dir))
}

// printReport prints one summary line per target and then the overall line.
func printReport(w io.Writer, r *compare.Report) {
	fmt.Fprintln(w)
	if len(r.Targets) > 1 {
		for _, t := range r.Targets {
			line := fmt.Sprintf("%-12s %s", t.Backend, t.Summary())
			if t.Failed > 0 {
				printWarning(w, "%s", line)
			} else {
				printSuccess(w, "%s", line)
			}
		}
	}
	if r.OK() {
		printSuccess(w, "%s", r.Summary())
	} else {
		printError(w, "%s", r.Summary())
	}
	printDetail(w, "run %s in %s", shortID(r.RunID), r.Elapsed.Round(time.Millisecond))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
