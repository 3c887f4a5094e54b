package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/corey/tally/internal/app"
	"github.com/corey/tally/internal/domain/automaton"
	"github.com/corey/tally/internal/ports"
)

// ANSI color codes for terminal output. Cleared by disableColor.
var (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

func disableColor() {
	colorReset, colorBold, colorCyan, colorGreen = "", "", "", ""
	colorYellow, colorRed, colorGray = "", "", ""
}

// useColor resolves the --color flag: "always", "never", or "auto" (color
// only when stdout is a terminal).
func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// displayPattern quotes patterns that would be invisible or ambiguous.
func displayPattern(p string) string {
	if p == "" || strings.TrimSpace(p) != p {
		return strconv.Quote(p)
	}
	return p
}

func patternWidth(patterns []string) int {
	w := 0
	for _, p := range patterns {
		if n := len(displayPattern(p)); n > w {
			w = n
		}
	}
	return w
}

// formatReport formats a count report for terminal display.
//
//	⚡ classic │ 4 patterns │ 8 symbols │ 1 source
//	  he      1
//	  she     1
//	  total   2
func formatReport(r *ports.Report) string {
	name := r.Vocabulary
	if name == "" {
		name = "patterns"
	}
	patterns := make([]string, len(r.Counts))
	for i, pc := range r.Counts {
		patterns[i] = pc.Pattern
	}
	width := patternWidth(append(patterns, "total"))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ %d patterns │ %d symbols │ %s\n",
		colorBold, name, colorReset, len(r.Counts), r.Scanned, plural(len(r.Sources), "source")))

	for _, pc := range r.Counts {
		color := colorCyan
		if pc.Count == 0 {
			color = colorGray
		}
		sb.WriteString(fmt.Sprintf("  %s%-*s%s  %d\n", color, width, displayPattern(pc.Pattern), colorReset, pc.Count))
	}
	sb.WriteString(fmt.Sprintf("  %s%-*s%s  %d\n", colorBold, width, "total", colorReset, r.Total()))
	return sb.String()
}

// formatSavedReport adds the report's origin to formatReport.
func formatSavedReport(r *ports.Report) string {
	var sb strings.Builder
	sb.WriteString(formatReport(r))
	sb.WriteString(fmt.Sprintf("  %scounted %s over:%s\n", colorGray, r.CreatedAt.Local().Format(time.DateTime), colorReset))
	for _, src := range r.Sources {
		sb.WriteString(fmt.Sprintf("  %s%s%s\n", colorGray, src, colorReset))
	}
	return sb.String()
}

// formatUpdate renders one watch update on a single line.
//
//	⚡ 14:02:11 │ total 7 │ he=3 she=1 hers=3
func formatUpdate(r *ports.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ total %d │",
		colorBold, time.Now().Format(time.TimeOnly), colorReset, r.Total()))
	for _, pc := range r.Counts {
		sb.WriteString(fmt.Sprintf(" %s%s%s=%d", colorCyan, displayPattern(pc.Pattern), colorReset, pc.Count))
	}
	sb.WriteString("\n")
	return sb.String()
}

// formatStats formats the shape of a compiled automaton.
func formatStats(name string, st automaton.Stats) string {
	if name == "" {
		name = "patterns"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ %s\n", colorBold, name, colorReset, st.State))
	sb.WriteString(fmt.Sprintf("  Patterns:     %d\n", st.Patterns))
	sb.WriteString(fmt.Sprintf("  Alphabet:     %d symbols\n", st.AlphabetSize))
	sb.WriteString(fmt.Sprintf("  Nodes:        %d\n", st.Nodes))
	sb.WriteString(fmt.Sprintf("  Max depth:    %d\n", st.MaxDepth))
	sb.WriteString(fmt.Sprintf("  Transitions:  %d\n", st.Transitions))
	return sb.String()
}

// formatVerification formats the outcome of a cross-check.
func formatVerification(v *app.Verification) string {
	var sb strings.Builder
	if v.OK() {
		sb.WriteString(fmt.Sprintf("%s✓ %d patterns agree%s", colorGreen, v.Checked, colorReset))
	} else {
		sb.WriteString(fmt.Sprintf("%s✗ %d of %d patterns disagree%s", colorRed, len(v.Mismatches), v.Checked, colorReset))
	}
	sb.WriteString(fmt.Sprintf(" │ %d symbols │ %s", v.Report.Scanned, plural(len(v.Report.Sources), "source")))
	if v.Skipped > 0 {
		sb.WriteString(fmt.Sprintf(" │ %s%d empty skipped%s", colorGray, v.Skipped, colorReset))
	}
	sb.WriteString("\n")

	for _, m := range v.Mismatches {
		sb.WriteString(fmt.Sprintf("  %s%s%s  automaton %d  reference %d\n",
			colorYellow, displayPattern(m.Pattern), colorReset, m.Got, m.Want))
	}
	return sb.String()
}

// formatVocab lists the patterns of one vocabulary with their ids.
func formatVocab(name string, patterns []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %s%s │ %s\n", colorBold, name, colorReset, plural(len(patterns), "pattern")))
	for i, p := range patterns {
		sb.WriteString(fmt.Sprintf("  %s%4d%s  %s\n", colorGray, i, colorReset, displayPattern(p)))
	}
	return sb.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
