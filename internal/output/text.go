package output

import (
	"fmt"
	"io"
	"strings"

	"reviewhub/internal/review"
)

// TextWriter outputs a human-readable text report, most severe first.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, result review.Result) error {
	ew := &errWriter{w: w}

	ew.printf("Findings: %d total", result.TotalCount)
	if result.CriticalCount > 0 {
		ew.printf(" (%d critical)", result.CriticalCount)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if result.TotalCount == 0 {
		ew.println("\nNo issues found. Looks good!")
		return ew.err
	}

	for _, f := range review.SortBySeverity(result.Findings) {
		ew.printf("\n%s %s [%s/%s]\n", severityIcon(f.Severity), f.Title, f.Severity, f.Category)
		ew.printf("  %s:%d", f.File, f.LineStart)
		if f.LineEnd > f.LineStart {
			ew.printf("-%d", f.LineEnd)
		}
		ew.printf("  (source: %s)\n", f.Source)
		if f.Explanation != "" {
			ew.printf("  %s\n", f.Explanation)
		}
		if f.Recommendation != "" && f.Recommendation != f.Explanation {
			ew.printf("  Fix: %s\n", f.Recommendation)
		}
	}

	ew.println("")
	if result.Passed {
		ew.println("Result: PASSED (no critical findings)")
	} else {
		ew.printf("Result: FAILED (%d critical finding(s))\n", result.CriticalCount)
	}

	if result.Usage != nil {
		ew.printf("Model: %s/%s  in=%d chars  out=%d chars  latency=%dms\n",
			result.Usage.Provider, result.Usage.Model,
			result.Usage.CharsIn, result.Usage.CharsOut, result.Usage.LatencyMs)
	}

	return ew.err
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return "✖"
	case review.SeverityHigh:
		return "▲"
	case review.SeverityMedium:
		return "●"
	default:
		return "○"
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) println(s string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, s)
}
