package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"reviewhub/internal/review"
)

func sampleResult() review.Result {
	return review.Result{
		SessionID: "sess-1",
		Findings: []review.Finding{
			{File: "a.js", LineStart: 3, LineEnd: 3, Category: review.CategoryDocs,
				Severity: review.SeverityMedium, Title: "Rule violation: no-todo-comments",
				Explanation: "Remove TODO comments before committing.", Source: review.SourceRuleEngine},
			{File: "a.js", LineStart: 1, LineEnd: 1, Category: review.CategorySecurity,
				Severity: review.SeverityCritical, Title: "Hardcoded credential",
				Explanation: "A password literal is embedded in the source.",
				Recommendation: "Move the secret to configuration.", Source: review.SourceModel},
		},
		Passed:        false,
		CriticalCount: 1,
		TotalCount:    2,
		Usage: &review.UsageMetrics{Provider: "ollama", Model: "deepseek-coder",
			CharsIn: 100, CharsOut: 50, LatencyMs: 900},
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q) error: %v", format, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Findings: 2 total (1 critical)") {
		t.Errorf("Missing totals line:\n%s", out)
	}
	// Critical finding is printed before the medium one.
	if strings.Index(out, "Hardcoded credential") > strings.Index(out, "no-todo-comments") {
		t.Error("Findings should be ordered most severe first")
	}
	if !strings.Contains(out, "Result: FAILED (1 critical finding(s))") {
		t.Errorf("Missing FAILED line:\n%s", out)
	}
	if !strings.Contains(out, "Fix: Move the secret to configuration.") {
		t.Errorf("Missing recommendation line:\n%s", out)
	}
	if !strings.Contains(out, "ollama/deepseek-coder") {
		t.Errorf("Missing usage line:\n%s", out)
	}
}

func TestTextWriterEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	result := review.Result{Passed: true}
	if err := (&TextWriter{}).Write(&buf, result); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found") {
		t.Errorf("Missing clean-result message:\n%s", buf.String())
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var got review.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if got.TotalCount != 2 || got.CriticalCount != 1 || got.Passed {
		t.Errorf("Roundtrip mismatch: %+v", got)
	}
	// JSON preserves aggregation order, not severity order.
	if got.Findings[0].Title != "Rule violation: no-todo-comments" {
		t.Errorf("Findings[0] = %q, want aggregation order", got.Findings[0].Title)
	}
}
