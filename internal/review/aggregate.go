package review

import "sort"

// Aggregate merges rule-engine findings and model findings. Rule findings
// come first; order within each slice is preserved for display and
// persistence. Both sources count identically toward pass/fail: a review
// passes iff the combined list contains no critical finding.
func Aggregate(ruleFindings, modelFindings []Finding) Result {
	findings := make([]Finding, 0, len(ruleFindings)+len(modelFindings))
	findings = append(findings, ruleFindings...)
	findings = append(findings, modelFindings...)

	critical := 0
	for _, f := range findings {
		if f.Severity == SeverityCritical {
			critical++
		}
	}

	return Result{
		Findings:      findings,
		Passed:        critical == 0,
		CriticalCount: critical,
		TotalCount:    len(findings),
	}
}

// SortBySeverity returns a copy of findings ordered most severe first, then
// by file and start line. Display helper only; persisted order is the
// aggregation order.
func SortBySeverity(findings []Finding) []Finding {
	out := make([]Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := SeverityRank(out[i].Severity), SeverityRank(out[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].LineStart < out[j].LineStart
	})
	return out
}
