package review

import "strings"

// Evaluate applies the compiled rule set to a batch of files. For every
// (file, rule, matching line) triple exactly one Finding is emitted with
// 1-based line attribution. Output order is deterministic: input file order,
// then rule order, then line order. Empty content yields no findings.
func Evaluate(files []FileInput, ruleSet []CompiledRule) []Finding {
	findings := []Finding{}

	for _, file := range files {
		if file.Content == "" {
			continue
		}
		lines := strings.Split(file.Content, "\n")
		for _, rule := range ruleSet {
			if !rule.HasMatcher() {
				continue
			}
			for i, line := range lines {
				if !rule.Matches(line) {
					continue
				}
				findings = append(findings, Finding{
					File:           file.Path,
					LineStart:      i + 1,
					LineEnd:        i + 1,
					Category:       rule.Category,
					Severity:       rule.Severity,
					Title:          "Rule violation: " + rule.Key,
					Explanation:    rule.Message,
					Recommendation: ruleRecommendation(rule.RuleDefinition),
					Source:         SourceRuleEngine,
				})
			}
		}
	}
	return findings
}

func ruleRecommendation(def RuleDefinition) string {
	if def.Recommendation != "" {
		return def.Recommendation
	}
	return def.Message
}
