package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRuleSet(t *testing.T) []CompiledRule {
	t.Helper()
	return NewRuleSetBuilder(nil, nil).Build(context.Background(), 0)
}

func TestEvaluatePerLineAttribution(t *testing.T) {
	files := []FileInput{{
		Path:    "a.js",
		Content: "console.log('hi')\nconst x = 1;\n// TODO: fix this\n",
	}}

	findings := Evaluate(files, defaultRuleSet(t))
	require.Len(t, findings, 2)

	assert.Equal(t, "a.js", findings[0].File)
	assert.Equal(t, 1, findings[0].LineStart)
	assert.Equal(t, 1, findings[0].LineEnd)
	assert.Equal(t, "Rule violation: no-console-log", findings[0].Title)
	assert.Equal(t, SeverityLow, findings[0].Severity)
	assert.Equal(t, SourceRuleEngine, findings[0].Source)

	assert.Equal(t, 3, findings[1].LineStart)
	assert.Equal(t, "Rule violation: no-todo-comments", findings[1].Title)
	assert.Equal(t, SeverityMedium, findings[1].Severity)
}

func TestEvaluateOneFindingPerMatchingLine(t *testing.T) {
	files := []FileInput{{
		Path:    "spam.js",
		Content: "console.log(1)\nconsole.log(2)\nconsole.log(3)",
	}}

	findings := Evaluate(files, defaultRuleSet(t))
	require.Len(t, findings, 3)
	for i, f := range findings {
		assert.Equal(t, i+1, f.LineStart)
		assert.Equal(t, f.LineStart, f.LineEnd)
	}
}

func TestEvaluateDeterministicOrder(t *testing.T) {
	files := []FileInput{
		{Path: "b.js", Content: "// TODO later\nconsole.log('b')"},
		{Path: "a.js", Content: "console.log('a')"},
	}
	ruleSet := defaultRuleSet(t)

	first := Evaluate(files, ruleSet)
	require.Len(t, first, 3)

	// Input file order, then rule order, then line order.
	assert.Equal(t, "b.js", first[0].File)
	assert.Equal(t, "Rule violation: no-console-log", first[0].Title)
	assert.Equal(t, 2, first[0].LineStart)
	assert.Equal(t, "Rule violation: no-todo-comments", first[1].Title)
	assert.Equal(t, "a.js", first[2].File)

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(files, ruleSet))
	}
}

func TestEvaluateEmptyContent(t *testing.T) {
	files := []FileInput{{Path: "empty.js", Content: ""}}
	findings := Evaluate(files, defaultRuleSet(t))
	assert.Empty(t, findings)
	assert.NotNil(t, findings)
}

func TestEvaluateSkipsPatternlessRules(t *testing.T) {
	rule, err := Compile(RuleDefinition{Key: "manual", Message: "m"})
	require.NoError(t, err)

	findings := Evaluate([]FileInput{{Path: "a.js", Content: "anything"}}, []CompiledRule{rule})
	assert.Empty(t, findings)
}

func TestEvaluateRecommendationFallsBackToMessage(t *testing.T) {
	withRec, err := Compile(RuleDefinition{
		Key: "r1", Message: "msg", Recommendation: "do this instead", Pattern: "x",
		Category: CategoryStyle, Severity: SeverityLow,
	})
	require.NoError(t, err)
	withoutRec, err := Compile(RuleDefinition{
		Key: "r2", Message: "msg only", Pattern: "x",
		Category: CategoryStyle, Severity: SeverityLow,
	})
	require.NoError(t, err)

	findings := Evaluate([]FileInput{{Path: "f", Content: "x"}}, []CompiledRule{withRec, withoutRec})
	require.Len(t, findings, 2)
	assert.Equal(t, "do this instead", findings[0].Recommendation)
	assert.Equal(t, "msg only", findings[1].Recommendation)
}

func TestEvaluateCaseInsensitiveMatching(t *testing.T) {
	files := []FileInput{{Path: "a.js", Content: "// todo: lowercase still counts"}}
	findings := Evaluate(files, defaultRuleSet(t))

	require.Len(t, findings, 1)
	assert.Equal(t, "Rule violation: no-todo-comments", findings[0].Title)
}
