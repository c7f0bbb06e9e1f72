package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleStore struct {
	rules []RuleDefinition
	err   error
}

func (f *fakeRuleStore) ListApplicableRules(ctx context.Context, projectID int64) ([]RuleDefinition, error) {
	return f.rules, f.err
}

func ruleKeys(set []CompiledRule) []string {
	keys := make([]string, len(set))
	for i, r := range set {
		keys[i] = r.Key
	}
	return keys
}

func TestBuildDefaultsOnly(t *testing.T) {
	b := NewRuleSetBuilder(nil, nil)
	set := b.Build(context.Background(), 1)

	assert.Equal(t, []string{"no-console-log", "no-todo-comments"}, ruleKeys(set))
}

func TestBuildStoreRulesPrecedeDefaults(t *testing.T) {
	store := &fakeRuleStore{rules: []RuleDefinition{
		{Key: "no-fmt-print", Message: "use the logger", Pattern: `fmt\.Print`,
			Category: CategoryStyle, Severity: SeverityMedium, Scope: ScopeProject},
	}}
	set := NewRuleSetBuilder(store, nil).Build(context.Background(), 1)

	assert.Equal(t, []string{"no-fmt-print", "no-console-log", "no-todo-comments"}, ruleKeys(set))
}

func TestBuildProjectRuleOverridesDefault(t *testing.T) {
	store := &fakeRuleStore{rules: []RuleDefinition{
		{Key: "no-console-log", Message: "console.log is banned here", Pattern: `console\.log`,
			Category: CategorySecurity, Severity: SeverityCritical, Scope: ScopeProject},
	}}
	set := NewRuleSetBuilder(store, nil).Build(context.Background(), 1)

	require.Equal(t, []string{"no-console-log", "no-todo-comments"}, ruleKeys(set))
	assert.Equal(t, SeverityCritical, set[0].Severity)
	assert.Equal(t, CategorySecurity, set[0].Category)
}

func TestBuildPatternlessOverrideSuppressesDefault(t *testing.T) {
	// A stored rule without a pattern still claims its key, so the default
	// sharing that key must not come back.
	store := &fakeRuleStore{rules: []RuleDefinition{
		{Key: "no-todo-comments", Message: "disabled for this project",
			Category: CategoryDocs, Severity: SeverityLow, Scope: ScopeProject},
	}}
	set := NewRuleSetBuilder(store, nil).Build(context.Background(), 1)

	require.Equal(t, []string{"no-todo-comments", "no-console-log"}, ruleKeys(set))
	assert.False(t, set[0].HasMatcher())
}

func TestBuildDropsInvalidPattern(t *testing.T) {
	store := &fakeRuleStore{rules: []RuleDefinition{
		{Key: "broken", Message: "m", Pattern: `[unclosed`,
			Category: CategoryStyle, Severity: SeverityLow, Scope: ScopeProject},
		{Key: "ok", Message: "m", Pattern: `ok`,
			Category: CategoryStyle, Severity: SeverityLow, Scope: ScopeProject},
	}}
	set := NewRuleSetBuilder(store, nil).Build(context.Background(), 1)

	assert.Equal(t, []string{"ok", "no-console-log", "no-todo-comments"}, ruleKeys(set))
}

func TestBuildStoreFailureDegradesToDefaults(t *testing.T) {
	store := &fakeRuleStore{err: errors.New("database is locked")}
	set := NewRuleSetBuilder(store, nil).Build(context.Background(), 1)

	assert.Equal(t, []string{"no-console-log", "no-todo-comments"}, ruleKeys(set))
}

func TestBuildSkipsEmptyKeys(t *testing.T) {
	store := &fakeRuleStore{rules: []RuleDefinition{
		{Key: "", Message: "nameless", Pattern: `x`,
			Category: CategoryStyle, Severity: SeverityLow},
	}}
	set := NewRuleSetBuilder(store, nil).Build(context.Background(), 1)

	assert.Equal(t, []string{"no-console-log", "no-todo-comments"}, ruleKeys(set))
}

func TestDefaultRulesReturnsCopy(t *testing.T) {
	defs := DefaultRules()
	require.Len(t, defs, 2)
	defs[0].Key = "mutated"

	assert.Equal(t, "no-console-log", DefaultRules()[0].Key)
}
