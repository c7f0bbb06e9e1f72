package review

import (
	"context"

	"go.uber.org/zap"
)

// RuleStore is the durable-storage contract the builder depends on.
// Implementations return all rules scoped to the project plus global rules.
type RuleStore interface {
	ListApplicableRules(ctx context.Context, projectID int64) ([]RuleDefinition, error)
}

// defaultRules are the built-in checks applied to every project.
var defaultRules = []RuleDefinition{
	{
		Key:      "no-console-log",
		Message:  "Avoid using console.log in production code.",
		Pattern:  `console\.log`,
		Category: CategoryStyle,
		Severity: SeverityLow,
		Scope:    ScopeGlobal,
	},
	{
		Key:      "no-todo-comments",
		Message:  "Remove TODO comments before committing.",
		Pattern:  `TODO`,
		Category: CategoryDocs,
		Severity: SeverityMedium,
		Scope:    ScopeGlobal,
	},
}

// DefaultRules returns a copy of the built-in rule definitions.
func DefaultRules() []RuleDefinition {
	out := make([]RuleDefinition, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// RuleSetBuilder assembles the ordered, deduplicated set of compiled rules
// for a project. A nil store always yields defaults only.
type RuleSetBuilder struct {
	store  RuleStore
	logger *zap.Logger
}

// NewRuleSetBuilder creates a builder backed by the given store.
func NewRuleSetBuilder(store RuleStore, logger *zap.Logger) *RuleSetBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleSetBuilder{store: store, logger: logger}
}

// Build resolves the rule set for projectID. Store rules come first so a
// project-defined rule can override a default sharing its key; the first
// occurrence of a key wins. Rules whose patterns fail to compile are dropped.
// If the store lookup fails the builder degrades to defaults only.
func (b *RuleSetBuilder) Build(ctx context.Context, projectID int64) []CompiledRule {
	var defs []RuleDefinition

	if b.store != nil {
		stored, err := b.store.ListApplicableRules(ctx, projectID)
		if err != nil {
			b.logger.Warn("rule store unavailable, using defaults only",
				zap.Int64("projectId", projectID), zap.Error(err))
		} else {
			defs = append(defs, stored...)
		}
	}
	defs = append(defs, defaultRules...)

	seen := make(map[string]bool, len(defs))
	set := make([]CompiledRule, 0, len(defs))
	for _, def := range defs {
		if def.Key == "" || seen[def.Key] {
			continue
		}
		compiled, err := Compile(def)
		if err != nil {
			b.logger.Warn("dropping rule with invalid pattern", zap.Error(err))
			continue
		}
		// Mark the key even for pattern-less rules so a later default
		// cannot resurrect an override.
		seen[def.Key] = true
		set = append(set, compiled)
	}
	return set
}
