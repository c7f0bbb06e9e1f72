package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/review"
)

func TestCreateAndListRules(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	projectID, err := db.CreateProject(ctx, "payments", "")
	require.NoError(t, err)

	id, err := db.CreateRule(ctx, review.RuleDefinition{
		Key:            "no-panic",
		Message:        "avoid panic in handlers",
		Pattern:        `panic\(`,
		Recommendation: "return an error instead",
		Category:       review.CategoryStyle,
		Severity:       review.SeverityHigh,
		ProjectID:      projectID,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	rules, err := db.ListAllRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	r := rules[0]
	assert.Equal(t, "no-panic", r.Key)
	assert.Equal(t, `panic\(`, r.Pattern)
	assert.Equal(t, "return an error instead", r.Recommendation)
	assert.Equal(t, review.ScopeProject, r.Scope)
	assert.Equal(t, projectID, r.ProjectID)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestCreateRuleRejectsInvalid(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.CreateRule(ctx, review.RuleDefinition{Key: "", Message: "m",
		Category: review.CategoryStyle, Severity: review.SeverityLow})
	assert.Error(t, err)

	_, err = db.CreateRule(ctx, review.RuleDefinition{Key: "k", Message: "m",
		Category: "nonsense", Severity: review.SeverityLow})
	assert.Error(t, err)

	_, err = db.CreateRule(ctx, review.RuleDefinition{Key: "k", Message: "m",
		Category: review.CategoryStyle, Severity: "apocalyptic"})
	assert.Error(t, err)
}

func TestListApplicableRulesScopingAndOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p1, err := db.CreateProject(ctx, "p1", "")
	require.NoError(t, err)
	p2, err := db.CreateProject(ctx, "p2", "")
	require.NoError(t, err)

	// Global first so the ordering clause, not insertion order, must put
	// project rules ahead.
	_, err = db.CreateRule(ctx, review.RuleDefinition{
		Key: "global-rule", Message: "m", Pattern: "g",
		Category: review.CategoryStyle, Severity: review.SeverityLow, Scope: review.ScopeGlobal,
	})
	require.NoError(t, err)
	_, err = db.CreateRule(ctx, review.RuleDefinition{
		Key: "p1-rule", Message: "m", Pattern: "a",
		Category: review.CategoryStyle, Severity: review.SeverityLow, ProjectID: p1,
	})
	require.NoError(t, err)
	_, err = db.CreateRule(ctx, review.RuleDefinition{
		Key: "p2-rule", Message: "m", Pattern: "b",
		Category: review.CategoryStyle, Severity: review.SeverityLow, ProjectID: p2,
	})
	require.NoError(t, err)

	defs, err := db.ListApplicableRules(ctx, p1)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "p1-rule", defs[0].Key)
	assert.Equal(t, "global-rule", defs[1].Key)

	defs, err = db.ListApplicableRules(ctx, p2)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "p2-rule", defs[0].Key)
}

func TestDeleteRule(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.CreateRule(ctx, review.RuleDefinition{
		Key: "temp", Message: "m", Pattern: "x",
		Category: review.CategoryStyle, Severity: review.SeverityLow, Scope: review.ScopeGlobal,
	})
	require.NoError(t, err)

	require.NoError(t, db.DeleteRule(ctx, id))

	rules, err := db.ListAllRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestDeleteRulesForProject(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p1, err := db.CreateProject(ctx, "p1", "")
	require.NoError(t, err)

	_, err = db.CreateRule(ctx, review.RuleDefinition{
		Key: "project-rule", Message: "m", Pattern: "x",
		Category: review.CategoryStyle, Severity: review.SeverityLow, ProjectID: p1,
	})
	require.NoError(t, err)
	_, err = db.CreateRule(ctx, review.RuleDefinition{
		Key: "global-rule", Message: "m", Pattern: "x",
		Category: review.CategoryStyle, Severity: review.SeverityLow, Scope: review.ScopeGlobal,
	})
	require.NoError(t, err)

	require.NoError(t, db.DeleteRulesForProject(ctx, p1))

	rules, err := db.ListAllRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "global-rule", rules[0].Key)
}
