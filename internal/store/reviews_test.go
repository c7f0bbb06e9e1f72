package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/review"
)

func TestSaveSessionRoundtrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	session := review.ReviewSession{
		Metadata: review.Metadata{ProjectID: 1, UserID: 2, Mode: review.ModeUpload},
		Findings: []review.Finding{
			{File: "a.js", LineStart: 1, LineEnd: 1, Category: review.CategoryStyle,
				Severity: review.SeverityLow, Title: "first", Source: review.SourceRuleEngine},
			{File: "a.js", LineStart: 3, LineEnd: 3, Category: review.CategorySecurity,
				Severity: review.SeverityCritical, Title: "second", Source: review.SourceModel,
				EffortMinutes: 10},
		},
		Usage: &review.UsageMetrics{Provider: "ollama", Model: "deepseek-coder",
			CharsIn: 100, CharsOut: 50, LatencyMs: 1200},
	}
	files := []review.FileInput{{Path: "a.js", Content: "console.log('x')"}}

	id, err := db.SaveSession(ctx, session, files)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	findings, err := db.ListSessionFindings(ctx, id)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	// Persisted order is the aggregation order, not severity order.
	assert.Equal(t, "first", findings[0].Title)
	assert.Equal(t, "second", findings[1].Title)
	assert.Equal(t, review.SeverityCritical, findings[1].Severity)
	assert.Equal(t, 10, findings[1].EffortMinutes)
	assert.Equal(t, review.SourceModel, findings[1].Source)
}

func TestSaveSessionKeepsProvidedID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.SaveSession(ctx, review.ReviewSession{
		ID:       "fixed-id",
		Metadata: review.Metadata{Mode: review.ModeUpload},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestSaveSessionTruncatesRawInput(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	big := strings.Repeat("x", rawInputLimit*2)
	id, err := db.SaveSession(ctx, review.ReviewSession{
		Metadata: review.Metadata{Mode: review.ModeUpload},
	}, []review.FileInput{{Path: "big.js", Content: big}})
	require.NoError(t, err)

	var raw string
	err = db.conn.QueryRowContext(ctx, `SELECT raw_input FROM reviews WHERE id = ?`, id).Scan(&raw)
	require.NoError(t, err)
	assert.Len(t, raw, rawInputLimit)
}

func TestCommitChecks(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	check := review.CommitCheck{
		ProjectID:        1,
		CommitHash:       "abc123",
		BranchName:       "main",
		AuthorEmail:      "dev@example.com",
		FilesChecked:     []string{"a.js", "b.js"},
		Passed:           false,
		TotalFindings:    3,
		CriticalFindings: 1,
		ReviewID:         "rev-1",
	}

	id, err := db.SaveCommitCheck(ctx, check)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := db.GetCommitCheck(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "abc123", got.CommitHash)
	assert.Equal(t, "main", got.BranchName)
	assert.Equal(t, []string{"a.js", "b.js"}, got.FilesChecked)
	assert.False(t, got.Passed)
	assert.Equal(t, 3, got.TotalFindings)
	assert.Equal(t, 1, got.CriticalFindings)
	assert.Equal(t, "rev-1", got.ReviewID)
}

func TestGetCommitCheckNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetCommitCheck(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCommitChecksByProject(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := db.SaveCommitCheck(ctx, review.CommitCheck{ProjectID: 1, Passed: true})
		require.NoError(t, err)
	}
	_, err := db.SaveCommitCheck(ctx, review.CommitCheck{ProjectID: 2, Passed: true})
	require.NoError(t, err)

	checks, err := db.ListCommitChecksByProject(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, checks, 3)

	checks, err = db.ListCommitChecksByProject(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, checks, 2)
}
