package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateSchemaIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.CreateSchema())
}

func TestProjects(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.CreateProject(ctx, "payments", "/srv/payments")
	require.NoError(t, err)
	require.Positive(t, id)

	p, err := db.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "payments", p.Name)
	assert.Equal(t, "/srv/payments", p.RepoPath)
	assert.False(t, p.CreatedAt.IsZero())

	_, err = db.GetProject(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.CreateProject(ctx, "", "")
	assert.Error(t, err)

	_, err = db.CreateProject(ctx, "billing", "")
	require.NoError(t, err)

	projects, err := db.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "payments", projects[0].Name)
	assert.Empty(t, projects[1].RepoPath)
}
