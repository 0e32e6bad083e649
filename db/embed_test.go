package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFallsBackToEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations("does/not/exist"), "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_users.sql", "00002_portfolio.sql"}, names)
}

func TestMigrationsPrefersDirectory(t *testing.T) {
	names, err := fs.Glob(Migrations("migrations"), "*.sql")
	require.NoError(t, err)
	assert.Len(t, names, 2)
}
