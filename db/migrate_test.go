package db

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migrationFiles(t *testing.T) map[string]string {
	t.Helper()
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := migrationsFS.ReadFile(migrationsDir + "/" + e.Name())
		require.NoError(t, err)
		files[e.Name()] = string(data)
	}
	return files
}

// Jede Datei trägt eine Version im Namen; die Abfolge muss streng
// aufsteigend sein, sonst ist die Replay-Reihenfolge mehrdeutig.
func TestMigrationVersionsStrictlyIncreasing(t *testing.T) {
	files := migrationFiles(t)
	require.NotEmpty(t, files)

	var versions []int64
	for name := range files {
		assert.True(t, strings.HasSuffix(name, ".sql"), "unexpected file %s", name)
		idx := strings.Index(name, "_")
		require.Greater(t, idx, 0, "missing version prefix in %s", name)
		v, err := strconv.ParseInt(name[:idx], 10, 64)
		require.NoError(t, err, "bad version prefix in %s", name)
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	for i := 1; i < len(versions); i++ {
		assert.Less(t, versions[i-1], versions[i], "duplicate migration version %d", versions[i])
	}
}

// Jede Migration muss vorwärts und rückwärts definiert sein.
func TestMigrationsHaveUpAndDown(t *testing.T) {
	for name, content := range migrationFiles(t) {
		assert.Contains(t, content, "-- +goose Up", "%s missing Up section", name)
		assert.Contains(t, content, "-- +goose Down", "%s missing Down section", name)
	}
}

// Die Integritätsregeln leben im Schema; die benannten Constraints müssen
// in der Migrationshistorie auftauchen.
func TestMigrationsDefineHardConstraints(t *testing.T) {
	var all strings.Builder
	for _, content := range migrationFiles(t) {
		all.WriteString(content)
	}
	schema := all.String()

	for _, fragment := range []string{
		"user_wallets_one_primary_idx",
		"publications_status_check",
		"citations_no_self_cite_check",
		"ON DELETE CASCADE",
		"PENDING_ONCHAIN",
	} {
		assert.Contains(t, schema, fragment)
	}
}

func TestRevertRejectsNonPositiveSteps(t *testing.T) {
	err := Revert(context.Background(), nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be >= 1")

	err = Revert(context.Background(), nil, -2)
	require.Error(t, err)
}
