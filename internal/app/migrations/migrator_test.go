package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", MigrationVersion("001_init.sql"))
	assert.Equal(t, "002", MigrationVersion("002_reports_unique_triple.sql"))
	assert.Equal(t, "noversion.sql", MigrationVersion("noversion.sql"))
}

func TestPendingFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"002_reports.sql":  {Data: []byte("SELECT 2;")},
		"001_init.sql":     {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("docs")},
		"nested/003_x.sql": {Data: []byte("SELECT 3;")},
	}

	files, err := PendingFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_reports.sql"}, files)
}
