package sqldb

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawStoreLoad(t *testing.T) {
	fixture := fstest.MapFS{
		"sql/select_one.sql":   {Data: []byte("SELECT 1 AS NUMBER\n")},
		"sql/select_one.pgsql": {Data: []byte(`SELECT 1 AS "NUMBER"`)},
		"sql/insert_user.sql":  {Data: []byte("  INSERT INTO UserTable (name, email) VALUES (@username, @email)  \n")},
		"sql/now.mysql":        {Data: []byte("SELECT NOW()")},
		"sql/README.md":        {Data: []byte("ignored")},
	}
	boot := fstest.MapFS{
		"sql/create_table.pgsql": {Data: []byte("CREATE TABLE UserTable (id SERIAL PRIMARY KEY)")},
	}

	t.Run("dialect file wins", func(t *testing.T) {
		s := NewRawStore("pgsql")
		require.NoError(t, s.Load(GroupFS{Group: "fixture", FS: fixture}, GroupFS{Group: "bootstrap", FS: boot}))
		assert.Equal(t, `SELECT 1 AS "NUMBER"`, s.MustGet("fixture.select_one"))
		assert.Equal(t, "INSERT INTO UserTable (name, email) VALUES (@username, @email)", s.MustGet("fixture.insert_user"))
		assert.Equal(t, "CREATE TABLE UserTable (id SERIAL PRIMARY KEY)", s.MustGet("bootstrap.create_table"))
		_, ok := s.Get("fixture.now")
		assert.False(t, ok, "other dialects are skipped")
		assert.Len(t, s.GetAll(), 3)
	})

	t.Run("standard file otherwise", func(t *testing.T) {
		s := NewRawStore("mssql")
		require.NoError(t, s.Load(GroupFS{Group: "fixture", FS: fixture}))
		assert.Equal(t, "SELECT 1 AS NUMBER", s.MustGet("fixture.select_one"))
		assert.Panics(t, func() { s.MustGet("bootstrap.create_table") })
	})

	t.Run("group without sql dir", func(t *testing.T) {
		s := NewRawStore("mssql")
		assert.Error(t, s.Load(GroupFS{Group: "empty", FS: fstest.MapFS{}}))
	})
}

func TestIdentifier(t *testing.T) {
	id, err := NewIdentifier("sqlsensor")
	require.NoError(t, err)
	assert.Equal(t, "sqlsensor", id.Name())

	for _, bad := range []string{"", "1db", "db; DROP TABLE x", "db-name", "[db]"} {
		_, err := NewIdentifier(bad)
		assert.Error(t, err, bad)
	}
}
