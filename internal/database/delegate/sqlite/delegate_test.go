package sqlite_test

import (
	"path/filepath"
	"testing"

	"gem.dev/launcher/internal/database/delegate"
	"gem.dev/launcher/internal/database/delegate/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gamesColumns = []delegate.Column{
	{Name: "filename", Type: "TEXT", Modifiers: "PRIMARY KEY"},
	{Name: "name", Type: "TEXT"},
	{Name: "favorite", Type: "BOOL"},
	{Name: "played", Type: "INTEGER"},
	{Name: "key", Type: "TEXT"},
}

func openTestDelegate(t *testing.T) *sqlite.SQLiteDelegate {
	t.Helper()
	s := &sqlite.SQLiteDelegate{}
	require.NoError(t, s.Open(filepath.Join(t.TempDir(), "data", "gem.db")))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gem.db")
	s := sqlite.SQLiteDelegate{}
	require.NoError(t, s.Open(path))
	require.NoError(t, s.Close())
	require.NoError(t, s.Open(path), "reopening an existing database")
	require.NoError(t, s.Close())
}

func TestFailClose(t *testing.T) {
	s := sqlite.SQLiteDelegate{}
	assert.Error(t, s.Close())
}

func TestFailWithoutOpen(t *testing.T) {
	s := sqlite.SQLiteDelegate{}
	_, err := s.Tables()
	assert.Error(t, err)
	assert.Error(t, s.CreateTable("games", gamesColumns))
}

func TestTablesAndColumns(t *testing.T) {
	s := openTestDelegate(t)
	require.NoError(t, s.CreateTable("games", gamesColumns))

	tables, err := s.Tables()
	require.NoError(t, err)
	assert.Equal(t, []string{"games"}, tables)

	columns, err := s.Columns("games")
	require.NoError(t, err)
	assert.Equal(t, []string{"filename", "name", "favorite", "played", "key"}, columns)

	require.NoError(t, s.AddColumn("games", delegate.Column{Name: "cover", Type: "TEXT"}))
	columns, err = s.Columns("games")
	require.NoError(t, err)
	assert.Equal(t, "cover", columns[len(columns)-1])

	require.NoError(t, s.RenameTable("games", "_games"))
	tables, err = s.Tables()
	require.NoError(t, err)
	assert.Equal(t, []string{"_games"}, tables)

	require.NoError(t, s.DropTable("_games"))
	tables, err = s.Tables()
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestRowOperations(t *testing.T) {
	s := openTestDelegate(t)
	require.NoError(t, s.CreateTable("games", gamesColumns))

	require.NoError(t, s.Insert("games", delegate.Row{"filename": "a.nes", "name": "A", "favorite": true, "played": 3, "key": "k"}))
	require.NoError(t, s.Insert("games", delegate.Row{"filename": "b.nes", "name": "B", "favorite": false, "played": 0, "key": nil}))

	rows, err := s.Select("games", []string{"*"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, "a.nes", rows[0]["filename"])
	assert.EqualValues(t, 3, rows[0]["played"])

	rows, err = s.Select("games", []string{"name"}, delegate.Row{"filename": "b.nes"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 1)
	assert.EqualValues(t, "B", rows[0]["name"])

	require.NoError(t, s.Update("games", delegate.Row{"played": 7}, delegate.Row{"filename": "b.nes"}))
	rows, err = s.Select("games", nil, delegate.Row{"filename": "b.nes"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, rows[0]["played"])
	assert.Nil(t, rows[0]["key"])

	require.NoError(t, s.Update("games", delegate.Row{"name": "Same"}, nil))
	rows, err = s.Select("games", []string{"name"}, delegate.Row{"name": "Same"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, s.Delete("games", delegate.Row{"filename": "a.nes"}))
	rows, err = s.Select("games", nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, s.Delete("games", delegate.Row{"key": nil}))
	rows, err = s.Select("games", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTransactionRollback(t *testing.T) {
	s := openTestDelegate(t)
	require.NoError(t, s.CreateTable("games", gamesColumns))
	require.NoError(t, s.Insert("games", delegate.Row{"filename": "a.nes", "key": "old"}))

	err := s.Transaction(func(tx delegate.DatabaseDelegate) error {
		if err := tx.Update("games", delegate.Row{"key": "new"}, delegate.Row{"key": "old"}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	rows, err := s.Select("games", []string{"key"}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, "old", rows[0]["key"])

	require.NoError(t, s.Transaction(func(tx delegate.DatabaseDelegate) error {
		return tx.Update("games", delegate.Row{"key": "new"}, delegate.Row{"key": "old"})
	}))
	rows, err = s.Select("games", []string{"key"}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, "new", rows[0]["key"])
}
