package gate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/gate"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleGrid() catalog.Bookshelf {
	return catalog.Bookshelf{
		{Name: "programming", Books: []catalog.Book{
			{Title: "SICP", Author: "Abelson", Publisher: "MIT Press", PubDate: "1996-07-25",
				Price: "59.00", Rating: "9.5", RatingCount: "1204"},
			{Title: "OSTEP", Price: "free"},
			{},
		}},
		{Name: "empty", Books: []catalog.Book{}},
		{Name: "fiction", Books: []catalog.Book{{Title: "Dune", Rating: "8.8"}}},
	}
}

type backendCase struct {
	name string
	make func(dir string) gate.Backend
}

func backends() []backendCase {
	return []backendCase{
		{"yaml", func(dir string) gate.Backend { return gate.NewFileBackend(filepath.Join(dir, "bookshelf.yml"), false) }},
		{"json", func(dir string) gate.Backend { return gate.NewFileBackend(filepath.Join(dir, "bookshelf.json"), false) }},
		{"sqlite", func(dir string) gate.Backend { return gate.NewSQLiteBackend(filepath.Join(dir, "bookshelf.db")) }},
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			g := gate.New(bc.make(t.TempDir()), quiet)
			want := sampleGrid()
			require.NoError(t, g.Save(ctx, want))

			got, err := g.Load(ctx)
			require.NoError(t, err)
			assert.True(t, catalog.Equal(want, got), "round trip mismatch: %+v", got)
			assert.Equal(t, catalog.Number("59.00"), got[0].Books[0].Price)
			assert.Equal(t, catalog.Number("free"), got[0].Books[1].Price)
		})
	}
}

func TestLoad_ColdStart(t *testing.T) {
	ctx := context.Background()
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			dir := t.TempDir()
			b := bc.make(dir)
			got, err := gate.New(b, quiet).Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.NotNil(t, got)

			_, statErr := os.Stat(b.Location())
			assert.True(t, os.IsNotExist(statErr), "load must not create the snapshot")
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	ctx := context.Background()
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			b := bc.make(t.TempDir())
			require.NoError(t, os.WriteFile(b.Location(), []byte("{{{ not a snapshot"), 0o600))

			got, err := gate.New(b, quiet).Load(ctx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gate.ErrMalformed), "got %v", err)
			assert.Empty(t, got)
		})
	}
}

func TestIsModified_Sequence(t *testing.T) {
	ctx := context.Background()
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			g := gate.New(bc.make(t.TempDir()), quiet)

			current := catalog.Bookshelf{}
			assert.False(t, g.IsModified(ctx, current), "empty grid without snapshot")

			current = catalog.Bookshelf{{Name: "default", Books: []catalog.Book{{Title: "one"}}}}
			assert.True(t, g.IsModified(ctx, current), "unsaved record")

			require.NoError(t, g.Save(ctx, current))
			assert.False(t, g.IsModified(ctx, current), "just saved")

			current[0].Books[0].Rating = "7"
			assert.True(t, g.IsModified(ctx, current), "edited after save")
		})
	}
}

func TestIsModified_EmptyShelfWithoutSnapshot(t *testing.T) {
	g := gate.New(gate.NewFileBackend(filepath.Join(t.TempDir(), "b.yml"), false), quiet)
	assert.True(t, g.IsModified(context.Background(), catalog.Bookshelf{{Name: "new"}}))
}

func TestIsModified_MalformedIsModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"row_name": 3`), 0o600))
	g := gate.New(gate.NewFileBackend(path, false), quiet)
	assert.True(t, g.IsModified(context.Background(), catalog.Bookshelf{}))
}

func TestIsModified_AbsentEqualsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"row_name": "s", "books": [{"title": "x", "rating": "", "price": 0}]}]`), 0o600))
	g := gate.New(gate.NewFileBackend(path, false), quiet)
	current := catalog.Bookshelf{{Name: "s", Books: []catalog.Book{{Title: "x"}}}}
	assert.False(t, g.IsModified(context.Background(), current))
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	g := gate.New(gate.NewFileBackend(filepath.Join(dir, "bookshelf.yml"), false), quiet)
	ctx := context.Background()
	require.NoError(t, g.Save(ctx, sampleGrid()))
	require.NoError(t, g.Save(ctx, catalog.Bookshelf{{Name: "only"}}))

	got, err := g.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only", got[0].Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind: %v", entries)
}

func TestSave_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "bookshelf.yml")
	g := gate.New(gate.NewFileBackend(path, false), quiet)
	require.NoError(t, g.Save(context.Background(), sampleGrid()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_CancelledKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookshelf.yml")
	g := gate.New(gate.NewFileBackend(path, false), quiet)
	require.NoError(t, g.Save(context.Background(), sampleGrid()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Save(ctx, catalog.Bookshelf{})
	require.Error(t, err)

	got, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, catalog.Equal(sampleGrid(), got))
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1)
}

func TestSave_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookshelf.yml")
	g := gate.New(gate.NewFileBackend(path, false), quiet)
	require.NoError(t, g.Save(context.Background(), sampleGrid()))

	// A directory squatting on the .bak name makes the backup copy fail.
	require.NoError(t, os.Mkdir(path+".bak", 0o755))
	failing := gate.New(gate.NewFileBackend(path, true), quiet)
	require.Error(t, failing.Save(context.Background(), catalog.Bookshelf{}))

	got, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, catalog.Equal(sampleGrid(), got))
}

func TestSave_Backup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.yml")
	g := gate.New(gate.NewFileBackend(path, true), quiet)
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, sampleGrid()))
	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err), "first save has nothing to back up")

	require.NoError(t, g.Save(ctx, catalog.Bookshelf{}))
	data, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	parsed, err := catalog.Parse(data, catalog.FormatYAML)
	require.NoError(t, err)
	assert.True(t, catalog.Equal(sampleGrid(), parsed))
}

func TestNewBackend(t *testing.T) {
	cases := []struct {
		kind, path string
		want       string
	}{
		{"", "x/bookshelf.yml", "*gate.FileBackend"},
		{"", "x/bookshelf.json", "*gate.FileBackend"},
		{"", "x/bookshelf.db", "*gate.SQLiteBackend"},
		{"sqlite", "x/bookshelf.yml", "*gate.SQLiteBackend"},
		{"FILE", "x/bookshelf.db", "*gate.FileBackend"},
	}
	for _, c := range cases {
		b, err := gate.NewBackend(c.kind, c.path, false)
		require.NoError(t, err)
		assert.Equal(t, c.want, typeName(b), "kind=%q path=%q", c.kind, c.path)
		assert.Equal(t, c.path, b.Location())
	}

	_, err := gate.NewBackend("postgres", "x", false)
	assert.Error(t, err)
	_, err = gate.NewBackend("", "", false)
	assert.Error(t, err)
}

func typeName(b gate.Backend) string {
	switch b.(type) {
	case *gate.FileBackend:
		return "*gate.FileBackend"
	case *gate.SQLiteBackend:
		return "*gate.SQLiteBackend"
	default:
		return "unknown"
	}
}
