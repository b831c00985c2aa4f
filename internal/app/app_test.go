package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/config"
	"github.com/blackwell-systems/bookgrid/internal/gate"
	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/blackwell-systems/bookgrid/internal/operations"
)

// isolate points config and data dirs at a temp dir and returns a snapshot path.
func isolate(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("BOOKGRID_CONFIG", filepath.Join(dir, "missing.yml"))
	return filepath.Join(dir, name)
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--no-color", "--no-interactive"}, args...))
	return cmd.ExecuteContext(context.Background())
}

func loadGrid(t *testing.T, path string) catalog.Bookshelf {
	t.Helper()
	b, err := gate.NewBackend("", path, false)
	require.NoError(t, err)
	shelves, err := gate.New(b, nil).Load(context.Background())
	require.NoError(t, err)
	return shelves
}

func titles(s catalog.Shelf) []string {
	out := []string{}
	for _, b := range s.Books {
		out = append(out, b.Title)
	}
	return out
}

func TestResolveShelf(t *testing.T) {
	st := grid.New(catalog.Bookshelf{{Name: "fiction"}, {Name: "0"}, {Name: "history"}})

	cases := []struct {
		ref  string
		want int
	}{
		{"fiction", 0},
		{"history", 2},
		{"0", 1}, // exact name wins over index
		{"2", 2},
	}
	for _, c := range cases {
		got, err := resolveShelf(st, c.ref)
		require.NoError(t, err, c.ref)
		assert.Equal(t, c.want, got, c.ref)
	}

	_, err := resolveShelf(st, "9")
	assert.ErrorContains(t, err, "out of range")
	_, err = resolveShelf(st, "poetry")
	assert.ErrorContains(t, err, "not found")
}

func TestParsePosition(t *testing.T) {
	n, err := parsePosition("pos", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"-1", "x", ""} {
		_, err := parsePosition("pos", bad)
		assert.Error(t, err, bad)
	}
}

func TestShelvesMarkdown(t *testing.T) {
	shelves := catalog.Bookshelf{
		{Name: "a|b", Books: []catalog.Book{{Title: "Dune", Price: "9.99"}}},
		{Name: "empty", Books: []catalog.Book{}},
	}
	md := shelvesMarkdown(shelves, []int{0, 1})
	assert.Contains(t, md, `## 0. a\|b`)
	assert.Contains(t, md, "| # | Title |")
	assert.Contains(t, md, "| 0 | Dune | - |")
	assert.Contains(t, md, "9.99")
	assert.Contains(t, md, "_empty shelf_")
}

func TestCommands_EditFlow(t *testing.T) {
	path := isolate(t, "bookshelf.yml")
	f := "--file=" + path

	require.NoError(t, run(t, f, "shelf", "create", "fiction"))
	require.NoError(t, run(t, f, "add", "fiction", "--title", "Dune", "--price", "9.99"))
	require.NoError(t, run(t, f, "add", "0", "--title", "emma"))
	require.NoError(t, run(t, f, "add", "0", "--at", "0", "--title", "Beloved"))

	got := loadGrid(t, path)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Beloved", "Dune", "emma"}, titles(got[0]))
	assert.Equal(t, catalog.Number("9.99"), got[0].Books[1].Price)

	require.NoError(t, run(t, f, "move", "fiction", "0", "fiction", "3"))
	assert.Equal(t, []string{"Dune", "emma", "Beloved"}, titles(loadGrid(t, path)[0]))

	require.NoError(t, run(t, f, "sort", "fiction", "title"))
	assert.Equal(t, []string{"Beloved", "Dune", "emma"}, titles(loadGrid(t, path)[0]))

	require.NoError(t, run(t, f, "shelf", "create", "  history  "))
	require.NoError(t, run(t, f, "move", "0", "1", "history", "0"))
	require.NoError(t, run(t, f, "remove", "0", "0"))
	require.NoError(t, run(t, f, "shelf", "rename", "0", "  novels "))

	got = loadGrid(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "novels", got[0].Name)
	assert.Equal(t, "history", got[1].Name, "created names are trimmed")
	assert.Equal(t, []string{"emma"}, titles(got[0]))
	assert.Equal(t, []string{"Dune"}, titles(got[1]))

	require.NoError(t, run(t, f, "shelves"))
	require.NoError(t, run(t, f, "show"))
	require.NoError(t, run(t, f, "find", "dun"))
	require.NoError(t, run(t, f, "status"))
}

func TestCommands_Errors(t *testing.T) {
	path := isolate(t, "bookshelf.json")
	f := "--file=" + path
	require.NoError(t, run(t, f, "shelf", "create", "fiction"))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Error(t, run(t, f, "remove", "0", "0"), "empty shelf")
	assert.Error(t, run(t, f, "move", "0", "0", "0", "1"), "nothing to move")
	assert.Error(t, run(t, f, "sort", "0", "isbn"), "unknown field")
	assert.Error(t, run(t, f, "shelf", "rename", "0", "   "), "blank name")
	assert.Error(t, run(t, f, "add", "poetry", "--title", "x"), "unknown shelf")
	assert.Error(t, run(t, f, "shelf", "create", "   "), "blank new shelf")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "failed commands leave the snapshot alone")
}

func TestCommands_MalformedSnapshotIsNotOverwritten(t *testing.T) {
	path := isolate(t, "bookshelf.json")
	require.NoError(t, os.WriteFile(path, []byte("[{broken"), 0o600))

	err := run(t, "--file="+path, "shelf", "create", "x")
	require.ErrorIs(t, err, operations.ErrUnreadable)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "[{broken", string(data))

	assert.NoError(t, run(t, "--file="+path, "status"), "read-only commands still run")
}

func TestCommands_ExportImport(t *testing.T) {
	path := isolate(t, "bookshelf.yml")
	f := "--file=" + path
	require.NoError(t, run(t, f, "shelf", "create", "fiction"))
	require.NoError(t, run(t, f, "add", "fiction", "--title", "Dune"))

	dbPath := filepath.Join(filepath.Dir(path), "copy.db")
	require.NoError(t, run(t, f, "export", dbPath))
	assert.True(t, catalog.Equal(loadGrid(t, path), loadGrid(t, dbPath)))

	require.NoError(t, run(t, f, "import", dbPath))
	got := loadGrid(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "fiction", got[1].Name)

	require.NoError(t, run(t, f, "import", "--replace", dbPath))
	assert.Len(t, loadGrid(t, path), 1)
}

func TestCommands_Search(t *testing.T) {
	path := isolate(t, "bookshelf.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search.json":
			if strings.Contains(r.URL.Query().Get("q"), "dune") {
				_, _ = w.Write([]byte(`{"docs": [{"title": "Dune", "author_name": ["Frank Herbert"], "isbn": ["1"]}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"docs": []}`))
		case "/api/books":
			_, _ = w.Write([]byte(`{"ISBN:1": {"title": "Dune", "publishers": [{"name": "Ace"}], "publish_date": "1990"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("BOOKGRID_OPENLIBRARY_BASE_URL", srv.URL)
	t.Setenv("BOOKGRID_SHELVES_DEFAULT_NAME", "inbox")

	require.NoError(t, run(t, "--file="+path, "search", "nothing here"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no result, nothing saved")

	require.NoError(t, run(t, "--file="+path, "search", "dune"))
	got := loadGrid(t, path)
	require.Len(t, got, 1)
	assert.Equal(t, "inbox", got[0].Name)
	require.Len(t, got[0].Books, 1)
	assert.Equal(t, "Ace", got[0].Books[0].Publisher)

	err = run(t, "--file="+path, "recognize", "cover.jpg")
	assert.ErrorContains(t, err, "vision.endpoint")
}

func TestCommands_ConfigInit(t *testing.T) {
	path := isolate(t, "shelf.db")
	cfgPath := os.Getenv("BOOKGRID_CONFIG")
	t.Setenv("BOOKGRID_SHELVES_DEFAULT_NAME", "inbox")

	require.NoError(t, run(t, "--file="+path, "config", "init"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "config init does not touch the grid")

	t.Setenv("BOOKGRID_SHELVES_DEFAULT_NAME", "")
	got, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, path, got.Storage.Path)
	assert.Equal(t, "inbox", got.Shelves.DefaultName)

	assert.ErrorContains(t, run(t, "config", "init"), "already exists")
	other := filepath.Join(filepath.Dir(path), "other.yml")
	require.NoError(t, run(t, "--file="+other, "config", "init", "--force"))
	got, err = config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, other, got.Storage.Path)
	assert.Equal(t, "inbox", got.Shelves.DefaultName, "settings from the existing file are kept")
}

func TestQuietLogs(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(logSink.redirect(&buf))
	initLogger(false)

	restore, err := quietLogs()
	require.NoError(t, err)
	logger.Error("save failed while browsing")
	restore()
	assert.Empty(t, buf.String(), "nothing reaches the terminal while the browser runs")

	logger.Warn("after browsing")
	assert.Contains(t, buf.String(), "after browsing")
}

func TestQuietLogs_VerboseWritesFile(t *testing.T) {
	isolate(t, "bookshelf.yml")
	var buf bytes.Buffer
	t.Cleanup(logSink.redirect(&buf))
	flagVerbose = true
	t.Cleanup(func() { flagVerbose = false })
	initLogger(true)

	restore, err := quietLogs()
	require.NoError(t, err)
	logger.Debug("grid loaded", "books", 3)
	restore()

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(filepath.Join(config.DefaultDataDir(), "bookgrid.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "grid loaded")
}
