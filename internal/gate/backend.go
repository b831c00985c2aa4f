package gate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend kinds accepted by NewBackend.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// NewBackend builds a backend by kind. An empty kind is inferred from the
// path: .db/.sqlite/.sqlite3 select SQLite, anything else a file.
func NewBackend(kind, path string, backup bool) (Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if kind == "" {
		kind = kindFromPath(path)
	}
	switch strings.ToLower(kind) {
	case KindFile:
		return NewFileBackend(path, backup), nil
	case KindSQLite:
		return NewSQLiteBackend(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", kind, KindFile, KindSQLite)
	}
}

func kindFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindFile
	}
}
