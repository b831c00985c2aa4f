package gate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/util"
)

// FileBackend stores the grid as a single YAML or JSON document.
type FileBackend struct {
	Path   string
	Format catalog.Format
	// Backup keeps the previous snapshot as <path>.bak on every save.
	Backup bool
}

// NewFileBackend picks the format from the file extension.
func NewFileBackend(path string, backup bool) *FileBackend {
	return &FileBackend{Path: path, Format: catalog.FormatFromPath(path), Backup: backup}
}

func (f *FileBackend) Location() string { return f.Path }

func (f *FileBackend) Read(_ context.Context) (catalog.Bookshelf, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	shelves, err := catalog.Parse(data, f.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return shelves, nil
}

// Write encodes to a temp file in the target directory, syncs it and renames
// it over the old snapshot, so readers see either the old or the new file.
func (f *FileBackend) Write(ctx context.Context, shelves catalog.Bookshelf) error {
	data, err := catalog.Marshal(shelves, f.Format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if f.Backup {
		if _, err := os.Stat(f.Path); err == nil {
			if err := util.CopyFile(f.Path, f.Path+".bak"); err != nil {
				_ = os.Remove(tmpName)
				return fmt.Errorf("backing up snapshot: %w", err)
			}
		}
	}

	if err := os.Rename(tmpName, f.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
