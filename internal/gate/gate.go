// Package gate persists the bookshelf and decides whether it needs saving.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
)

var (
	// ErrNoSnapshot means nothing has been saved yet.
	ErrNoSnapshot = errors.New("no snapshot")
	// ErrMalformed means a snapshot exists but could not be decoded.
	ErrMalformed = errors.New("malformed snapshot")
)

// Backend reads and writes one full snapshot.
//
// Read returns ErrNoSnapshot when nothing has been written and wraps
// ErrMalformed when stored data cannot be decoded. Write must replace the
// previous snapshot atomically: on failure the old one stays readable.
type Backend interface {
	Read(ctx context.Context) (catalog.Bookshelf, error)
	Write(ctx context.Context, shelves catalog.Bookshelf) error
	Location() string
}

// Gate is the persistence boundary used by sessions.
type Gate struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps a backend. A nil logger uses slog.Default().
func New(backend Backend, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{backend: backend, logger: logger}
}

// Location describes where snapshots live.
func (g *Gate) Location() string {
	return g.backend.Location()
}

// Load returns the persisted grid. A missing snapshot is a cold start and
// yields an empty grid with no error. An unreadable or malformed snapshot
// also yields an empty grid, together with the error so callers can decide
// whether to keep going.
func (g *Gate) Load(ctx context.Context) (catalog.Bookshelf, error) {
	shelves, err := g.backend.Read(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		g.logger.Debug("no snapshot, starting empty", "location", g.Location())
		return catalog.Bookshelf{}, nil
	case err != nil:
		g.logger.Warn("snapshot unreadable, starting empty", "location", g.Location(), "error", err)
		return catalog.Bookshelf{}, fmt.Errorf("loading %s: %w", g.Location(), err)
	}
	g.logger.Debug("snapshot loaded", "location", g.Location(), "shelves", len(shelves), "books", shelves.Records())
	return shelves, nil
}

// Save replaces the persisted snapshot with shelves.
func (g *Gate) Save(ctx context.Context, shelves catalog.Bookshelf) error {
	if err := g.backend.Write(ctx, shelves); err != nil {
		g.logger.Error("save failed", "location", g.Location(), "error", err)
		return fmt.Errorf("saving %s: %w", g.Location(), err)
	}
	g.logger.Debug("snapshot saved", "location", g.Location(), "shelves", len(shelves), "books", shelves.Records())
	return nil
}

// IsModified reports whether current differs from the persisted snapshot.
// Without a snapshot only a non-empty grid counts as modified; a snapshot
// that cannot be read always counts as modified so the user is asked to
// save rather than losing work.
func (g *Gate) IsModified(ctx context.Context, current catalog.Bookshelf) bool {
	saved, err := g.backend.Read(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		return len(current) > 0
	case err != nil:
		g.logger.Debug("snapshot unreadable, treating as modified", "error", err)
		return true
	}
	return !catalog.Equal(saved, current)
}
