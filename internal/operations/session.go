// Package operations ties the in-memory grid to its persistence gate for
// one process: load once, mutate in place, save on demand.
package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/bookgrid/internal/gate"
	"github.com/blackwell-systems/bookgrid/internal/grid"
)

// ErrClosed is returned by Save and Update after Close.
var ErrClosed = errors.New("session closed")

// ErrUnreadable is returned by Update when the snapshot could not be read
// at Open, so saving would overwrite data the user has not seen.
var ErrUnreadable = errors.New("snapshot unreadable; refusing to overwrite")

// Session owns the single grid.Store of a process.
type Session struct {
	gate    *gate.Gate
	store   *grid.Store
	logger  *slog.Logger
	loadErr error
	closed  bool
}

// Open loads the snapshot behind g. The returned session is always usable:
// a non-nil error means the snapshot could not be read and the grid starts
// empty.
func Open(ctx context.Context, g *gate.Gate, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	shelves, err := g.Load(ctx)
	s := &Session{gate: g, store: grid.New(shelves), logger: logger, loadErr: err}
	if err != nil {
		logger.Warn("starting with an empty grid", "location", g.Location(), "err", err)
	} else {
		logger.Debug("grid loaded", "location", g.Location(), "shelves", s.store.Len(), "books", s.store.Records())
	}
	return s, err
}

// Store returns the session's grid.
func (s *Session) Store() *grid.Store { return s.store }

// Location describes where the snapshot lives.
func (s *Session) Location() string { return s.gate.Location() }

// LoadErr is the error Open reported, if any.
func (s *Session) LoadErr() error { return s.loadErr }

// Save writes the current grid. A successful save clears any load error.
func (s *Session) Save(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.gate.Save(ctx, s.store.Snapshot()); err != nil {
		return err
	}
	s.loadErr = nil
	return nil
}

// Modified reports whether the grid differs from the saved snapshot.
func (s *Session) Modified(ctx context.Context) bool {
	return s.gate.IsModified(ctx, s.store.Snapshot())
}

// Update applies fn to the grid and saves the result. If fn fails the grid
// is restored and nothing is written.
func (s *Session) Update(ctx context.Context, fn func(*grid.Store) error) error {
	if s.closed {
		return ErrClosed
	}
	if s.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, s.loadErr)
	}
	before := s.store.Snapshot()
	if err := fn(s.store); err != nil {
		s.store.Replace(before)
		return err
	}
	if err := s.Save(ctx); err != nil {
		s.store.Replace(before)
		return err
	}
	return nil
}

// Close ends the session. Unsaved changes are logged, not written.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	if s.Modified(ctx) {
		s.logger.Warn("closing with unsaved changes", "location", s.gate.Location())
	}
	s.closed = true
	return nil
}
