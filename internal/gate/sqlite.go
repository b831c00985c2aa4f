package gate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/util"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS shelves (
	position INTEGER PRIMARY KEY,
	row_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS books (
	shelf_position INTEGER NOT NULL,
	position       INTEGER NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	author         TEXT NOT NULL DEFAULT '',
	publisher      TEXT NOT NULL DEFAULT '',
	pub_date       TEXT NOT NULL DEFAULT '',
	price          TEXT NOT NULL DEFAULT '',
	rating         TEXT NOT NULL DEFAULT '',
	rating_count   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (shelf_position, position)
);`

// SQLiteBackend keeps the grid in a SQLite database. A save rewrites every
// row inside one transaction.
type SQLiteBackend struct {
	Path string
}

// NewSQLiteBackend returns a backend for the database at path.
func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{Path: path}
}

func (s *SQLiteBackend) Location() string { return s.Path }

func (s *SQLiteBackend) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	return db, nil
}

func (s *SQLiteBackend) Read(ctx context.Context) (catalog.Bookshelf, error) {
	// Opening would create the file, which must not count as a snapshot.
	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('shelves', 'books')`).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n == 0 {
		return nil, ErrNoSnapshot
	}
	if n != 2 {
		return nil, fmt.Errorf("%w: missing tables", ErrMalformed)
	}

	shelves := catalog.Bookshelf{}
	rows, err := db.QueryContext(ctx, `SELECT position, row_name FROM shelves ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	index := map[int]int{}
	for rows.Next() {
		var pos int
		var name string
		if err := rows.Scan(&pos, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		index[pos] = len(shelves)
		shelves = append(shelves, catalog.Shelf{Name: name, Books: []catalog.Book{}})
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rows, err = db.QueryContext(ctx, `SELECT shelf_position, title, author, publisher, pub_date, price, rating, rating_count
		FROM books ORDER BY shelf_position, position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pos                   int
			b                     catalog.Book
			price, rating, rcount string
		)
		if err := rows.Scan(&pos, &b.Title, &b.Author, &b.Publisher, &b.PubDate, &price, &rating, &rcount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		i, ok := index[pos]
		if !ok {
			return nil, fmt.Errorf("%w: book on unknown shelf %d", ErrMalformed, pos)
		}
		b.Price, b.Rating, b.RatingCount = catalog.Number(price), catalog.Number(rating), catalog.Number(rcount)
		shelves[i].Books = append(shelves[i].Books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return shelves, nil
}

func (s *SQLiteBackend) Write(ctx context.Context, shelves catalog.Bookshelf) error {
	if err := util.EnsureDir(filepath.Dir(s.Path)); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("clearing books: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shelves`); err != nil {
		return fmt.Errorf("clearing shelves: %w", err)
	}

	shelfStmt, err := tx.PrepareContext(ctx, `INSERT INTO shelves (position, row_name) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer shelfStmt.Close()
	bookStmt, err := tx.PrepareContext(ctx, `INSERT INTO books
		(shelf_position, position, title, author, publisher, pub_date, price, rating, rating_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer bookStmt.Close()

	for i, shelf := range shelves {
		if _, err := shelfStmt.ExecContext(ctx, i, shelf.Name); err != nil {
			return fmt.Errorf("inserting shelf %d: %w", i, err)
		}
		for j, b := range shelf.Books {
			if _, err := bookStmt.ExecContext(ctx, i, j, b.Title, b.Author, b.Publisher, b.PubDate,
				string(b.Price), string(b.Rating), string(b.RatingCount)); err != nil {
				return fmt.Errorf("inserting book %d/%d: %w", i, j, err)
			}
		}
	}
	return tx.Commit()
}
