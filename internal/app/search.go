package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/blackwell-systems/bookgrid/internal/lookup"
	"github.com/blackwell-systems/bookgrid/internal/lookup/openlibrary"
	"github.com/blackwell-systems/bookgrid/internal/lookup/vision"
	"github.com/spf13/cobra"
)

// newIngestor wires the configured providers. Recognition stays nil unless
// an endpoint is configured.
func newIngestor() *lookup.Ingestor {
	in := &lookup.Ingestor{
		Searcher: openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent,
			cfg.OpenLibrary.RPS, cfg.OpenLibrary.MaxRetries),
		DefaultShelf: cfg.Shelves.EffectiveDefaultShelf(),
		Logger:       logger,
	}
	if cfg.VisionEnabled() {
		in.Recognizer = vision.NewClient(cfg.Vision.Endpoint, cfg.Vision.Token, cfg.Vision.Timeout, logger)
	}
	return in
}

// ingest runs add inside a session update and reports the outcome.
func ingest(ctx context.Context, add func(*grid.Store) (lookup.Outcome, error)) error {
	var out lookup.Outcome
	err := sess.Update(ctx, func(st *grid.Store) error {
		var err error
		if out, err = add(st); err != nil {
			return err
		}
		if !out.Found {
			return errUnchanged
		}
		return nil
	})
	switch {
	case errors.Is(err, errUnchanged):
		warn("%s", out.Message)
		return nil
	case errors.Is(err, lookup.ErrNoProvider):
		return fmt.Errorf("%w (set vision.endpoint in the config)", err)
	case err != nil:
		return err
	}
	ok("Added %s at (0, 0)", bookLine(out.Book))
	return nil
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search Open Library and add the first match to the first shelf",
		Long: `Search Open Library for a keyword and insert the first result at the front
of the first shelf. An empty grid gets a shelf named by shelves.default_name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newIngestor()
			return ingest(cmd.Context(), func(st *grid.Store) (lookup.Outcome, error) {
				return in.AddFromSearch(cmd.Context(), st, args[0])
			})
		},
	}
}

func newRecognizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recognize <image>",
		Short: "Recognize a book from a cover photo and add it to the first shelf",
		Long: `Upload a cover or spine photo (local path or http(s) URL) to the configured
recognition endpoint, look the first recognized book up on Open Library and
insert it at the front of the first shelf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newIngestor()
			return ingest(cmd.Context(), func(st *grid.Store) (lookup.Outcome, error) {
				return in.AddFromImage(cmd.Context(), st, args[0])
			})
		},
	}
}
