package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/bookgrid/internal/config"
	"github.com/blackwell-systems/bookgrid/internal/tui"
	"github.com/blackwell-systems/bookgrid/internal/util"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "browse",
		Aliases: []string{"ui"},
		Short:   "Open the interactive grid browser",
		Long: `Open the grid browser. Arrows move the cursor, m picks a book up and drops
it, x removes, s sorts the shelf by the next field, n and r create and
rename shelves, / searches Open Library, i adds from a cover image,
ctrl+s saves and q quits (asking to save unsaved changes).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !util.IsTTY() {
				return fmt.Errorf("browse needs a terminal; use 'bookgrid show' instead")
			}
			return runBrowser(cmd.Context())
		},
	}
}

func runBrowser(ctx context.Context) error {
	restore, err := quietLogs()
	if err != nil {
		return err
	}
	defer restore()
	return tui.RunBrowser(ctx, sess, tui.BrowserOptions{
		Ingestor: newIngestor(),
		Title:    sess.Location(),
	})
}

// quietLogs keeps log lines off the alt screen: with --verbose they go to
// bookgrid.log in the data dir, otherwise nowhere. Browser errors still
// reach the user through the status line.
func quietLogs() (restore func(), err error) {
	if !flagVerbose {
		return logSink.redirect(io.Discard), nil
	}
	dir := config.DefaultDataDir()
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "bookgrid.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	undo := logSink.redirect(f)
	return func() {
		undo()
		_ = f.Close()
	}, nil
}
