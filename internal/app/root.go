package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/blackwell-systems/bookgrid/internal/config"
	"github.com/blackwell-systems/bookgrid/internal/gate"
	"github.com/blackwell-systems/bookgrid/internal/operations"
	"github.com/blackwell-systems/bookgrid/internal/tui"
	"github.com/blackwell-systems/bookgrid/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	sess   *operations.Session
	logger *slog.Logger

	flagFile          string
	flagConfig        string
	flagNoColor       bool
	flagNoInteractive bool
	flagVerbose       bool
)

// noSession marks commands that run without loading the grid.
const noSession = "bookgrid/no-session"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookgrid",
		Short: "Arrange a personal book catalog on named shelves",
		Long: `bookgrid keeps a catalog of books arranged on named shelves, like a
bookcase: each shelf is a row, each book has a position on its shelf.

The grid is stored in a single YAML, JSON or SQLite file. Books can be
added by hand, from an Open Library search, or from a cover photo.

Run 'bookgrid' with no arguments in a terminal to open the grid browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.ShouldUseTUI(cmd) {
				return runBrowser(cmd.Context())
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Grid snapshot path (default: storage.path from config)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/bookgrid/config.yml)")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug details to stderr")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)
		initLogger(flagVerbose)

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagFile != "" {
			cfg.Storage.Path = util.ExpandHome(flagFile)
		}

		if _, skip := cmd.Annotations[noSession]; skip {
			return nil
		}
		return openSession(cmd.Context())
	}

	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if sess == nil {
			return nil
		}
		err := sess.Close(cmd.Context())
		sess = nil
		return err
	}

	root.AddCommand(
		newShelvesCmd(),
		newShowCmd(),
		newShelfCmd(),
		newAddCmd(),
		newMoveCmd(),
		newRemoveCmd(),
		newSortCmd(),
		newFindCmd(),
		newSearchCmd(),
		newRecognizeCmd(),
		newStatusCmd(),
		newExportCmd(),
		newImportCmd(),
		newBrowseCmd(),
		newConfigCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// logSink is where the diagnostic logger writes. It is swapped while the
// browser owns the terminal.
var logSink = &swapWriter{w: os.Stderr}

type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// redirect sends log output to w until the returned func is called.
func (s *swapWriter) redirect(w io.Writer) (restore func()) {
	s.mu.Lock()
	prev := s.w
	s.w = w
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.w = prev
		s.mu.Unlock()
	}
}

func initLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(logSink, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func openSession(ctx context.Context) error {
	backend, err := gate.NewBackend(cfg.Storage.Backend, cfg.Storage.Path, cfg.Storage.Backup)
	if err != nil {
		return err
	}
	s, err := operations.Open(ctx, gate.New(backend, logger), logger)
	sess = s
	if err != nil {
		if errors.Is(err, gate.ErrMalformed) {
			warn("Could not read %s: %v", backend.Location(), err)
			warn("Starting with an empty grid; commands that save will refuse to overwrite it.")
			return nil
		}
		return err
	}
	return nil
}
