package app

import (
	"fmt"

	"github.com/blackwell-systems/bookgrid/internal/gate"
	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/blackwell-systems/bookgrid/internal/util"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the grid to another file or database",
		Long: `Write a copy of the grid. The format follows the extension: .json writes
JSON, .db/.sqlite write SQLite, anything else YAML. --backend overrides.

Examples:
  bookgrid export ~/backup/bookshelf.json
  bookgrid export shelf.db --backend sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := gate.NewBackend(backend, util.ExpandHome(args[0]), false)
			if err != nil {
				return err
			}
			snap := sess.Store().Snapshot()
			if err := gate.New(b, logger).Save(cmd.Context(), snap); err != nil {
				return err
			}
			ok("Exported %d shelves, %d books to %s", len(snap), snap.Records(), b.Location())
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Storage backend: file or sqlite (default: from extension)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		backend string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Append the shelves of another snapshot to the grid",
		Long: `Read another YAML, JSON or SQLite snapshot and append its shelves after the
existing ones. --replace swaps the whole grid instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := gate.NewBackend(backend, util.ExpandHome(args[0]), false)
			if err != nil {
				return err
			}
			src, err := gate.New(b, logger).Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(src) == 0 {
				return fmt.Errorf("%s has no shelves", b.Location())
			}

			err = sess.Update(cmd.Context(), func(st *grid.Store) error {
				if replace {
					st.Replace(src)
					return nil
				}
				merged := append(st.Snapshot(), src...)
				st.Replace(merged)
				return nil
			})
			if err != nil {
				return err
			}
			ok("Imported %d shelves, %d books from %s", len(src), src.Records(), b.Location())
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Storage backend: file or sqlite (default: from extension)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the grid instead of appending")
	return cmd
}
