package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/bookgrid/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or locate the config file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigPathCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		Long: `Write the effective settings (defaults, environment and flags such as
--file) to the config file so they stick. The vision token is never written;
it is read from the variable named by vision.token_env.

Examples:
  bookgrid config init
  bookgrid --file ~/books/shelf.db config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noSession: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.Path(flagConfig)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noSession: "true"},
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(config.Path(flagConfig))
		},
	}
}
