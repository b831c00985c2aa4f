package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion records the build version for the version command.
func SetVersion(v string) { appVersion = v }

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the bookgrid version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noSession: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bookgrid %s\n", appVersion)
		},
	}
}
