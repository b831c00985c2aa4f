package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/bookgrid/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	Location string    `json:"location"`
	Exists   bool      `json:"exists"`
	Size     int64     `json:"size,omitempty"`
	ModTime  time.Time `json:"mod_time,omitzero"`
	SHA256   string    `json:"sha256,omitempty"`
	Shelves  int       `json:"shelves"`
	Books    int       `json:"books"`
	Modified bool      `json:"modified"`
	Error    string    `json:"error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the grid is stored and whether it has unsaved changes",
		Long: `Show the snapshot location, its checksum and the grid size.

"modified" compares the grid loaded by this command against the snapshot
on disk, so it reports a difference only when the snapshot is unreadable
or changed underneath.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := collectStatus(cmd)
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printStatusText(st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Machine-readable JSON output")
	return cmd
}

func collectStatus(cmd *cobra.Command) statusOutput {
	snap := sess.Store().Snapshot()
	st := statusOutput{
		Location: sess.Location(),
		Shelves:  len(snap),
		Books:    snap.Records(),
		Modified: sess.Modified(cmd.Context()),
	}
	if err := sess.LoadErr(); err != nil {
		st.Error = err.Error()
	}
	if fi, err := os.Stat(st.Location); err == nil {
		st.Exists = true
		st.Size = fi.Size()
		st.ModTime = fi.ModTime()
		if sum, err := util.SHA256File(st.Location); err == nil {
			st.SHA256 = sum
		}
	}
	return st
}

func printStatusText(st statusOutput) {
	header("Snapshot: %s", st.Location)
	if !st.Exists {
		fmt.Printf("  %-10s %s\n", "file:", color.YellowString("not saved yet"))
	} else {
		fmt.Printf("  %-10s %d bytes, %s\n", "file:", st.Size, st.ModTime.Format(time.DateTime))
		fmt.Printf("  %-10s %s\n", "sha256:", st.SHA256)
	}
	fmt.Printf("  %-10s %d shelves, %d books\n", "grid:", st.Shelves, st.Books)
	if st.Error != "" {
		fmt.Printf("  %-10s %s\n", "error:", color.RedString(st.Error))
	}
	if st.Modified {
		fmt.Printf("  %-10s %s\n", "state:", color.YellowString("differs from snapshot"))
	} else {
		fmt.Printf("  %-10s %s\n", "state:", color.GreenString("in sync"))
	}
}
