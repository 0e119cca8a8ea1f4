package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/framecut-cli/db"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent exports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Flags(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.db == nil {
			return errors.New("export history is disabled or unavailable")
		}

		exports, err := db.SelectExports(a.db, historyLimit)
		if err != nil {
			return err
		}
		if len(exports) == 0 {
			fmt.Println("No exports yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCreated\tVideo\tFrames\tStatus")
		fmt.Fprintln(w, "--\t-------\t-----\t------\t------")
		for _, e := range exports {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%s\n",
				e.ID,
				e.CreatedAt.Local().Format(time.DateTime),
				truncate(filepath.Base(e.VideoPath), 32),
				e.StartFrame, e.EndFrame,
				e.Status,
			)
		}
		w.Flush()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one export in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Flags(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.db == nil {
			return errors.New("export history is disabled or unavailable")
		}

		e, err := db.SelectExportByID(a.db, args[0])
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("export %s not found", args[0])
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%s\n", e.ID)
		fmt.Fprintf(w, "Status:\t%s\n", e.Status)
		fmt.Fprintf(w, "Video:\t%s\n", e.VideoPath)
		fmt.Fprintf(w, "Range:\t%d-%d\n", e.StartFrame, e.EndFrame)
		fmt.Fprintf(w, "Frames written:\t%d\n", e.FramesWritten)
		fmt.Fprintf(w, "Clip:\t%s\n", e.OutputPath)
		if e.OutputSize > 0 {
			fmt.Fprintf(w, "Clip size:\t%d bytes\n", e.OutputSize)
		}
		fmt.Fprintf(w, "Timestamps:\t%s\n", e.RecordPath)
		if e.Origin != "" {
			fmt.Fprintf(w, "Origin:\t%s\n", e.Origin)
		}
		fmt.Fprintf(w, "Created:\t%s\n", e.CreatedAt.Local().Format(time.DateTime))
		if e.StartedAt != nil && e.FinishedAt != nil {
			fmt.Fprintf(w, "Took:\t%s\n", e.FinishedAt.Sub(*e.StartedAt).Round(time.Millisecond))
		}
		if e.Error != "" {
			fmt.Fprintf(w, "Error:\t%s\n", e.Error)
		}
		w.Flush()
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of exports to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
