package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List versions recently opened with browse",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			entries, err := rt.db.RecentVersions().List(cmd.Context(), recentLimit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				f, _ := formatter(cmd.OutOrStdout())
				type entry struct {
					Cell     string    `json:"cell"`
					ViewedAt time.Time `json:"viewedAt"`
				}
				out := make([]entry, 0, len(entries))
				for _, e := range entries {
					out = append(out, entry{Cell: e.CellID, ViewedAt: e.ViewedAt})
				}
				return f.FormatJSON(out)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent versions")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", e.CellID, e.ViewedAt.Format(time.DateTime))
			}
			return nil
		})
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the browsing history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd.Context(), func(rt *runtime) error {
			if err := rt.db.RecentVersions().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		})
	},
}

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 20, "maximum number of entries")
	recentCmd.AddCommand(recentClearCmd)
	rootCmd.AddCommand(recentCmd)
}
