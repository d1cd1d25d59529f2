package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/inky2048/internal/db"
)

func statsCmd() *cobra.Command {
	var (
		session string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise completed swipes by direction",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.NewDB(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.SwipeStats(session)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintf(out, "%d completed swipes\n", summary.Total)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DIRECTION\tCOUNT\tMEAN PX\tSTDDEV PX\tP95 PX\tMEAN MS\tMEDIAN MS\tP95 MS")
			for _, d := range summary.Directions {
				fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
					d.Direction, d.Count, d.MeanDistance, d.StdDevDistance, d.P95Distance,
					d.MeanElapsedMs, d.MedianElapsed, d.P95ElapsedMs)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "limit to one session id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func sessionsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recent games",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.NewDB(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.Sessions(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SESSION\tMOVES\tSCORE\tMAX\tSTARTED")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.ID, s.Moves, s.Score, s.MaxTile, s.StartedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	return cmd
}
