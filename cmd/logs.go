package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eventlive/eventlive-backend/internal/models"
)

func logsCmd() *cobra.Command {
	var (
		limit int
		role  string
	)

	cmd := &cobra.Command{
		Use:   "logs <ownerID>",
		Short: "Show table counts and a user's recent chat logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			store, closeStore, err := openStore(cfg, log, false)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			stats, err := store.Stats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "storage: %s\n", describeStore(cfg))
			fmt.Fprintf(out, "users=%d logs=%d notices=%d points=%d\n\n", stats.Users, stats.Logs, stats.Notices, stats.Points)

			logs, err := store.RecentLogs(ctx, args[0], models.Role(role), limit)
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintln(out, "(no logs)")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tROLE\tMESSAGE")
			for _, l := range logs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", l.ID, l.CreatedAt.Format("2006-01-02 15:04:05"), l.Role, l.Message)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of rows")
	cmd.Flags().StringVar(&role, "role", "", "filter by role (user or bot)")
	return cmd
}
