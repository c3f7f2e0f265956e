package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func checkAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-auth",
		Short: "Verify the ChannelTalk API credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			status, body, err := newChannelTalkClient(cfg, log, nil).CheckAuth(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			fmt.Fprintln(cmd.OutOrStdout(), "body:", string(body))
			return nil
		},
	}
}
