package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventlive/eventlive-backend/internal/services"
)

func sendCmd() *cobra.Command {
	var (
		text    string
		botName string
		blocks  bool
	)

	cmd := &cobra.Command{
		Use:   "send [userChatId]",
		Short: "Send a test message to a user chat",
		Long:  "Sends a message through the ChannelTalk API with the same retry policy as live replies. The chat defaults to TEST_USER_CHAT_ID.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			chatID := cfg.TestUserChatID
			if len(args) == 1 {
				chatID = args[0]
			}
			if chatID == "" {
				return errors.New("no user chat id: pass one or set TEST_USER_CHAT_ID")
			}

			client := newChannelTalkClient(cfg, log, nil)
			res, err := client.SendMessage(cmd.Context(), chatID, text, services.SendOptions{BotName: botName, Blocks: blocks})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "outcome:  %s\n", res.Outcome)
			fmt.Fprintf(out, "status:   %d\n", res.StatusCode)
			fmt.Fprintf(out, "attempts: %d\n", res.Attempts)
			if res.OK() {
				fmt.Fprintf(out, "response: %s\n", res.Response)
				return nil
			}
			fmt.Fprintf(out, "error:    %s\n", res.Error)
			return fmt.Errorf("delivery %s", res.Outcome)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "✅ 연결 테스트 완료!", "message text")
	cmd.Flags().StringVar(&botName, "bot", "", "bot name (default: CHANNELTALK_BOT_NAME)")
	cmd.Flags().BoolVar(&blocks, "blocks", false, "send as a text block instead of plainText")
	return cmd
}
