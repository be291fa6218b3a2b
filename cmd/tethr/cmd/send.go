package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sendChatID string

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message and print the assistant's reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.selectScope(cmd)

		if sendChatID != "" {
			a.controller.LoadChat(cmd.Context(), sendChatID)
		}

		content := strings.Join(args, " ")
		reply, ok := a.controller.SendMessage(cmd.Context(), content, sendChatID)
		if !ok {
			return fmt.Errorf("send failed")
		}
		fmt.Println(reply)

		if cur := a.sessions.Current(); cur != nil {
			a.logger.Debug("conversation", "id", cur.ID, "title", cur.Title)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendChatID, "chat", "", "continue an existing conversation by ID")
	rootCmd.AddCommand(sendCmd)
}
