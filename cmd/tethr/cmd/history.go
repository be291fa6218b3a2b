package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List conversations visible in the current scope",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.selectScope(cmd)

		a.controller.GetChatHistory(cmd.Context())
		history := a.sessions.History()
		if len(history) == 0 {
			fmt.Println("no conversations")
			return nil
		}
		for _, conv := range history {
			fmt.Printf("%s\t%s\t%s\n", conv.ID, conv.UpdatedAt.Format("2006-01-02 15:04"), conv.Title)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Print one conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		a.controller.LoadChat(cmd.Context(), args[0])
		cur := a.sessions.Current()
		if cur == nil {
			return fmt.Errorf("conversation %s could not be loaded", args[0])
		}
		fmt.Printf("# %s\n", cur.Title)
		for _, msg := range cur.Messages {
			fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}
