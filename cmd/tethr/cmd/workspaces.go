package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createWorkspaceName string
	joinWorkspaceToken  string
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List, create or join workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if createWorkspaceName != "" {
			if !a.workspaces.Create(cmd.Context(), createWorkspaceName) {
				return fmt.Errorf("failed to create workspace %q", createWorkspaceName)
			}
		}
		if joinWorkspaceToken != "" {
			if !a.workspaces.Join(cmd.Context(), joinWorkspaceToken) {
				return fmt.Errorf("failed to join workspace")
			}
		}

		a.workspaces.Refresh(cmd.Context())
		list := a.workspaces.Workspaces()
		if len(list) == 0 {
			fmt.Println("no workspaces")
			return nil
		}
		for _, ws := range list {
			fmt.Printf("%d\t%s\t(owner: %s)\n", ws.ID, ws.Name, ws.Owner.Username)
		}
		return nil
	},
}

func init() {
	workspacesCmd.Flags().StringVar(&createWorkspaceName, "create", "", "create a workspace with this name")
	workspacesCmd.Flags().StringVar(&joinWorkspaceToken, "join", "", "join a workspace by invite token")
	rootCmd.AddCommand(workspacesCmd)
}
