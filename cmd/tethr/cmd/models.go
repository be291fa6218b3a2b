package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List selectable models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		a.catalog.Refresh(cmd.Context())
		if msg := a.catalog.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		if warning := a.catalog.Warning(); warning != "" {
			a.logger.Warn(warning)
		}

		for _, m := range a.catalog.Models() {
			marker := " "
			if m.ID == a.catalog.Selected() {
				marker = "*"
			}
			caps := ""
			if m.Capabilities.Free {
				caps += " free"
			}
			if m.Capabilities.Vision {
				caps += " vision"
			}
			if m.Capabilities.Code {
				caps += " code"
			}
			if m.Capabilities.Fast {
				caps += " fast"
			}
			fmt.Printf("%s %-45s %8d ctx%s\n", marker, m.ID, m.ContextLength, caps)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
