package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "name",
		Short: "Print the application name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.cfg.App.Name)
			return err
		},
	}
}
