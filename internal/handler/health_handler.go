package handler

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(deps func() *AppDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the MediBot API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()

			health, err := d.API.Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(d.Out, "%s: %s\n", d.API.BaseURL(), health.Status)
			return nil
		},
	}
}
