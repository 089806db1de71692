package main

import (
	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health subcommand.
func NewHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := a.gateway.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%s: %s\n", health.Status, health.Message)
			return nil
		},
	}
}
