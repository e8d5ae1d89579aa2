package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the device answers and print its boot ID and uptime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			health, err := newClient(cfg).Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("device %s is not reachable: %w", cfg.Client.URL, err)
			}

			keys := make([]string, 0, len(health))
			for k := range health {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, health[k])
			}
			return nil
		},
	}
}
