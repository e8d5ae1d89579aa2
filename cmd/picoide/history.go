package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the commands recently run on the device, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			records, err := newClient(cfg).CommandHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read command history: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, rec := range records {
				result := rec.Output
				if rec.Error != "" {
					result = "Error: " + rec.Error
				}
				fmt.Fprintf(out, "%s  %-7s  %s\n", rec.CreatedAt.Format("15:04:05"), rec.Status, rec.Command)
				if result != "" {
					fmt.Fprintf(out, "          %s\n", result)
				}
			}
			return nil
		},
	}
}
