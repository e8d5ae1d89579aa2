package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/picotools/picoide/internal/model"
	"github.com/spf13/cobra"
)

func newExecCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec COMMAND...",
		Short: "Run one command in the device shell and print its result",
		Long: `Sends COMMAND to the device shell, then prints its output from the
command history. The command exits non-zero when the shell reports an error.`,
		Example: `  picoide exec 2+3*4
  picoide exec cat code.py`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			command := strings.TrimSpace(strings.Join(args, " "))
			if command == "" {
				return errors.New("command required")
			}

			c := newClient(cfg)
			if err := c.SendCommand(cmd.Context(), command); err != nil {
				return fmt.Errorf("failed to send command: %w", err)
			}

			records, err := c.CommandHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read command history: %w", err)
			}
			for _, rec := range records {
				if rec.Command != command {
					continue
				}
				if rec.Status == model.CommandFailed {
					return errors.New(rec.Error)
				}
				if rec.Output != "" {
					fmt.Fprintln(cmd.OutOrStdout(), rec.Output)
				}
				return nil
			}
			return errors.New("command not found in device history")
		},
	}
}
