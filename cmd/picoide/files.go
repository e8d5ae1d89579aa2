package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newLsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the files on the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			files, err := newClient(cfg).ListFiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			width := 4
			for _, f := range files {
				if w := runewidth.StringWidth(f.Name); w > width {
					width = w
				}
			}
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "%s  %8d\n", runewidth.FillRight(f.Name, width), f.Size)
			}
			return nil
		},
	}
}

func newCatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE",
		Short: "Print a file from the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			content, err := newClient(cfg).LoadFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func newPutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put FILE [LOCAL]",
		Short: "Write a file on the device from LOCAL or stdin",
		Long: `Writes FILE on the device. The content is read from LOCAL, or from stdin
when LOCAL is omitted or "-". Writing the boot file reboots the device.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var data []byte
			if len(args) == 2 && args[1] != "-" {
				data, err = os.ReadFile(args[1])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read content: %w", err)
			}

			msg, err := newClient(cfg).SaveFile(cmd.Context(), args[0], string(data))
			if err != nil {
				return fmt.Errorf("failed to save %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newTouchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "touch FILE",
		Short: "Create a new file on the device from the template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := newClient(cfg).CreateFile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", args[0])
			return nil
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm FILE",
		Short: "Delete a file from the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := newClient(cfg).DeleteFile(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
