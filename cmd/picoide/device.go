package main

import (
	"context"
	"fmt"
	"time"

	"github.com/picotools/picoide/internal/device"
	"github.com/spf13/cobra"
)

func newDeviceCmd(opts *rootOptions) *cobra.Command {
	var (
		root        string
		host        string
		port        int
		writeConfig string
	)

	cmd := &cobra.Command{
		Use:   "device",
		Short: "Run an emulated device serving the web IDE over a local directory",
		Long: `Runs a device emulator: the same HTTP endpoints, web page and console a
Pico W serves, backed by a directory on this machine. Saving the boot file
(code.py by default) reboots the emulated device two seconds later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("root") {
				cfg.Device.Root = root
			}
			if cmd.Flags().Changed("host") {
				cfg.Device.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Device.Port = port
			}

			if writeConfig != "" {
				if err := cfg.Save(writeConfig); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", writeConfig)
				return nil
			}

			dev, err := device.New(cfg.Device, logger)
			if err != nil {
				return fmt.Errorf("failed to start device: %w", err)
			}
			defer dev.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "picoide device")
			fmt.Fprintln(out, "==============")
			fmt.Fprintf(out, "Root:      %s\n", dev.Files.Root())
			fmt.Fprintf(out, "Boot file: %s\n", dev.Files.BootFile())
			fmt.Fprintf(out, "\nStarting server on http://%s\n", cfg.Device.Addr())
			fmt.Fprintln(out, "Press Ctrl+C to stop")

			server := device.NewServer(cfg, dev, logger)
			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			logger.Info("Shutting down device server")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "directory that plays the device file system (overrides device.root)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides device.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides device.port)")
	cmd.Flags().StringVar(&writeConfig, "write-config", "", "write the effective config to this path and exit")
	return cmd
}
