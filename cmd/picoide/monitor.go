package main

import (
	"fmt"

	"github.com/picotools/picoide/internal/logging"
	"github.com/picotools/picoide/internal/tui"
	"github.com/spf13/cobra"
)

func newMonitorCmd(opts *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Open the terminal IDE: editor, console and file browser",
		Long: `Opens an interactive terminal UI with three tabs:

  Editor   edit a file (ctrl+s save, ctrl+o load, ctrl+n new)
  Console  follow the console and send commands (ctrl+y copies the transcript)
  Files    browse, open, create and delete files

The console is polled only while its tab is shown. Logs are discarded
unless --log-file is given, since the terminal belongs to the UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if logFile == "" {
				logFile = cfg.Log.File
			}

			logger := logging.Discard()
			if logFile != "" {
				level, err := logging.ParseLevel(cfg.Log.Level)
				if err != nil {
					return err
				}
				var closeLog func() error
				logger, closeLog, err = logging.InitFile(level, logFile)
				if err != nil {
					return err
				}
				defer closeLog()
			}

			logger.Info("Starting monitor", "url", cfg.Client.URL)
			if err := tui.Run(cmd.Context(), newClient(cfg), cfg.Client, logger); err != nil {
				return fmt.Errorf("error running monitor: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (overrides log.file)")
	return cmd
}
