package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/picotools/picoide/internal/client"
	"github.com/picotools/picoide/internal/config"
	"github.com/picotools/picoide/internal/logging"
	"github.com/spf13/cobra"
)

const versionTemplate = `{{printf "picoide version %s\n" .Version}}`

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	url        string
	logLevel   string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "picoide",
		Short: "Edit files and watch the console of a Pico W over its web IDE",
		Long: `picoide talks to the web IDE a Pico W serves over its hotspot.
It can browse, edit and delete files, send commands to the device shell and
follow the serial console, either from the terminal UI (monitor) or one
command at a time.

picoide device runs an emulated device on this machine, serving the same
endpoints and web page over a local directory.`,
		// SilenceUsage is set to true to prevent printing usage message on errors
		// handled by us (e.g. invalid arguments, failed connections)
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: search picoide.yaml, configs/picoide.yaml, ~/.config/picoide/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.url, "url", "", "device URL (overrides client.url)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides log.level)")

	cmd.AddCommand(newDeviceCmd(opts))
	cmd.AddCommand(newMonitorCmd(opts))
	cmd.AddCommand(newLsCmd(opts))
	cmd.AddCommand(newCatCmd(opts))
	cmd.AddCommand(newPutCmd(opts))
	cmd.AddCommand(newTouchCmd(opts))
	cmd.AddCommand(newRmCmd(opts))
	cmd.AddCommand(newExecCmd(opts))
	cmd.AddCommand(newTailCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	cmd.AddCommand(newVersionCmd())

	cmd.SetVersionTemplate(versionTemplate)
	return cmd
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command until it returns or the process is
// interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra prints the error, we just exit non-zero
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config, or the first one on the
// search path, and applies flag overrides. A missing config falls back to
// the defaults.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", o.configPath, err)
		}
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNotFound) {
			cfg = config.Default()
		} else if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if o.url != "" {
		cfg.Client.URL = o.url
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// setup loads the config and installs a logger writing to w
func (o *rootOptions) setup(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Init(level, w)
	if cfg.ConfigPath == "" {
		logger.Debug("No config file found, using defaults")
	} else {
		logger.Debug("Loaded config", "path", cfg.ConfigPath)
	}
	return cfg, logger, nil
}

func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Client.URL, client.WithTimeout(cfg.Client.Timeout))
}

// quietCanceled turns the context error of an interrupted long-running
// command into a clean exit
func quietCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
