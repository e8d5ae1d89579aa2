package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/picotools/picoide/internal/console"
	"github.com/picotools/picoide/internal/model"
	"github.com/spf13/cobra"
)

func newTailCmd(opts *rootOptions) *cobra.Command {
	var poll bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the device console",
		Long: `Prints the device console and keeps following it until interrupted.

By default the console is streamed over a WebSocket that reconnects with
exponential backoff and resumes after the last entry seen. With --poll the
whole console is fetched every poll interval instead, the way the web page
does it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c := newClient(cfg)
			ctx := cmd.Context()

			if poll {
				display := &writerDisplay{w: cmd.OutOrStdout()}
				p := console.NewPoller(c, display, logReporter{logger: logger},
					console.WithInterval(cfg.Client.PollInterval))
				p.Start(ctx)
				defer p.Stop()
				<-ctx.Done()
				return nil
			}

			f, err := c.Follower(cfg.Client.WSReconnectDelay, cfg.Client.WSMaxReconnect)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			f.OnEntry = func(e model.ConsoleEntry) {
				io.WriteString(out, e.Message)
			}
			return quietCanceled(f.Run(ctx))
		},
	}

	cmd.Flags().BoolVar(&poll, "poll", false, "poll the full console instead of streaming it")
	return cmd
}

// writerDisplay prints a polled transcript as a stream: only the text past
// what was already printed. A transcript that no longer starts with the
// printed text (the device rebooted) is printed whole.
type writerDisplay struct {
	mu      sync.Mutex
	w       io.Writer
	printed string
}

func (d *writerDisplay) SetTranscript(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.HasPrefix(text, d.printed) {
		io.WriteString(d.w, text[len(d.printed):])
	} else {
		fmt.Fprintln(d.w, "--- console reset ---")
		io.WriteString(d.w, text)
	}
	d.printed = text
}

func (d *writerDisplay) ScrollToBottom() {}

// logReporter sends poll failures to the log
type logReporter struct {
	logger *slog.Logger
}

func (r logReporter) Error(msg string) {
	r.logger.Error(msg)
}
