// Package console keeps an on-screen transcript eventually consistent with a
// device console buffer by polling full snapshots.
//
// Change detection compares only the number of entries in consecutive
// snapshots. A snapshot with the same count but different content (an entry
// replaced in place, or a ring buffer that dropped one entry while gaining
// another) is not repainted until the count changes again.
//
// Every tick dispatches its fetch in its own goroutine without waiting for the
// previous one. Responses may therefore arrive out of order; each one is a
// full-buffer replacement, so the display converges on the next poll.
package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/picotools/picoide/internal/model"
)

// DefaultInterval is the polling period used when none is configured
const DefaultInterval = 500 * time.Millisecond

// Fetcher reads one snapshot of the whole console buffer
type Fetcher interface {
	GetConsole(ctx context.Context) ([]model.ConsoleEntry, error)
}

// Display renders the transcript
type Display interface {
	SetTranscript(text string)
	ScrollToBottom()
}

// Reporter surfaces a failed poll to the user
type Reporter interface {
	Error(msg string)
}

// Ticker is the subset of time.Ticker the poller needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (tt timeTicker) C() <-chan time.Time { return tt.t.C }
func (tt timeTicker) Stop()               { tt.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Poller repeatedly fetches the console and repaints the display when the
// entry count changes
type Poller struct {
	fetcher  Fetcher
	display  Display
	reporter Reporter

	interval  time.Duration
	newTicker func(time.Duration) Ticker

	// mu orders display writes with the lastLen update
	mu      sync.Mutex
	lastLen int

	runMu sync.Mutex
	stop  chan struct{}
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval sets the polling period
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithTicker replaces the ticker factory, for tests
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(p *Poller) { p.newTicker = fn }
}

// NewPoller creates a stopped poller. reporter may be nil.
func NewPoller(fetcher Fetcher, display Display, reporter Reporter, opts ...Option) *Poller {
	p := &Poller{
		fetcher:   fetcher,
		display:   display,
		reporter:  reporter,
		interval:  DefaultInterval,
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling: one fetch right away, then one per interval.
// Calling Start while running replaces the running timer.
func (p *Poller) Start(ctx context.Context) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.stop != nil {
		close(p.stop)
	}
	stop := make(chan struct{})
	p.stop = stop

	ticker := p.newTicker(p.interval)
	go p.loop(ctx, ticker, stop)
	go p.Poll(ctx)
}

// Stop halts future polls. Fetches already in flight still complete.
// Stopping a stopped poller does nothing.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// Running reports whether the timer is active
func (p *Poller) Running() bool {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	return p.stop != nil
}

// LastLength returns the entry count of the last successful snapshot
func (p *Poller) LastLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastLen
}

func (p *Poller) loop(ctx context.Context, ticker Ticker, stop chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			p.runMu.Lock()
			if p.stop == stop {
				p.stop = nil
			}
			p.runMu.Unlock()
			return
		case <-ticker.C():
			go p.Poll(ctx)
		}
	}
}

// Poll fetches one snapshot and repaints the display if its length differs
// from the previous one. A failed fetch is reported once and changes nothing.
func (p *Poller) Poll(ctx context.Context) error {
	entries, err := p.fetcher.GetConsole(ctx)
	if err != nil {
		if p.reporter != nil {
			p.reporter.Error(fmt.Sprintf("Error fetching console: %v", err))
		}
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(entries) != p.lastLen {
		p.display.SetTranscript(model.Transcript(entries))
		p.display.ScrollToBottom()
	}
	p.lastLen = len(entries)
	return nil
}
