package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/picotools/picoide/internal/model"
)

// ConnectionStatus represents the console stream connection status
type ConnectionStatus struct {
	Connected    bool
	Reconnecting bool
	LastError    string
	LastSeen     time.Time
}

// Follower streams console entries over the device WebSocket and resumes
// after the last seen sequence number on reconnect.
type Follower struct {
	url            string
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
	maxReconnect   time.Duration
	logger         *slog.Logger

	mu           sync.Mutex
	connected    bool
	reconnecting bool
	lastError    error
	lastSeen     time.Time
	lastSeq      uint64

	// OnEntry is called for every entry, in order, from the Run goroutine
	OnEntry func(model.ConsoleEntry)
}

// Follower creates a console follower for this client's device
func (c *Client) Follower(reconnectDelay, maxReconnect time.Duration) (*Follower, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid device url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/console_ws"

	if reconnectDelay <= 0 {
		reconnectDelay = time.Second
	}
	if maxReconnect < reconnectDelay {
		maxReconnect = reconnectDelay
	}

	return &Follower{
		url:            u.String(),
		dialer:         websocket.DefaultDialer,
		reconnectDelay: reconnectDelay,
		maxReconnect:   maxReconnect,
		logger:         slog.Default(),
	}, nil
}

// ResumeAfter makes the next connection start after seq
func (f *Follower) ResumeAfter(seq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeq = seq
}

// Status returns the current connection status
func (f *Follower) Status() ConnectionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	errStr := ""
	if f.lastError != nil {
		errStr = f.lastError.Error()
	}

	return ConnectionStatus{
		Connected:    f.connected,
		Reconnecting: f.reconnecting,
		LastError:    errStr,
		LastSeen:     f.lastSeen,
	}
}

// Run connects and reconnects until ctx is done, then returns ctx.Err()
func (f *Follower) Run(ctx context.Context) error {
	delay := f.reconnectDelay

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := f.connect(ctx)
		if err != nil {
			f.mu.Lock()
			f.connected = false
			f.reconnecting = true
			f.lastError = err
			f.mu.Unlock()

			f.logger.Warn("console stream connection failed", "error", err, "retry_in", delay)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			// Exponential backoff
			delay = delay * 2
			if delay > f.maxReconnect {
				delay = f.maxReconnect
			}
			continue
		}

		// Connected successfully, reset delay
		delay = f.reconnectDelay
		f.readLoop(ctx, conn)
	}
}

func (f *Follower) connect(ctx context.Context) (*websocket.Conn, error) {
	f.mu.Lock()
	after := f.lastSeq
	f.mu.Unlock()

	u := f.url
	if after > 0 {
		u += "?after=" + strconv.FormatUint(after, 10)
	}

	conn, _, err := f.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	f.mu.Lock()
	f.connected = true
	f.reconnecting = false
	f.lastError = nil
	f.lastSeen = time.Now()
	f.mu.Unlock()

	f.logger.Info("console stream connected", "url", u)
	return conn, nil
}

// readLoop delivers entries until the connection drops or ctx is done
func (f *Follower) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	defer func() {
		conn.Close()
		f.mu.Lock()
		f.connected = false
		f.mu.Unlock()
	}()

	for {
		var entry model.ConsoleEntry
		if err := conn.ReadJSON(&entry); err != nil {
			if ctx.Err() == nil {
				f.mu.Lock()
				f.lastError = err
				f.mu.Unlock()
				f.logger.Warn("console stream read error", "error", err)
			}
			return
		}

		f.mu.Lock()
		f.lastSeen = time.Now()
		if entry.Seq > f.lastSeq {
			f.lastSeq = entry.Seq
		}
		f.mu.Unlock()

		if f.OnEntry != nil {
			f.OnEntry(entry)
		}
	}
}
