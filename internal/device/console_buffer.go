package device

import (
	"strings"
	"sync"
	"time"

	"github.com/picotools/picoide/internal/model"
)

// ConsoleBuffer is a thread-safe ring buffer holding the device console.
// Sequence numbers keep increasing across Reset so stream readers can resume.
type ConsoleBuffer struct {
	mu      sync.RWMutex
	entries []model.ConsoleEntry
	cap     int
	seq     uint64
	boot    time.Time
	changed chan struct{}

	now func() time.Time
}

// NewConsoleBuffer creates a new console buffer with the given capacity
func NewConsoleBuffer(capacity int) *ConsoleBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &ConsoleBuffer{
		entries: make([]model.ConsoleEntry, 0, capacity),
		cap:     capacity,
		boot:    time.Now(),
		changed: make(chan struct{}),
		now:     time.Now,
	}
}

// Add appends message, terminated by a newline, and returns the stored entry
func (cb *ConsoleBuffer) Add(message string) model.ConsoleEntry {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.seq++
	entry := model.ConsoleEntry{
		Seq:     cb.seq,
		Time:    cb.now().Sub(cb.boot).Seconds(),
		Message: message + "\n",
	}

	if len(cb.entries) >= cb.cap {
		// Shift everything left by 1, drop oldest
		copy(cb.entries, cb.entries[1:])
		cb.entries[len(cb.entries)-1] = entry
	} else {
		cb.entries = append(cb.entries, entry)
	}

	cb.broadcast()
	return entry
}

// Entries returns a copy of the whole buffer, oldest first
func (cb *ConsoleBuffer) Entries() []model.ConsoleEntry {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	result := make([]model.ConsoleEntry, len(cb.entries))
	copy(result, cb.entries)
	return result
}

// Since returns the buffered entries with a sequence number above seq
func (cb *ConsoleBuffer) Since(seq uint64) []model.ConsoleEntry {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	result := make([]model.ConsoleEntry, 0)
	for _, e := range cb.entries {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// Len returns the number of buffered entries
func (cb *ConsoleBuffer) Len() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return len(cb.entries)
}

// Changed returns a channel that is closed on the next Add or Reset
func (cb *ConsoleBuffer) Changed() <-chan struct{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.changed
}

// Uptime returns the time since the last Reset (or creation)
func (cb *ConsoleBuffer) Uptime() time.Duration {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.now().Sub(cb.boot)
}

// Clear removes all entries without restarting the boot clock
func (cb *ConsoleBuffer) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.entries = cb.entries[:0]
	cb.broadcast()
}

// Reset removes all entries and restarts the boot clock
func (cb *ConsoleBuffer) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.entries = cb.entries[:0]
	cb.boot = cb.now()
	cb.broadcast()
}

// broadcast wakes every Changed waiter. Caller holds mu.
func (cb *ConsoleBuffer) broadcast() {
	close(cb.changed)
	cb.changed = make(chan struct{})
}

// lineWriter adapts ConsoleBuffer to io.Writer, one entry per line
type lineWriter struct {
	buf *ConsoleBuffer
}

func (lw *lineWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\r\n")
	if text == "" {
		return len(p), nil
	}
	for _, line := range strings.Split(text, "\n") {
		lw.buf.Add(strings.TrimRight(line, "\r"))
	}
	return len(p), nil
}
