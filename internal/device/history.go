package device

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/picotools/picoide/internal/model"
)

// History is a thread-safe ring buffer of command records
type History struct {
	mu      sync.RWMutex
	entries []model.CommandRecord
	cap     int
}

// NewHistory creates a new command history with the given capacity
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 50
	}
	return &History{
		entries: make([]model.CommandRecord, 0, capacity),
		cap:     capacity,
	}
}

// Begin records a new running command and returns its ID
func (h *History) Begin(command string) string {
	rec := model.CommandRecord{
		ID:        uuid.NewString(),
		Command:   command,
		Status:    model.CommandRunning,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) >= h.cap {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = rec
	} else {
		h.entries = append(h.entries, rec)
	}
	return rec.ID
}

// Finish marks a command as done with its output or error
func (h *History) Finish(id, output string, cmdErr error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID != id {
			continue
		}
		now := time.Now()
		h.entries[i].CompletedAt = &now
		h.entries[i].Output = output
		if cmdErr != nil {
			h.entries[i].Status = model.CommandFailed
			h.entries[i].Error = cmdErr.Error()
		} else {
			h.entries[i].Status = model.CommandOK
		}
		return
	}
}

// Entries returns all command records (newest first)
func (h *History) Entries() []model.CommandRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]model.CommandRecord, len(h.entries))
	for i, j := 0, len(h.entries)-1; j >= 0; i, j = i+1, j-1 {
		result[i] = h.entries[j]
	}
	return result
}
