package model

import "strings"

// ConsoleEntry is one unit of device console output. Message is raw text and
// may hold a partial line.
type ConsoleEntry struct {
	Seq     uint64  `json:"seq,omitempty"`
	Time    float64 `json:"time"` // seconds since device boot
	Message string  `json:"message"`
}

// Transcript concatenates every message of a snapshot in order.
func Transcript(entries []ConsoleEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Message)
	}
	return b.String()
}
