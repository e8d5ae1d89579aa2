package model

import "time"

// Command record statuses
const (
	CommandRunning = "running"
	CommandOK      = "ok"
	CommandFailed  = "failed"
)

// CommandRecord represents one command sent to the device shell
type CommandRecord struct {
	ID          string     `json:"id"`
	Command     string     `json:"command"`
	Status      string     `json:"status"`
	Output      string     `json:"output,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
