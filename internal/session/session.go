// Package session holds the state shared by the editor, file browser and
// console views of one device connection.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/picotools/picoide/internal/client"
	"github.com/picotools/picoide/internal/config"
	"github.com/picotools/picoide/internal/console"
	"github.com/picotools/picoide/internal/model"
	"github.com/picotools/picoide/internal/status"
)

var (
	ErrFilenameRequired = errors.New("filename required")
	ErrCommandRequired  = errors.New("command required")
	ErrNoSelection      = errors.New("no file selected")
)

// Session ties a device client to a console poller, a status banner and the
// currently selected file
type Session struct {
	client *client.Client
	banner *status.Banner
	poller *console.Poller
	logger *slog.Logger

	echoDelay time.Duration

	mu       sync.Mutex
	selected string
}

// New creates a session. display receives the console transcript; onStatus
// is notified of every banner change and may be nil.
func New(c *client.Client, display console.Display, cfg config.ClientConfig, onStatus func(status.Message), logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	banner := status.NewBanner(cfg.StatusHideDelay, onStatus)
	return &Session{
		client:    c,
		banner:    banner,
		poller:    console.NewPoller(c, display, banner, console.WithInterval(cfg.PollInterval)),
		logger:    logger,
		echoDelay: cfg.CommandEchoDelay,
	}
}

func (s *Session) Banner() *status.Banner  { return s.banner }
func (s *Session) Poller() *console.Poller { return s.poller }
func (s *Session) Client() *client.Client  { return s.client }

// SelectFile marks name as the current file
func (s *Session) SelectFile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = name
}

// Selected returns the current file, or "" when none is selected
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SaveFile writes content to name and returns the device's answer
func (s *Session) SaveFile(ctx context.Context, name, content string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.banner.Warning("Please enter a filename")
		return "", ErrFilenameRequired
	}

	msg, err := s.client.SaveFile(ctx, name, content)
	if err != nil {
		s.logger.Debug("Save failed", "file", name, "error", err)
		s.banner.Error(fmt.Sprintf("Error saving file: %v", err))
		return "", err
	}
	s.banner.Success(msg)
	return msg, nil
}

// LoadFile fetches the content of name
func (s *Session) LoadFile(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.banner.Warning("Please enter a filename")
		return "", ErrFilenameRequired
	}

	content, err := s.client.LoadFile(ctx, name)
	if err != nil {
		s.logger.Debug("Load failed", "file", name, "error", err)
		if errors.Is(err, client.ErrNotFound) {
			s.banner.Error("File not found: " + name)
		} else {
			s.banner.Error(fmt.Sprintf("Error loading file: %v", err))
		}
		return "", err
	}
	s.banner.Success("Loaded " + name)
	return content, nil
}

// ListFiles returns the files on the device
func (s *Session) ListFiles(ctx context.Context) ([]model.FileMetadata, error) {
	files, err := s.client.ListFiles(ctx)
	if err != nil {
		s.banner.Error(fmt.Sprintf("Error listing files: %v", err))
		return nil, err
	}
	return files, nil
}

// CreateFile creates name from the new file template and selects it
func (s *Session) CreateFile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.banner.Warning("Please enter a filename")
		return ErrFilenameRequired
	}

	if err := s.client.CreateFile(ctx, name); err != nil {
		s.banner.Error(fmt.Sprintf("Error creating file: %v", err))
		return err
	}
	s.SelectFile(name)
	s.banner.Success("Created " + name)
	return nil
}

// DeleteFile removes name, clearing the selection if it pointed there
func (s *Session) DeleteFile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.banner.Warning("Select a file first")
		return ErrNoSelection
	}

	if err := s.client.DeleteFile(ctx, name); err != nil {
		s.banner.Error(fmt.Sprintf("Error deleting file: %v", err))
		return err
	}

	s.mu.Lock()
	if s.selected == name {
		s.selected = ""
	}
	s.mu.Unlock()

	s.banner.Success("Deleted " + name)
	return nil
}

// SendCommand posts command without waiting for the answer and re-polls the
// console once after the echo delay. Only input validation errors are
// returned; a failed send is reported on the banner.
func (s *Session) SendCommand(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		s.banner.Warning("Please enter a command")
		return ErrCommandRequired
	}

	go func() {
		if err := s.client.SendCommand(ctx, command); err != nil {
			s.logger.Debug("Send failed", "command", command, "error", err)
			s.banner.Error(fmt.Sprintf("Error sending command: %v", err))
		}
	}()

	time.AfterFunc(s.echoDelay, func() {
		s.poller.Poll(ctx)
	})
	return nil
}

// StartConsole begins (or restarts) console polling
func (s *Session) StartConsole(ctx context.Context) {
	s.poller.Start(ctx)
}

// StopConsole halts console polling
func (s *Session) StopConsole() {
	s.poller.Stop()
}
