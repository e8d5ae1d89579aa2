package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/picotools/picoide/internal/session"
)

// saveFile creates a command to write the editor content to the device
func saveFile(ctx context.Context, s *session.Session, name, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := s.SaveFile(ctx, name, content)
		return fileSavedMsg{name: name, err: err}
	}
}

// loadFile creates a command to fetch a file into the editor
func loadFile(ctx context.Context, s *session.Session, name string) tea.Cmd {
	return func() tea.Msg {
		content, err := s.LoadFile(ctx, name)
		return fileLoadedMsg{name: name, content: content, err: err}
	}
}

// listFiles creates a command to refresh the file list
func listFiles(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		files, err := s.ListFiles(ctx)
		return filesMsg{files: files, err: err}
	}
}

func createFile(ctx context.Context, s *session.Session, name string) tea.Cmd {
	return func() tea.Msg {
		return fileCreatedMsg{name: name, err: s.CreateFile(ctx, name)}
	}
}

func deleteFile(ctx context.Context, s *session.Session, name string) tea.Cmd {
	return func() tea.Msg {
		return fileDeletedMsg{name: name, err: s.DeleteFile(ctx, name)}
	}
}
