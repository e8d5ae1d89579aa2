package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/picotools/picoide/internal/client"
	"github.com/picotools/picoide/internal/config"
	"github.com/picotools/picoide/internal/session"
)

// Run starts the terminal front-end against c and blocks until the user quits
func Run(ctx context.Context, c *client.Client, cfg config.ClientConfig, logger *slog.Logger) error {
	p, s, b := newProgram(ctx, c, cfg, logger, tea.WithAltScreen())
	defer b.close()
	defer s.StopConsole()

	_, err := p.Run()
	return err
}

// newProgram wires a session, its display bridge and a bubbletea program
func newProgram(ctx context.Context, c *client.Client, cfg config.ClientConfig, logger *slog.Logger, opts ...tea.ProgramOption) (*tea.Program, *session.Session, *bridge) {
	b := &bridge{}
	s := session.New(c, b, cfg, b.Status, logger)

	opts = append(opts, tea.WithContext(ctx))
	p := tea.NewProgram(NewModel(ctx, s), opts...)
	b.attach(p.Send)
	return p, s, b
}
