package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/picotools/picoide/internal/model"
	"github.com/picotools/picoide/internal/session"
	"github.com/picotools/picoide/internal/status"
)

type tab int

const (
	tabEditor tab = iota
	tabConsole
	tabFiles
	tabCount
)

var tabNames = [tabCount]string{"Editor", "Console", "Files"}

// Model represents the TUI application state
type Model struct {
	ctx     context.Context
	session *session.Session

	active tab
	width  int
	height int

	// Editor tab
	filename    textinput.Model
	editor      textarea.Model
	editingBody bool

	// Console tab
	command        textinput.Model
	transcript     viewport.Model
	transcriptText string

	// Files tab
	files         []model.FileMetadata
	cursor        int
	newName       textinput.Model
	naming        bool
	confirmDelete bool

	status status.Message
}

// Message types for Bubbletea update loop
type fileSavedMsg struct {
	name string
	err  error
}

type fileLoadedMsg struct {
	name    string
	content string
	err     error
}

type filesMsg struct {
	files []model.FileMetadata
	err   error
}

type fileCreatedMsg struct {
	name string
	err  error
}

type fileDeletedMsg struct {
	name string
	err  error
}

// NewModel creates a new TUI model bound to s
func NewModel(ctx context.Context, s *session.Session) Model {
	fn := textinput.New()
	fn.Placeholder = "code.py"
	fn.Prompt = "File: "
	fn.CharLimit = 128
	fn.Width = 40
	fn.Focus()

	ed := textarea.New()
	ed.Placeholder = "# Write your code here"
	ed.ShowLineNumbers = true
	ed.CharLimit = 0

	cmd := textinput.New()
	cmd.Placeholder = "print('hello')"
	cmd.Prompt = ">>> "
	cmd.CharLimit = 256

	nn := textinput.New()
	nn.Prompt = "New file name: "
	nn.CharLimit = 128

	return Model{
		ctx:        ctx,
		session:    s,
		filename:   fn,
		editor:     ed,
		command:    cmd,
		newName:    nn,
		transcript: viewport.New(80, 20),
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("picoide "+m.session.Client().BaseURL()))
}
