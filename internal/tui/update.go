package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/picotools/picoide/internal/status"
)

// For mocking in tests
var writeClipboard = clipboard.WriteAll

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case transcriptMsg:
		m.transcriptText = msg.text
		m.transcript.SetContent(renderTranscript(msg.text, m.transcript.Width))
		return m, nil

	case scrollBottomMsg:
		m.transcript.GotoBottom()
		return m, nil

	case statusMsg:
		m.status = status.Message(msg)
		return m, nil

	case fileLoadedMsg:
		if msg.err == nil {
			m.filename.SetValue(msg.name)
			m.editor.SetValue(msg.content)
			m.session.SelectFile(msg.name)
		}
		return m, nil

	case fileSavedMsg:
		return m, nil

	case filesMsg:
		if msg.err == nil {
			m.files = msg.files
			m.cursor = 0
			selected := m.session.Selected()
			for i, f := range m.files {
				if f.Name == selected {
					m.cursor = i
				}
			}
		}
		return m, nil

	case fileCreatedMsg, fileDeletedMsg:
		return m, listFiles(m.ctx, m.session)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.session.StopConsole()
		return m, tea.Quit
	}

	if m.naming {
		return m.handleNaming(msg)
	}
	if m.confirmDelete {
		m.confirmDelete = false
		if msg.String() == "y" {
			return m, deleteFile(m.ctx, m.session, m.session.Selected())
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m.switchTab((m.active + 1) % tabCount)
	case "shift+tab":
		return m.switchTab((m.active + tabCount - 1) % tabCount)
	}

	switch m.active {
	case tabEditor:
		return m.handleEditorKey(msg)
	case tabConsole:
		return m.handleConsoleKey(msg)
	case tabFiles:
		return m.handleFilesKey(msg)
	}
	return m, nil
}

// switchTab changes the visible tab. The console is only polled while its
// tab is shown.
func (m Model) switchTab(t tab) (tea.Model, tea.Cmd) {
	if t == m.active {
		return m, nil
	}
	if m.active == tabConsole {
		m.session.StopConsole()
		m.command.Blur()
	}
	m.active = t

	switch t {
	case tabConsole:
		m.session.StartConsole(m.ctx)
		return m, m.command.Focus()
	case tabFiles:
		return m, listFiles(m.ctx, m.session)
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m, saveFile(m.ctx, m.session, m.filename.Value(), m.editor.Value())
	case "ctrl+o":
		return m, loadFile(m.ctx, m.session, m.filename.Value())
	case "ctrl+n":
		m.filename.Reset()
		m.editor.Reset()
		m.session.SelectFile("")
		return m, nil
	case "ctrl+f":
		m.editingBody = !m.editingBody
		if m.editingBody {
			m.filename.Blur()
			return m, m.editor.Focus()
		}
		m.editor.Blur()
		return m, m.filename.Focus()
	}
	return m.forward(msg)
}

func (m Model) handleConsoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.command.Value()
		if err := m.session.SendCommand(m.ctx, text); err == nil {
			m.command.Reset()
		}
		return m, nil
	case "ctrl+y":
		if err := writeClipboard(m.transcriptText); err != nil {
			m.session.Banner().Error("Copy failed: " + err.Error())
		} else {
			m.session.Banner().Success("Transcript copied to clipboard")
		}
		return m, nil
	case "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	return m.forward(msg)
}

func (m Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.session.SelectFile(m.files[m.cursor].Name)
		}
	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
			m.session.SelectFile(m.files[m.cursor].Name)
		}
	case "r":
		return m, listFiles(m.ctx, m.session)
	case "enter":
		if len(m.files) == 0 {
			m.session.Banner().Warning("Select a file first")
			return m, nil
		}
		name := m.files[m.cursor].Name
		m.session.SelectFile(name)
		m.filename.SetValue(name)
		next, _ := m.switchTab(tabEditor)
		return next, loadFile(m.ctx, m.session, name)
	case "n":
		m.naming = true
		m.newName.Reset()
		return m, m.newName.Focus()
	case "d":
		if len(m.files) == 0 {
			m.session.Banner().Warning("Select a file first")
			return m, nil
		}
		m.session.SelectFile(m.files[m.cursor].Name)
		m.confirmDelete = true
	}
	return m, nil
}

func (m Model) handleNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.naming = false
		m.newName.Blur()
		return m, nil
	case "enter":
		m.naming = false
		m.newName.Blur()
		name := strings.TrimSpace(m.newName.Value())
		if name == "" {
			return m, nil
		}
		return m, createFile(m.ctx, m.session, name)
	}

	var cmd tea.Cmd
	m.newName, cmd = m.newName.Update(msg)
	return m, cmd
}

// forward hands msg to whichever input has focus
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case tabEditor:
		if m.editingBody {
			m.editor, cmd = m.editor.Update(msg)
		} else {
			m.filename, cmd = m.filename.Update(msg)
		}
	case tabConsole:
		m.command, cmd = m.command.Update(msg)
	case tabFiles:
		if m.naming {
			m.newName, cmd = m.newName.Update(msg)
		}
	}
	return m, cmd
}

// resize lays the components out for the current window
func (m *Model) resize() {
	// header, status line, help line and panel borders
	bodyHeight := m.height - 8
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	bodyWidth := m.width - 4
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	m.filename.Width = bodyWidth - len(m.filename.Prompt) - 1
	m.editor.SetWidth(bodyWidth)
	m.editor.SetHeight(bodyHeight - 1)

	m.transcript.Width = bodyWidth
	m.transcript.Height = bodyHeight - 1
	m.transcript.SetContent(renderTranscript(m.transcriptText, m.transcript.Width))
	m.command.Width = bodyWidth - len(m.command.Prompt) - 1
}
