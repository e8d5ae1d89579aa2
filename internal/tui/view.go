package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/picotools/picoide/internal/model"
	"github.com/picotools/picoide/internal/status"
)

// View renders the TUI interface
func (m Model) View() string {
	var body string
	switch m.active {
	case tabEditor:
		body = m.renderEditor()
	case tabConsole:
		body = m.renderConsole()
	case tabFiles:
		body = m.renderFiles()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		panelStyle.Render(body),
		renderStatus(m.status),
		helpStyle.Render(m.helpText()),
	)
}

func (m Model) renderTabs() string {
	parts := []string{titleStyle.Render("picoide") + " "}
	for i, name := range tabNames {
		if tab(i) == m.active {
			parts = append(parts, activeTabStyle.Render(name))
		} else {
			parts = append(parts, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderEditor() string {
	return m.filename.View() + "\n" + m.editor.View()
}

func (m Model) renderConsole() string {
	return m.transcript.View() + "\n" + m.command.View()
}

func (m Model) renderFiles() string {
	var b strings.Builder
	width := m.width - 6
	if width < 30 {
		width = 30
	}

	if len(m.files) == 0 {
		b.WriteString(sizeStyle.Render("No files"))
	}
	for i, f := range m.files {
		row := fileRow(f, width)
		if i == m.cursor {
			row = selectedStyle.Render(row)
		}
		b.WriteString(row)
		if i < len(m.files)-1 {
			b.WriteString("\n")
		}
	}

	switch {
	case m.naming:
		b.WriteString("\n\n" + m.newName.View())
	case m.confirmDelete:
		b.WriteString("\n\n" + warningStyle.Render(fmt.Sprintf("Delete %s? (y/N)", m.session.Selected())))
	}
	return b.String()
}

// fileRow lays out one listing line: the name padded or truncated to fit,
// then the size
func fileRow(f model.FileMetadata, width int) string {
	size := fmt.Sprintf("%d bytes", f.Size)
	nameWidth := width - len(size) - 1
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := runewidth.Truncate(f.Name, nameWidth, "…")
	return runewidth.FillRight(name, nameWidth) + " " + size
}

// renderTranscript styles each console line and truncates it to maxWidth so
// the viewport never wraps
func renderTranscript(text string, maxWidth int) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		if maxWidth > 1 && runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth-1, "") + "…"
		}
		out[i] = styleConsoleLine(line)
	}
	return strings.Join(out, "\n")
}

func styleConsoleLine(line string) string {
	switch {
	case strings.HasPrefix(line, ">>> "):
		return commandLineStyle.Render(line)
	case strings.HasPrefix(line, "Error") || strings.HasPrefix(line, "ERROR"):
		return errorLineStyle.Render(line)
	case strings.HasPrefix(line, "==="):
		return bannerLineStyle.Render(line)
	default:
		return defaultLineStyle.Render(line)
	}
}

func renderStatus(msg status.Message) string {
	switch msg.Kind {
	case status.KindSuccess:
		return successStyle.Render(msg.Text)
	case status.KindWarning:
		return warningStyle.Render(msg.Text)
	case status.KindError:
		return errorStyle.Render(msg.Text)
	}
	return ""
}

func (m Model) helpText() string {
	switch {
	case m.naming:
		return "enter: create • esc: cancel"
	case m.confirmDelete:
		return "y: delete • any other key: cancel"
	}

	switch m.active {
	case tabEditor:
		return "ctrl+s: save • ctrl+o: load • ctrl+n: new • ctrl+f: name/body • tab: switch • ctrl+c: quit"
	case tabConsole:
		return "enter: send • ctrl+y: copy • pgup/pgdown: scroll • tab: switch • ctrl+c: quit"
	default:
		return "↑/↓: select • enter: open • n: new • d: delete • r: refresh • tab: switch • ctrl+c: quit"
	}
}
