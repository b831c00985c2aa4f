package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptNewShelf promptKind = iota
	promptRename
	promptSearch
	promptImage
)

var promptTitles = map[promptKind]string{
	promptNewShelf: "New shelf name",
	promptRename:   "Rename shelf",
	promptSearch:   "Search Open Library",
	promptImage:    "Cover image path or URL",
}

// promptModel is a one-line text dialog shown over the grid.
type promptModel struct {
	kind  promptKind
	input textinput.Model
}

func newPrompt(kind promptKind, initial string) promptModel {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 200
	in.Width = 50
	in.SetValue(initial)
	in.CursorEnd()
	in.Focus()
	return promptModel{kind: kind, input: in}
}

// value returns the trimmed input.
func (p promptModel) value() string {
	return strings.TrimSpace(p.input.Value())
}

func (p promptModel) update(msg tea.Msg) (promptModel, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p promptModel) view() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		StyleHeader.Render(promptTitles[p.kind]),
		p.input.View(),
		StyleHelp.Render("enter confirm • esc cancel"),
	)
	return StyleBorder.Padding(0, 1).Render(body)
}
