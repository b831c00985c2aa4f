package tui

import "github.com/charmbracelet/bubbles/key"

// GridKeys are the bindings of the grid browser.
type GridKeys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Grab     key.Binding
	Remove   key.Binding
	Sort     key.Binding
	NewShelf key.Binding
	Rename   key.Binding
	Search   key.Binding
	Image    key.Binding
	Save     key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

// NewGridKeys creates the default grid bindings.
func NewGridKeys() GridKeys {
	return GridKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Grab:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		NewShelf: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new shelf")),
		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Image:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "from image")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shortcuts lists the footer entries in display order.
func (k GridKeys) shortcuts(grabbing bool) []ShortcutEntry {
	if grabbing {
		return []ShortcutEntry{
			{Key: "move", Label: "arrows choose spot"},
			{Key: "m", Label: "m drop"},
			{Key: "esc", Label: "esc cancel"},
		}
	}
	out := make([]ShortcutEntry, 0, 9)
	for _, b := range []key.Binding{k.Grab, k.Remove, k.Sort, k.NewShelf, k.Rename, k.Search, k.Image, k.Save, k.Quit} {
		h := b.Help()
		out = append(out, ShortcutEntry{Key: b.Keys()[0], Label: h.Key + " " + h.Desc})
	}
	return out
}
