package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/blackwell-systems/bookgrid/internal/lookup"
)

// Session is what the browser needs from the process session.
type Session interface {
	Store() *grid.Store
	Save(ctx context.Context) error
	Modified(ctx context.Context) bool
}

// BrowserOptions configures RunBrowser.
type BrowserOptions struct {
	// Ingestor backs the search and image keys; nil disables both.
	Ingestor *lookup.Ingestor
	// Title is shown above the grid, usually the snapshot location.
	Title string
}

type cell struct{ row, col int }

// lookupDoneMsg carries the result of a provider call run off the UI loop.
type lookupDoneMsg struct {
	outcome lookup.Outcome
	err     error
}

type browserModel struct {
	ctx      context.Context
	sess     Session
	ingestor *lookup.Ingestor
	title    string
	keys     GridKeys

	shelves catalog.Bookshelf
	row     int
	col     int
	grabbed *cell
	// sortNext is the index into catalog.Fields the next sort on a shelf uses.
	sortNext map[int]int

	prompt      *promptModel
	confirmQuit bool
	busy        bool

	status    string
	statusErr bool
	activeCmd string

	width  int
	height int
}

func newBrowser(ctx context.Context, sess Session, opts BrowserOptions) browserModel {
	m := browserModel{
		ctx:      ctx,
		sess:     sess,
		ingestor: opts.Ingestor,
		title:    opts.Title,
		keys:     NewGridKeys(),
		sortNext: map[int]int{},
	}
	m.refresh()
	return m
}

// RunBrowser opens the interactive grid browser and blocks until it quits.
func RunBrowser(ctx context.Context, sess Session, opts BrowserOptions) error {
	p := tea.NewProgram(newBrowser(ctx, sess, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m browserModel) Init() tea.Cmd { return nil }

// refresh re-reads the grid and clamps the cursor into it.
func (m *browserModel) refresh() {
	m.shelves = m.sess.Store().Snapshot()
	m.row = clamp(m.row, 0, len(m.shelves)-1)
	m.col = clamp(m.col, 0, m.maxCol())
}

// maxCol is the last column the cursor may sit on. While moving a book the
// cursor may also sit one past the end, meaning "append".
func (m *browserModel) maxCol() int {
	if len(m.shelves) == 0 {
		return 0
	}
	n := len(m.shelves[m.row].Books)
	if m.grabbed != nil {
		return n
	}
	return max(n-1, 0)
}

func (m *browserModel) setStatus(format string, a ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, a...), false
}

func (m *browserModel) setError(format string, a ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, a...), true
}

func (m *browserModel) current() (catalog.Book, bool) {
	if m.row >= len(m.shelves) || m.col >= len(m.shelves[m.row].Books) {
		return catalog.Book{}, false
	}
	return m.shelves[m.row].Books[m.col], true
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case clearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case lookupDoneMsg:
		m.busy = false
		m.refresh()
		switch {
		case msg.err != nil:
			m.setError("lookup failed: %v", msg.err)
		case !msg.outcome.Found:
			m.setError("%s", msg.outcome.Message)
		case m.grabbed != nil:
			// The new book went in at (0, 0); keep the held book and the
			// cursor on the same books they pointed at.
			if m.grabbed.row == 0 {
				m.grabbed = &cell{0, m.grabbed.col + 1}
			}
			if m.row == 0 {
				m.col = clamp(m.col+1, 0, m.maxCol())
			}
			m.setStatus("%s", msg.outcome.Message)
		default:
			m.row, m.col = 0, 0
			m.setStatus("%s", msg.outcome.Message)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.confirmQuit {
			return m.updateConfirmQuit(msg)
		}
		return m.updateGrid(msg)
	}

	if m.prompt != nil {
		p, cmd := m.prompt.update(msg)
		m.prompt = &p
		return m, cmd
	}
	return m, nil
}

func (m browserModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if m.grabbed != nil {
			m.grabbed = nil
			m.refresh()
			return m, nil
		}
		if m.sess.Modified(m.ctx) {
			m.confirmQuit = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, k.Cancel):
		if m.grabbed != nil {
			m.grabbed = nil
			m.refresh()
			m.setStatus("move cancelled")
		}
		return m, nil

	case key.Matches(msg, k.Up):
		if m.row > 0 {
			m.row--
			m.col = clamp(m.col, 0, m.maxCol())
		}
		return m, nil

	case key.Matches(msg, k.Down):
		if m.row < len(m.shelves)-1 {
			m.row++
			m.col = clamp(m.col, 0, m.maxCol())
		}
		return m, nil

	case key.Matches(msg, k.Left):
		if m.col > 0 {
			m.col--
		}
		return m, nil

	case key.Matches(msg, k.Right):
		if m.col < m.maxCol() {
			m.col++
		}
		return m, nil

	case key.Matches(msg, k.Grab):
		m.activeCmd = "m"
		return m.grabOrDrop(), highlightCmd()
	}

	if m.grabbed != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Remove):
		m.activeCmd = "x"
		b, ok := m.current()
		if !ok || !m.sess.Store().RemoveRecord(m.row, m.col) {
			m.setError("no book here")
			return m, highlightCmd()
		}
		m.refresh()
		m.setStatus("removed %q", b.Title)
		return m, highlightCmd()

	case key.Matches(msg, k.Sort):
		m.activeCmd = "s"
		if len(m.shelves) == 0 {
			m.setError("no shelf to sort")
			return m, highlightCmd()
		}
		field := catalog.Fields[m.sortNext[m.row]%len(catalog.Fields)]
		m.sortNext[m.row]++
		m.sess.Store().SortShelf(m.row, field)
		m.refresh()
		m.setStatus("sorted %q by %s", m.shelves[m.row].Name, field.Label())
		return m, highlightCmd()

	case key.Matches(msg, k.NewShelf):
		p := newPrompt(promptNewShelf, "")
		m.prompt = &p
		return m, nil

	case key.Matches(msg, k.Rename):
		if len(m.shelves) == 0 {
			m.setError("no shelf to rename")
			return m, nil
		}
		p := newPrompt(promptRename, m.shelves[m.row].Name)
		m.prompt = &p
		return m, nil

	case key.Matches(msg, k.Search):
		if m.ingestor == nil || m.ingestor.Searcher == nil {
			m.setError("search is not configured")
			return m, nil
		}
		p := newPrompt(promptSearch, "")
		m.prompt = &p
		return m, nil

	case key.Matches(msg, k.Image):
		if m.ingestor == nil || m.ingestor.Recognizer == nil {
			m.setError("image recognition is not configured (vision.endpoint)")
			return m, nil
		}
		p := newPrompt(promptImage, "")
		m.prompt = &p
		return m, nil

	case key.Matches(msg, k.Save):
		m.activeCmd = "ctrl+s"
		m.save()
		return m, highlightCmd()
	}
	return m, nil
}

// grabOrDrop picks up the book under the cursor, or drops the held book at
// the cursor.
func (m browserModel) grabOrDrop() browserModel {
	if m.grabbed == nil {
		if _, ok := m.current(); !ok {
			m.setError("no book here")
			return m
		}
		m.grabbed = &cell{m.row, m.col}
		m.setStatus("moving: pick a spot and press m")
		return m
	}

	from := *m.grabbed
	m.grabbed = nil
	if !m.sess.Store().MoveRecord(from.row, from.col, m.row, m.col) {
		m.refresh()
		m.setError("move failed")
		return m
	}
	dest := m.col
	if from.row == m.row && from.col < m.col {
		dest--
	}
	m.refresh()
	m.col = clamp(dest, 0, m.maxCol())
	m.setStatus("moved")
	return m
}

func (m *browserModel) save() bool {
	if err := m.sess.Save(m.ctx); err != nil {
		m.setError("save failed: %v", err)
		return false
	}
	m.setStatus("saved")
	return true
}

func (m browserModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.prompt = nil
		return m, nil
	case tea.KeyEnter:
		p := *m.prompt
		m.prompt = nil
		return m.submitPrompt(p)
	}
	p, cmd := m.prompt.update(msg)
	m.prompt = &p
	return m, cmd
}

func (m browserModel) submitPrompt(p promptModel) (tea.Model, tea.Cmd) {
	v := p.value()
	switch p.kind {
	case promptNewShelf:
		if v == "" {
			return m, nil
		}
		m.row = m.sess.Store().CreateShelf(v)
		m.col = 0
		m.refresh()
		m.setStatus("created shelf %q", v)

	case promptRename:
		if m.sess.Store().RenameShelf(m.row, v) {
			m.refresh()
			m.setStatus("renamed shelf to %q", v)
		}

	case promptSearch:
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("searching for %q…", v)
		return m, m.runLookup(func(ctx context.Context, st *grid.Store) (lookup.Outcome, error) {
			return m.ingestor.AddFromSearch(ctx, st, v)
		})

	case promptImage:
		if v == "" || m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("recognizing %s…", v)
		return m, m.runLookup(func(ctx context.Context, st *grid.Store) (lookup.Outcome, error) {
			return m.ingestor.AddFromImage(ctx, st, v)
		})
	}
	return m, nil
}

// runLookup calls a provider off the UI loop. The store serializes the
// insert against edits made meanwhile.
func (m browserModel) runLookup(fn func(context.Context, *grid.Store) (lookup.Outcome, error)) tea.Cmd {
	ctx, store := m.ctx, m.sess.Store()
	return func() tea.Msg {
		out, err := fn(ctx, store)
		return lookupDoneMsg{outcome: out, err: err}
	}
}

func (m browserModel) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if !m.save() {
			m.confirmQuit = false
			return m, nil
		}
		return m, tea.Quit
	case "n", "N":
		return m, tea.Quit
	case "c", "C", "esc":
		m.confirmQuit = false
		return m, nil
	}
	return m, nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
