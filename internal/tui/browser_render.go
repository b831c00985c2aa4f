package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	cellWidth  = 18
	cellGap    = 1
	shelfLines = 2 // name line + cells line
)

func (m browserModel) View() string {
	var b strings.Builder

	title := "bookgrid"
	if m.title != "" {
		title += "  " + StyleHelp.Render(m.title)
	}
	b.WriteString(StyleHeader.Render(title))
	b.WriteString("\n\n")

	if len(m.shelves) == 0 {
		b.WriteString(StyleHelp.Render("No shelves yet. Press n to create one or / to search."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetails())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	switch {
	case m.prompt != nil:
		b.WriteString(m.prompt.view())
		b.WriteString("\n")
	case m.confirmQuit:
		b.WriteString(StyleBorder.Padding(0, 1).Render(
			StyleHeader.Render("Save changes before quitting?") + "\n" +
				StyleHelp.Render("y save and quit • n quit without saving • c cancel")))
		b.WriteString("\n")
	}

	b.WriteString(RenderFooterBar(m.keys.shortcuts(m.grabbed != nil), m.activeCmd))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// visibleRange returns the half-open window [start, end) of n items that
// keeps cursor on screen.
func visibleRange(cursor, n, fit int) (int, int) {
	if fit <= 0 || n <= fit {
		return 0, n
	}
	start := max(cursor-fit/2, 0)
	start = min(start, n-fit)
	return start, start + fit
}

func (m browserModel) renderGrid() string {
	cols := 6
	if m.width > 0 {
		cols = max((m.width-6)/(cellWidth+cellGap), 1)
	}
	rows := len(m.shelves)
	if m.height > 0 {
		// title, details, status, footer and padding take about 12 lines
		rows = max((m.height-12)/shelfLines, 1)
	}

	var b strings.Builder
	firstRow, lastRow := visibleRange(m.row, len(m.shelves), rows)
	if firstRow > 0 {
		b.WriteString(StyleHelp.Render(fmt.Sprintf("  ↑ %d more shelves", firstRow)) + "\n")
	}
	for r := firstRow; r < lastRow; r++ {
		b.WriteString(m.renderShelf(r, cols))
	}
	if lastRow < len(m.shelves) {
		b.WriteString(StyleHelp.Render(fmt.Sprintf("  ↓ %d more shelves", len(m.shelves)-lastRow)) + "\n")
	}
	return b.String()
}

func (m browserModel) renderShelf(r, cols int) string {
	shelf := m.shelves[r]
	marker := "  "
	if r == m.row {
		marker = StyleHighlight.Render("▸ ")
	}
	name := shelf.Name
	if name == "" {
		name = "(unnamed)"
	}
	line := marker + StyleShelfName.Render(fmt.Sprintf("[%d] %s", r, name)) +
		StyleHelp.Render(fmt.Sprintf("  %d books", len(shelf.Books)))

	n := len(shelf.Books)
	slots := n
	if m.grabbed != nil && r == m.row {
		slots = n + 1
	}
	cursor := 0
	if r == m.row {
		cursor = m.col
	}
	start, end := visibleRange(cursor, slots, cols)

	cells := make([]string, 0, end-start+2)
	if start > 0 {
		cells = append(cells, StyleHelp.Render("‹"))
	}
	for c := start; c < end; c++ {
		cells = append(cells, m.renderCell(r, c))
	}
	if end < slots {
		cells = append(cells, StyleHelp.Render("›"))
	}
	if n == 0 && slots == 0 {
		cells = append(cells, StyleHelp.Render("(empty)"))
	}
	return line + "\n    " + strings.Join(cells, strings.Repeat(" ", cellGap)) + "\n"
}

func (m browserModel) renderCell(r, c int) string {
	books := m.shelves[r].Books
	text := "+ drop here"
	if c < len(books) {
		text = books[c].Title
		if text == "" {
			text = "(untitled)"
		}
	}
	text = xansi.Truncate(text, cellWidth-2, "…")
	pad := cellWidth - 2 - xansi.StringWidth(text)
	text = " " + text + strings.Repeat(" ", max(pad, 0)) + " "

	isCursor := r == m.row && c == m.col
	isGrabbed := m.grabbed != nil && m.grabbed.row == r && m.grabbed.col == c
	switch {
	case isCursor && m.grabbed != nil:
		return StyleHighlight.Reverse(true).Render(text)
	case isCursor:
		return StyleHighlight.Underline(true).Render(text)
	case isGrabbed:
		return StyleGrabbed.Render(text)
	default:
		return StyleNormal.Render(text)
	}
}

func (m browserModel) renderDetails() string {
	b, ok := m.current()
	if !ok {
		return StyleHelp.Render(" ")
	}
	parts := []string{StyleHeader.Render(orDash(b.Title))}
	meta := []string{}
	for _, s := range []string{b.Author, b.Publisher, b.PubDate} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		parts = append(parts, StyleNormal.Render(strings.Join(meta, " · ")))
	}
	var nums []string
	if b.Price != "" {
		nums = append(nums, "price "+string(b.Price))
	}
	if b.Rating != "" {
		rating := "rating " + string(b.Rating)
		if b.RatingCount != "" {
			rating += " (" + string(b.RatingCount) + ")"
		}
		nums = append(nums, rating)
	}
	if len(nums) > 0 {
		parts = append(parts, StyleHelp.Render(strings.Join(nums, " · ")))
	}
	line := strings.Join(parts, "  ")
	if m.width > 0 {
		line = xansi.Truncate(line, m.width-4, "…")
	}
	return line
}

func (m browserModel) renderStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.statusErr:
		return StyleError.Render(m.status)
	default:
		return StyleSuccess.Render(m.status)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
