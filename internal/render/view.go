package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tagup/internal/board"
)

const (
	// minColumnWidth keeps cards readable on narrow terminals.
	minColumnWidth = 20
	// headerRows is the number of rows above the first card inside a
	// column box: the border top plus the column heading.
	headerRows = 2
	// cardRows is the height of one rendered card (description line plus
	// assignee line).
	cardRows = 2
)

// Styles bundles the lipgloss styles used by the board view.
type Styles struct {
	Header     lipgloss.Style
	Column     lipgloss.Style
	DropTarget lipgloss.Style
	Desc       lipgloss.Style
	Assignee   lipgloss.Style
	Selected   lipgloss.Style
	Dragging   lipgloss.Style
}

// DefaultStyles returns the standard board palette.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")),
		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
		DropTarget: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1),
		Desc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD")),
		Assignee: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#33415C")),
		Dragging: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true),
	}
}

// Cursor identifies the keyboard-selected card on the board.
type Cursor struct {
	Column int
	Card   int
}

// BoardView renders a snapshot into the terminal. It carries only
// presentation state; the snapshot itself comes from the repository.
type BoardView struct {
	Styles   Styles
	Width    int
	Hover    board.Status
	HoverSet bool
	Cursor   Cursor
	Focused  bool
}

// ColumnWidth returns the outer width of one column box.
func (v BoardView) ColumnWidth() int {
	w := v.Width / 3
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// ColumnAt maps a terminal x coordinate to a column index.
func (v BoardView) ColumnAt(x int) (int, bool) {
	if x < 0 {
		return 0, false
	}
	i := x / v.ColumnWidth()
	if i > 2 {
		return 0, false
	}
	return i, true
}

// CardAt maps board-relative coordinates to a card. y is measured from
// the top border row of the column boxes.
func (v BoardView) CardAt(cols []Column, x, y int) (colIdx, cardIdx int, ok bool) {
	colIdx, ok = v.ColumnAt(x)
	if !ok || y < headerRows {
		return 0, 0, false
	}
	cardIdx = (y - headerRows) / cardRows
	if colIdx >= len(cols) || cardIdx >= len(cols[colIdx].Cards) {
		return 0, 0, false
	}
	return colIdx, cardIdx, true
}

// Render draws the three columns side by side.
func (v BoardView) Render(cols []Column) string {
	boxes := make([]string, 0, len(cols))
	for i, col := range cols {
		boxes = append(boxes, v.renderColumn(i, col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (v BoardView) renderColumn(idx int, col Column) string {
	inner := v.ColumnWidth() - 4 // border and padding on both sides

	var b strings.Builder
	b.WriteString(v.Styles.Header.Render(truncate(fmt.Sprintf("%s (%d)", col.Title, len(col.Cards)), inner)))
	for j, card := range col.Cards {
		b.WriteString("\n")
		b.WriteString(v.renderCard(idx, j, card, inner))
	}

	box := v.Styles.Column
	if v.HoverSet && col.Status == v.Hover {
		box = v.Styles.DropTarget
	}
	return box.Width(inner + 2).Render(b.String())
}

func (v BoardView) renderCard(colIdx, cardIdx int, card Card, width int) string {
	desc := v.Styles.Desc
	assignee := v.Styles.Assignee
	switch {
	case card.Dragging:
		desc, assignee = v.Styles.Dragging, v.Styles.Dragging
	case v.Focused && v.Cursor.Column == colIdx && v.Cursor.Card == cardIdx:
		desc, assignee = v.Styles.Selected, v.Styles.Selected
	}
	return desc.Render(truncate(card.Desc, width)) + "\n" +
		assignee.Render(truncate(card.Assignee, width))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
