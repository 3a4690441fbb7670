package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/rshade/flashgrid/internal/grid"
)

// Layout constants.
const (
	maxColumnWidth = 40
	columnGap      = "  "
	ellipsis       = "…"
	// headerHeight is the header line plus the rule under it.
	headerHeight = 2
)

// frame is one evaluation of every visible cell.
type frame struct {
	columns []grid.ColumnDef
	cells   [][]grid.CellView
	widths  []int
}

func buildFrame(ctrl *grid.Controller) frame {
	columns := ctrl.Columns()
	rows := ctrl.Rows()

	f := frame{
		columns: columns,
		cells:   make([][]grid.CellView, len(rows)),
		widths:  make([]int, len(columns)),
	}
	for i := range rows {
		f.cells[i] = make([]grid.CellView, len(columns))
		for j := range columns {
			cell := ctrl.Cell(i, j)
			cell.Text = strings.ReplaceAll(cell.Text, "\n", " ")
			f.cells[i][j] = cell
		}
	}

	for j, c := range columns {
		if c.Width > 0 {
			f.widths[j] = c.Width
			continue
		}
		w := displayWidth(c.Header())
		for i := range f.cells {
			w = max(w, displayWidth(f.cells[i][j].Text))
		}
		f.widths[j] = min(max(w, 1), maxColumnWidth)
	}
	return f
}

// totalWidth is the width of a full row including gaps.
func (f frame) totalWidth() int {
	total := 0
	for _, w := range f.widths {
		total += w
	}
	if n := len(f.widths); n > 1 {
		total += (n - 1) * len(columnGap)
	}
	return total
}

// columnAt maps a horizontal screen position to a column index.
func (f frame) columnAt(x int) (int, bool) {
	left := 0
	for j, w := range f.widths {
		if x >= left && x < left+w {
			return j, true
		}
		left += w + len(columnGap)
	}
	return 0, false
}

func (f frame) renderHeader(theme Theme) string {
	parts := make([]string, len(f.columns))
	for j, c := range f.columns {
		parts[j] = theme.Header.Render(fit(c.Header(), f.widths[j]))
	}
	header := strings.Join(parts, columnGap)
	rule := theme.Rule.Render(strings.Repeat("─", f.totalWidth()))
	return lipgloss.JoinVertical(lipgloss.Left, header, rule)
}

// cellState carries the presentation-only state of a cell.
type cellState struct {
	selected    bool
	highlighted bool
}

func (f frame) renderRow(theme Theme, i int, state func(i, j int, cell grid.CellView) cellState) string {
	parts := make([]string, len(f.columns))
	for j := range f.columns {
		cell := f.cells[i][j]
		st := state(i, j, cell)

		style := theme.Cell
		if cs, ok := theme.classStyle(cell.Class); ok {
			style = cs
		}
		if st.selected {
			style = theme.Selected.Inherit(style)
		}
		if st.highlighted {
			style = theme.Flash.Inherit(style)
		}
		parts[j] = style.Render(fit(cell.Text, f.widths[j]))
	}
	return strings.Join(parts, columnGap)
}

// RenderStatic renders every row of ctrl once, without selection, inside the
// theme's container. Cells whose value changed in the last update are drawn
// with the flash style. It returns the empty string when the grid has nothing
// to draw.
func RenderStatic(ctrl *grid.Controller, theme Theme) string {
	if !ctrl.Visible() {
		return ""
	}

	f := buildFrame(ctrl)
	lines := make([]string, 0, len(f.cells)+1)
	lines = append(lines, f.renderHeader(theme))
	for i := range f.cells {
		lines = append(lines, f.renderRow(theme, i, func(_, _ int, cell grid.CellView) cellState {
			return cellState{highlighted: cell.Flash}
		}))
	}
	return theme.Container.Render(strings.Join(lines, "\n"))
}

// displayWidth measures text in terminal cells, ignoring escape sequences.
func displayWidth(text string) int {
	return runewidth.StringWidth(ansi.Strip(text))
}

// fit truncates or pads text to exactly width terminal cells.
func fit(text string, width int) string {
	w := displayWidth(text)
	if w > width {
		if strings.ContainsRune(text, '\x1b') {
			text = ansi.Truncate(text, width, ellipsis)
		} else {
			text = runewidth.Truncate(text, width, ellipsis)
		}
		w = displayWidth(text)
	}
	if w < width {
		text += strings.Repeat(" ", width-w)
	}
	return text
}
