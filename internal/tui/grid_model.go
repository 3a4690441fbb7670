package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/flashgrid/internal/flash"
	"github.com/rshade/flashgrid/internal/grid"
)

// Default dimensions, used until the first tea.WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
	minBodyHeight = 1
	statusHeight  = 1
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyUp    = "up"
	keyDown  = "down"
	keyLeft  = "left"
	keyRight = "right"
	keyK     = "k"
	keyJ     = "j"
	keyH     = "h"
	keyL     = "l"
	keyHome  = "home"
	keyEnd   = "end"
	keyPgUp  = "pgup"
	keyPgDn  = "pgdown"
)

// RowsMsg replaces the rows shown by a GridModel.
type RowsMsg struct {
	Rows []grid.Row
}

// ColumnsMsg replaces the column definitions of a GridModel.
type ColumnsMsg struct {
	Columns []grid.ColumnDef
}

// ScrollToIndexMsg asks the grid to bring a row into view.
type ScrollToIndexMsg struct {
	Index int
}

// ModelOptions configures a GridModel.
type ModelOptions struct {
	Theme Theme
	// Timing is the highlight schedule of changed cells. The zero Timing
	// means flash.DefaultTiming.
	Timing flash.Timing
	// Height caps the grid height in lines, header included. Zero follows
	// the window height.
	Height int
	// Standalone makes q and ctrl+c quit the program and shows a status line.
	Standalone bool
}

// GridModel is the Bubble Tea model of an interactive grid.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type GridModel struct {
	ctrl     *grid.Controller
	pulses   *flash.Set
	theme    Theme
	viewport viewport.Model
	frame    frame

	width      int
	height     int
	maxHeight  int
	standalone bool

	selRow int
	selCol int

	scrollSeq uint64
	quitting  bool
}

// NewGridModel wraps ctrl in a Bubble Tea model.
func NewGridModel(ctrl *grid.Controller, opts ModelOptions) GridModel {
	timing := opts.Timing
	if timing == (flash.Timing{}) {
		timing = flash.DefaultTiming()
	}

	m := GridModel{
		ctrl:       ctrl,
		pulses:     flash.NewSet(timing),
		theme:      opts.Theme,
		width:      defaultWidth,
		height:     defaultHeight,
		maxHeight:  opts.Height,
		standalone: opts.Standalone,
	}
	_, m.scrollSeq = ctrl.API().ScrollTarget()
	m.viewport = viewport.New(m.bodyWidth(), m.bodyHeight())
	m.rebuild()
	return m
}

// Controller returns the wrapped controller.
func (m GridModel) Controller() *grid.Controller {
	return m.ctrl
}

// Selected returns the selected row and column.
func (m GridModel) Selected() (row, col int) {
	return m.selRow, m.selCol
}

// YOffset returns the first visible row.
func (m GridModel) YOffset() int {
	return m.viewport.YOffset
}

// Highlighted reports whether the cell at (row, col) currently shows its
// flash highlight.
func (m GridModel) Highlighted(row, col int) bool {
	if row < 0 || row >= len(m.frame.cells) || col < 0 || col >= len(m.frame.columns) {
		return false
	}
	return m.pulses.Highlighted(m.frame.cells[row][col].Key)
}

// Init implements tea.Model.
func (m GridModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.bodyWidth()
		m.viewport.Height = m.bodyHeight()
		m.redraw()

	case RowsMsg:
		cmd = m.applyRows(msg.Rows)

	case ColumnsMsg:
		m.ctrl.SetColumns(msg.Columns)
		m.clampSelection()
		m.rebuild()

	case ScrollToIndexMsg:
		m.ctrl.API().ScrollToIndex(msg.Index)

	case flash.HighlightMsg, flash.ClearMsg:
		cmd = m.pulses.Update(msg)
		m.redraw()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	}

	m.applyScrollRequest()
	return m, cmd
}

// applyRows evaluates every cell once. The same frame feeds the pulse
// bookkeeping and the drawing.
func (m *GridModel) applyRows(rows []grid.Row) tea.Cmd {
	m.ctrl.SetRows(rows)
	m.clampSelection()
	m.frame = m.evaluate()

	keep := make(map[string]struct{})
	var changed []string
	for _, row := range m.frame.cells {
		for _, cell := range row {
			keep[cell.Key] = struct{}{}
			if cell.Flash {
				changed = append(changed, cell.Key)
			}
		}
	}
	m.pulses.Retain(keep)
	m.redraw()

	if len(changed) == 0 {
		return nil
	}
	return m.pulses.Trigger(changed...)
}

func (m *GridModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	rows := len(m.ctrl.Rows())
	cols := len(m.ctrl.Columns())

	switch msg.String() {
	case keyQuit, keyCtrlC:
		if m.standalone {
			m.quitting = true
			m.Close()
			return tea.Quit
		}
		return nil
	case keyUp, keyK:
		m.selRow--
	case keyDown, keyJ:
		m.selRow++
	case keyLeft, keyH:
		m.selCol--
	case keyRight, keyL:
		m.selCol++
	case keyHome:
		m.selRow = 0
	case keyEnd:
		m.selRow = rows - 1
	case keyPgUp:
		m.selRow -= m.viewport.Height
	case keyPgDn:
		m.selRow += m.viewport.Height
	case keyEnter:
		if rows > 0 && cols > 0 {
			m.ctrl.CellClicked(m.selRow, m.selCol)
		}
		return nil
	default:
		return nil
	}

	m.clampSelection()
	m.followSelection()
	m.redraw()
	return nil
}

// handleMouse clicks the cell under a left press; other mouse events (the
// wheel) go to the viewport.
func (m *GridModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	left, top := m.containerInset()
	line := msg.Y - top - headerHeight
	if line < 0 || line >= m.viewport.Height {
		return nil
	}
	row := line + m.viewport.YOffset
	col, ok := m.frame.columnAt(msg.X - left)
	if !ok || row >= len(m.ctrl.Rows()) {
		return nil
	}

	m.selRow, m.selCol = row, col
	m.redraw()
	m.ctrl.CellClicked(row, col)
	return nil
}

// applyScrollRequest honors ScrollToIndex calls made through the API since
// the last update.
func (m *GridModel) applyScrollRequest() {
	index, seq := m.ctrl.API().ScrollTarget()
	if seq == m.scrollSeq {
		return
	}
	m.scrollSeq = seq

	offset, ok := grid.ScrollOffset(index, m.viewport.Height, len(m.ctrl.Rows()))
	if !ok {
		return
	}
	m.selRow = index
	m.redraw()
	m.viewport.SetYOffset(offset)
}

func (m *GridModel) clampSelection() {
	rows := len(m.ctrl.Rows())
	cols := len(m.ctrl.Columns())
	m.selRow = clamp(m.selRow, 0, rows-1)
	m.selCol = clamp(m.selCol, 0, cols-1)
}

func (m *GridModel) followSelection() {
	switch {
	case m.selRow < m.viewport.YOffset:
		m.viewport.SetYOffset(m.selRow)
	case m.selRow >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.selRow - m.viewport.Height + 1)
	}
}

func (m *GridModel) evaluate() frame {
	if !m.ctrl.Visible() {
		return frame{}
	}
	return buildFrame(m.ctrl)
}

// rebuild re-evaluates every cell and redraws the body.
func (m *GridModel) rebuild() {
	m.frame = m.evaluate()
	m.redraw()
}

// redraw restyles the cached frame. Selection and highlight changes only
// need this; cell values are not evaluated again.
func (m *GridModel) redraw() {
	if len(m.frame.cells) == 0 {
		m.viewport.SetContent("")
		return
	}

	lines := make([]string, len(m.frame.cells))
	for i := range m.frame.cells {
		lines[i] = m.frame.renderRow(m.theme, i, func(i, j int, cell grid.CellView) cellState {
			return cellState{
				selected:    i == m.selRow && j == m.selCol,
				highlighted: m.pulses.Highlighted(cell.Key),
			}
		})
	}

	offset := m.viewport.YOffset
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.SetYOffset(offset)
}

func (m GridModel) bodyWidth() int {
	return max(m.width-m.theme.Container.GetHorizontalFrameSize(), 1)
}

func (m GridModel) bodyHeight() int {
	h := m.height
	if m.maxHeight > 0 && m.maxHeight < h {
		h = m.maxHeight
	}
	h -= headerHeight + m.theme.Container.GetVerticalFrameSize()
	if m.standalone {
		h -= statusHeight
	}
	return max(h, minBodyHeight)
}

// Close stops pending pulses and clears the API's event listeners.
func (m GridModel) Close() {
	m.pulses.StopAll()
	m.ctrl.Close()
}

// View implements tea.Model.
func (m GridModel) View() string {
	if m.quitting || !m.ctrl.Visible() {
		return ""
	}

	sections := []string{m.frame.renderHeader(m.theme), m.viewport.View()}
	if m.standalone {
		sections = append(sections, m.renderStatusBar())
	}
	return m.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// containerInset is the offset of the grid's top-left cell inside the
// container box.
func (m GridModel) containerInset() (left, top int) {
	c := m.theme.Container
	left = c.GetMarginLeft() + c.GetBorderLeftSize() + c.GetPaddingLeft()
	top = c.GetMarginTop() + c.GetBorderTopSize() + c.GetPaddingTop()
	return left, top
}

func (m GridModel) renderStatusBar() string {
	rows := len(m.ctrl.Rows())
	status := fmt.Sprintf("Row %d/%d | flashing %d | arrows/hjkl move, enter selects, q quits",
		m.selRow+1, rows, m.pulses.Active())
	return m.theme.Status.Render(status)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
