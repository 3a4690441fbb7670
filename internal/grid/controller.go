package grid

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rshade/flashgrid/internal/logging"
)

// ReadyEvent is passed to Options.OnReady.
type ReadyEvent struct {
	API *API
}

// DataRowsChangeParams is passed to Options.OnDataRowsChange.
type DataRowsChangeParams struct {
	API  *API
	Data []Row
}

// CellClickedParams is passed to Options.OnCellClicked.
type CellClickedParams struct {
	Data      Row
	Value     any
	ColumnDef ColumnDef
}

// Options configures a Controller.
type Options struct {
	Columns      []ColumnDef
	Renderers    *Registry
	GetRowID     RowIDFunc
	DisableFlash bool
	DiffMode     DiffMode

	OnReady          func(ReadyEvent)
	OnDataRowsChange func(DataRowsChangeParams)
	OnCellClicked    func(CellClickedParams)
}

// CellView is everything the presentation layer needs to draw one cell.
type CellView struct {
	Key   string
	Value any
	Text  string
	Class string
	Flash bool
}

// CellRef locates a cell in the current rows.
type CellRef struct {
	Row int
	Col int
	Key string
}

// Controller owns the rows of one grid instance and computes change flags.
// It is not safe for concurrent use; the API it exposes is.
type Controller struct {
	opts   Options
	key    string
	api    *API
	logger zerolog.Logger

	rows     []KeyedRow
	snapshot Snapshot
	diff     differ
}

// NewController builds a controller and calls opts.OnReady exactly once with
// its API.
func NewController(ctx context.Context, opts Options) *Controller {
	key := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()

	c := &Controller{
		opts:   opts,
		key:    key,
		api:    newAPI(key),
		logger: logging.ComponentLogger(*logging.FromContext(ctx), "grid").With().Str("grid_id", key).Logger(),
	}
	c.diff = newDiffer(opts.DiffMode, nil, false)

	if opts.OnReady != nil {
		opts.OnReady(ReadyEvent{API: c.api})
	}
	return c
}

// API returns the controller's event and scroll API.
func (c *Controller) API() *API {
	return c.api
}

// Key returns the identity token of this grid instance.
func (c *Controller) Key() string {
	return c.key
}

// Columns returns the current column definitions.
func (c *Controller) Columns() []ColumnDef {
	return c.opts.Columns
}

// Rows returns the current keyed rows.
func (c *Controller) Rows() []KeyedRow {
	return c.rows
}

// Visible reports whether there is anything to draw.
func (c *Controller) Visible() bool {
	return len(c.rows) > 0 && len(c.opts.Columns) > 0
}

// ResolveRowIdentity resolves row's identity with the configured RowIDFunc,
// falling back to its "id" field.
func (c *Controller) ResolveRowIdentity(row Row) any {
	return ResolveIdentity(c.opts.GetRowID, row)
}

// SetRows applies a new row list. The rows held before the call become the
// snapshot that following Cell calls compare against. Non-empty lists are
// published on the API, dispatched as EventDataRowsChange and then passed to
// OnDataRowsChange, in that order.
func (c *Controller) SetRows(rows []Row) {
	prev := c.rows
	c.rows = Rekey(c.key, c.opts.GetRowID, rows)

	if !c.opts.DisableFlash {
		c.snapshot = TakeSnapshot(prev, c.opts.Columns)
		c.diff = newDiffer(c.opts.DiffMode, c.snapshot, true)
	}

	c.logger.Debug().
		Int("rows", len(c.rows)).
		Int("snapshot", len(c.snapshot)).
		Bool("flash_disabled", c.opts.DisableFlash).
		Msg("rows applied")

	if len(rows) == 0 {
		return
	}

	c.api.setRows(rows)
	if !c.api.DispatchEvent(EventDataRowsChange, DataRowsChangeEvent{Data: rows}) {
		c.logger.Trace().Str("event", EventDataRowsChange).Msg("no listener")
	}
	if c.opts.OnDataRowsChange != nil {
		c.opts.OnDataRowsChange(DataRowsChangeParams{API: c.api, Data: rows})
	}
}

// SetColumns replaces the column definitions. The snapshot is retaken from
// the current rows so a column change alone never flashes.
func (c *Controller) SetColumns(columns []ColumnDef) {
	c.opts.Columns = columns
	if !c.opts.DisableFlash {
		c.snapshot = TakeSnapshot(c.rows, columns)
		c.diff = newDiffer(c.opts.DiffMode, c.snapshot, true)
	}
}

// DetectChange reports whether value differs from what the snapshot recorded
// for the same row and column. It is always false when flashing is disabled
// or before the first snapshot.
func (c *Controller) DetectChange(rowIndex int, row KeyedRow, column ColumnDef, value any) bool {
	if c.opts.DisableFlash {
		return false
	}
	return c.diff.changed(rowIndex, row, column, value)
}

// Cell evaluates the cell at (rowIndex, colIndex). Out of range coordinates
// yield the zero CellView.
func (c *Controller) Cell(rowIndex, colIndex int) CellView {
	if rowIndex < 0 || rowIndex >= len(c.rows) || colIndex < 0 || colIndex >= len(c.opts.Columns) {
		return CellView{}
	}
	kr := c.rows[rowIndex]
	col := c.opts.Columns[colIndex]
	value := FieldValue(kr.Row, col.Field)

	view := CellView{
		Key:   cellKey(kr, rowIndex, col, colIndex),
		Value: value,
		Text:  c.cellText(kr.Row, col, value),
		Flash: c.DetectChange(rowIndex, kr, col, value),
	}
	if col.CellClass != nil {
		view.Class = col.CellClass(RowParams{Data: kr.Row})
	}
	return view
}

// ChangedCells returns every cell whose value changed in the last update.
func (c *Controller) ChangedCells() []CellRef {
	if c.opts.DisableFlash {
		return nil
	}

	var refs []CellRef
	for i, kr := range c.rows {
		for j, col := range c.opts.Columns {
			if c.DetectChange(i, kr, col, FieldValue(kr.Row, col.Field)) {
				refs = append(refs, CellRef{Row: i, Col: j, Key: cellKey(kr, i, col, j)})
			}
		}
	}
	return refs
}

// CellClicked forwards a click on (rowIndex, colIndex) to OnCellClicked.
func (c *Controller) CellClicked(rowIndex, colIndex int) {
	if c.opts.OnCellClicked == nil {
		return
	}
	if rowIndex < 0 || rowIndex >= len(c.rows) || colIndex < 0 || colIndex >= len(c.opts.Columns) {
		return
	}
	kr := c.rows[rowIndex]
	col := c.opts.Columns[colIndex]
	c.opts.OnCellClicked(CellClickedParams{
		Data:      kr.Row,
		Value:     FieldValue(kr.Row, col.Field),
		ColumnDef: col,
	})
}

// Close clears every event listener.
func (c *Controller) Close() {
	c.api.RemoveEventListeners()
}

func (c *Controller) cellText(row Row, col ColumnDef, value any) string {
	if col.CellRenderer != "" {
		if r, ok := c.opts.Renderers.Lookup(col.CellRenderer); ok {
			return r.RenderCell(CellParams{Data: row, Value: value, ColumnDef: col})
		}
		c.logger.Debug().Str("renderer", col.CellRenderer).Str("field", col.Field).Msg("unknown cell renderer")
	}
	if col.ValueFormatter != nil {
		return col.ValueFormatter(ValueParams{Data: row, ColumnDef: col, Value: value})
	}
	return FormatValue(value)
}

func cellKey(kr KeyedRow, rowIndex int, col ColumnDef, colIndex int) string {
	return kr.RenderKey(rowIndex) + "/" + col.Field + "/" + strconv.Itoa(colIndex)
}

// FormatValue renders a raw value as plain text. Nil renders empty and floats
// never use exponent notation.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ScrollOffset returns the vertical offset, in rows, that brings row index into
// a viewport of the given height. The offset is reset to zero and moved only
// when the row lies below the visible area, in which case the row is placed
// near the middle. ok is false when index does not name a row.
func ScrollOffset(index, viewportHeight, totalRows int) (offset int, ok bool) {
	if index < 0 || index >= totalRows {
		return 0, false
	}
	if viewportHeight <= 0 || index < viewportHeight {
		return 0, true
	}

	offset = index - viewportHeight/2
	if maxOffset := totalRows - viewportHeight; offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset, true
}
