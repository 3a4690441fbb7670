package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueColumns() []ColumnDef {
	return []ColumnDef{{Field: "v", HeaderName: "Value"}}
}

func flashGrid(t *testing.T, c *Controller) [][]bool {
	t.Helper()
	out := make([][]bool, len(c.Rows()))
	for i := range c.Rows() {
		out[i] = make([]bool, len(c.Columns()))
		for j := range c.Columns() {
			out[i][j] = c.Cell(i, j).Flash
		}
	}
	return out
}

// TestController_SingleChangedCellFlashes covers the two-row scenario where
// only the second row's value changes.
func TestController_SingleChangedCellFlashes(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})

	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": 2, "v": "b"}})
	assert.Equal(t, [][]bool{{false}, {false}}, flashGrid(t, c), "first update never flashes")

	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": 2, "v": "c"}})
	assert.Equal(t, [][]bool{{false}, {true}}, flashGrid(t, c))

	refs := c.ChangedCells()
	require.Len(t, refs, 1)
	assert.Equal(t, 1, refs[0].Row)
	assert.Equal(t, 0, refs[0].Col)
	assert.Equal(t, "int:2/v/0", refs[0].Key)
}

// TestController_ExactlyOneFlash changes one field among many and expects
// exactly that cell to flash.
func TestController_ExactlyOneFlash(t *testing.T) {
	cols := []ColumnDef{{Field: "name"}, {Field: "stats.cpu"}, {Field: "stats.mem"}}
	c := NewController(context.Background(), Options{Columns: cols})

	rows := func(cpu float64) []Row {
		return []Row{
			{"id": "a", "name": "alpha", "stats": map[string]any{"cpu": 0.5, "mem": 10.0}},
			{"id": "b", "name": "beta", "stats": map[string]any{"cpu": cpu, "mem": 20.0}},
			{"id": "c", "name": "gamma", "stats": map[string]any{"cpu": 0.1, "mem": 30.0}},
		}
	}

	c.SetRows(rows(0.2))
	c.SetRows(rows(0.9))

	var flashing []CellRef
	for i := range c.Rows() {
		for j := range cols {
			if c.Cell(i, j).Flash {
				flashing = append(flashing, CellRef{Row: i, Col: j})
			}
		}
	}
	assert.Equal(t, []CellRef{{Row: 1, Col: 1}}, flashing)
}

func TestController_DisableFlash(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns(), DisableFlash: true})

	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": 2, "v": "b"}})
	c.SetRows([]Row{{"id": 1, "v": "x"}, {"id": 2, "v": "y"}})
	c.SetRows([]Row{{"id": 1, "v": "z"}})

	assert.Equal(t, [][]bool{{false}}, flashGrid(t, c))
	assert.Empty(t, c.ChangedCells())
	assert.False(t, c.DetectChange(0, c.Rows()[0], c.Columns()[0], "other"))
}

// TestController_ReorderIndexModeLimitation documents that positional diffing
// flashes unchanged cells when rows without an identity resolver are swapped.
func TestController_ReorderIndexModeLimitation(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})

	c.SetRows([]Row{{"v": "a"}, {"v": "b"}})
	c.SetRows([]Row{{"v": "b"}, {"v": "a"}})

	assert.Equal(t, [][]bool{{true}, {true}}, flashGrid(t, c),
		"rows without identity are compared by position, so a swap looks like two edits")
}

// TestController_ReorderWithIdentity shows that identities suppress positional
// comparison in index mode and restore it in identity mode.
func TestController_ReorderWithIdentity(t *testing.T) {
	before := []Row{{"id": 1, "v": "a"}, {"id": 2, "v": "b"}}
	after := []Row{{"id": 2, "v": "B"}, {"id": 1, "v": "a"}}

	t.Run("index mode misses the change", func(t *testing.T) {
		c := NewController(context.Background(), Options{Columns: valueColumns()})
		c.SetRows(before)
		c.SetRows(after)
		assert.Equal(t, [][]bool{{false}, {false}}, flashGrid(t, c))
	})

	t.Run("identity mode follows the row", func(t *testing.T) {
		c := NewController(context.Background(), Options{Columns: valueColumns(), DiffMode: DiffByIdentity})
		c.SetRows(before)
		c.SetRows(after)
		assert.Equal(t, [][]bool{{true}, {false}}, flashGrid(t, c))
	})
}

func TestController_CustomRowID(t *testing.T) {
	c := NewController(context.Background(), Options{
		Columns:  valueColumns(),
		GetRowID: FieldRowID("meta.key"),
		DiffMode: DiffByIdentity,
	})

	c.SetRows([]Row{
		{"meta": map[string]any{"key": "k1"}, "v": 1.0},
		{"meta": map[string]any{"key": "k2"}, "v": 2.0},
	})
	c.SetRows([]Row{
		{"meta": map[string]any{"key": "k2"}, "v": 2.0},
		{"meta": map[string]any{"key": "k1"}, "v": 5.0},
	})

	assert.Equal(t, "k2", c.ResolveRowIdentity(c.Rows()[0].Row))
	assert.Equal(t, [][]bool{{false}, {true}}, flashGrid(t, c))
}

func TestController_InterfaceValuesHoldingSlices(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})

	require.NotPanics(t, func() {
		c.SetRows([]Row{{"id": 1, "v": boxed{X: []int{1}}}})
		c.SetRows([]Row{{"id": 1, "v": boxed{X: []int{2}}}})
	})
	assert.Equal(t, [][]bool{{true}}, flashGrid(t, c))

	c.SetRows([]Row{{"id": 1, "v": boxed{X: []int{2}}}})
	assert.Equal(t, [][]bool{{false}}, flashGrid(t, c))
}

func TestController_UncomparableIdentityNeverFlashes(t *testing.T) {
	c := NewController(context.Background(), Options{
		Columns:  valueColumns(),
		GetRowID: func(RowParams) any { return boxed{X: []string{"k"}} },
		DiffMode: DiffByIdentity,
	})

	require.NotPanics(t, func() {
		c.SetRows([]Row{{"v": "a"}})
		c.SetRows([]Row{{"v": "b"}})
	})
	assert.Equal(t, [][]bool{{false}}, flashGrid(t, c))
	assert.Empty(t, c.ChangedCells())
}

func TestController_RepeatedIdentitiesGetDistinctKeys(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})

	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": 1, "v": "b"}})
	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": 1, "v": "c"}})

	assert.Equal(t, [][]bool{{false}, {true}}, flashGrid(t, c))
	assert.Equal(t, []CellRef{{Row: 1, Col: 0, Key: "int:1@1/v/0"}}, c.ChangedCells())
	assert.NotEqual(t, c.Cell(0, 0).Key, c.Cell(1, 0).Key)
}

func TestController_IdentityTypeIsPartOfKey(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})
	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": "1", "v": "a"}})

	assert.Equal(t, "int:1/v/0", c.Cell(0, 0).Key)
	assert.Equal(t, "string:1/v/0", c.Cell(1, 0).Key)
}

func TestController_GrowingRowListOnlyComparesOverlap(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})

	c.SetRows([]Row{{"id": 1, "v": "a"}})
	c.SetRows([]Row{{"id": 1, "v": "a"}, {"id": 2, "v": "b"}})

	assert.Equal(t, [][]bool{{false}, {false}}, flashGrid(t, c))
}

func TestController_SetColumnsDoesNotFlash(t *testing.T) {
	c := NewController(context.Background(), Options{Columns: valueColumns()})
	c.SetRows([]Row{{"id": 1, "v": "a", "w": "x"}})
	c.SetRows([]Row{{"id": 1, "v": "b", "w": "x"}})
	require.True(t, c.Cell(0, 0).Flash)

	c.SetColumns([]ColumnDef{{Field: "v"}, {Field: "w"}})
	assert.Equal(t, [][]bool{{false, false}}, flashGrid(t, c))
}

func TestController_OnReadyCalledOnce(t *testing.T) {
	var calls int
	var got *API
	c := NewController(context.Background(), Options{
		OnReady: func(e ReadyEvent) {
			calls++
			got = e.API
		},
	})

	c.SetRows([]Row{{"id": 1}})
	c.SetRows([]Row{{"id": 2}})

	assert.Equal(t, 1, calls)
	assert.Same(t, c.API(), got)
	assert.Equal(t, c.Key(), got.ID())
}

func TestController_RowsChangeOrder(t *testing.T) {
	var order []string
	var external DataRowsChangeParams

	c := NewController(context.Background(), Options{
		Columns: valueColumns(),
		OnReady: func(e ReadyEvent) {
			e.API.AddEventListener(EventDataRowsChange, func(params any) {
				order = append(order, "dispatch")
				ev, ok := params.(DataRowsChangeEvent)
				require.True(t, ok)
				assert.Len(t, ev.Data, 1)
			})
		},
		OnDataRowsChange: func(p DataRowsChangeParams) {
			order = append(order, "callback")
			external = p
		},
	})

	rows := []Row{{"id": 1, "v": "a"}}
	c.SetRows(rows)

	assert.Equal(t, []string{"dispatch", "callback"}, order)
	assert.Same(t, c.API(), external.API)
	assert.Equal(t, rows, external.Data)
	assert.Equal(t, rows, c.API().Rows())
}

func TestController_EmptyRowsDoNotNotify(t *testing.T) {
	var calls int
	c := NewController(context.Background(), Options{
		Columns:          valueColumns(),
		OnDataRowsChange: func(DataRowsChangeParams) { calls++ },
	})

	c.SetRows([]Row{{"id": 1, "v": "a"}})
	c.SetRows(nil)

	assert.Equal(t, 1, calls)
	assert.Len(t, c.API().Rows(), 1, "api keeps the last non-empty rows")
	assert.False(t, c.Visible())
}

func TestController_Visible(t *testing.T) {
	tests := []struct {
		name    string
		columns []ColumnDef
		rows    []Row
		want    bool
	}{
		{name: "no rows", columns: valueColumns(), rows: []Row{}, want: false},
		{name: "no columns", columns: nil, rows: []Row{{"id": 1}}, want: false},
		{name: "rows and columns", columns: valueColumns(), rows: []Row{{"id": 1}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(context.Background(), Options{Columns: tt.columns})
			c.SetRows(tt.rows)
			assert.Equal(t, tt.want, c.Visible())
		})
	}
}

func TestController_CellText(t *testing.T) {
	reg := NewRegistry()
	reg.Register("upper", CellRendererFunc(func(p CellParams) string {
		return "<" + FormatValue(p.Value) + ">"
	}))

	cols := []ColumnDef{
		{Field: "name", CellRenderer: "upper"},
		{Field: "price", ValueFormatter: func(p ValueParams) string { return "$" + FormatValue(p.Value) }},
		{Field: "qty"},
		{Field: "missing.path"},
		{Field: "name", CellRenderer: "nope"},
		{Field: "tags.1"},
	}
	c := NewController(context.Background(), Options{Columns: cols, Renderers: reg})
	c.SetRows([]Row{{"id": 1, "name": "bolt", "price": 2.5, "qty": 1500000.0, "tags": []any{"x", "y"}}})

	got := make([]string, len(cols))
	for j := range cols {
		got[j] = c.Cell(0, j).Text
	}
	assert.Equal(t, []string{"<bolt>", "$2.5", "1500000", "", "bolt", "y"}, got)
}

func TestController_CellClass(t *testing.T) {
	cols := []ColumnDef{{
		Field: "status",
		CellClass: func(p RowParams) string {
			if p.Data["status"] == "down" {
				return "danger"
			}
			return ""
		},
	}}
	c := NewController(context.Background(), Options{Columns: cols})
	c.SetRows([]Row{{"id": 1, "status": "up"}, {"id": 2, "status": "down"}})

	assert.Empty(t, c.Cell(0, 0).Class)
	assert.Equal(t, "danger", c.Cell(1, 0).Class)
	assert.Equal(t, CellView{}, c.Cell(5, 0))
}

func TestController_CellClicked(t *testing.T) {
	var got []CellClickedParams
	c := NewController(context.Background(), Options{
		Columns:       valueColumns(),
		OnCellClicked: func(p CellClickedParams) { got = append(got, p) },
	})
	c.SetRows([]Row{{"id": 1, "v": "a"}})

	c.CellClicked(0, 0)
	c.CellClicked(3, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Value)
	assert.Equal(t, "v", got[0].ColumnDef.Field)
	assert.Equal(t, Row{"id": 1, "v": "a"}, got[0].Data)
}

func TestController_CloseClearsListeners(t *testing.T) {
	c := NewController(context.Background(), Options{})
	var calls int
	c.API().AddEventListener("x", func(any) { calls++ })

	c.Close()

	assert.False(t, c.API().DispatchEvent("x", nil))
	assert.Zero(t, calls)
	assert.Empty(t, c.API().Events())
}

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		height     int
		total      int
		wantOffset int
		wantOK     bool
	}{
		{name: "negative index", index: -1, height: 10, total: 50, wantOffset: 0, wantOK: false},
		{name: "index past end", index: 50, height: 10, total: 50, wantOffset: 0, wantOK: false},
		{name: "already visible", index: 3, height: 10, total: 50, wantOffset: 0, wantOK: true},
		{name: "below viewport centers", index: 20, height: 10, total: 50, wantOffset: 15, wantOK: true},
		{name: "near end clamps", index: 48, height: 10, total: 50, wantOffset: 40, wantOK: true},
		{name: "zero height", index: 5, height: 0, total: 50, wantOffset: 0, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, ok := ScrollOffset(tt.index, tt.height, tt.total)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
