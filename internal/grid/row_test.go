package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValue(t *testing.T) {
	row := Row{
		"id":   7,
		"name": "disk",
		"disk": map[string]any{
			"size":   100.0,
			"labels": []any{"ssd", map[string]any{"zone": "b"}},
		},
		"legacy": map[any]any{"k": "v"},
		"nilval": nil,
	}

	tests := []struct {
		path string
		want any
	}{
		{path: "name", want: "disk"},
		{path: "disk.size", want: 100.0},
		{path: "disk.labels.0", want: "ssd"},
		{path: "disk.labels.1.zone", want: "b"},
		{path: "disk.labels.9", want: nil},
		{path: "disk.labels.x", want: nil},
		{path: "legacy.k", want: "v"},
		{path: "name.length", want: nil},
		{path: "nilval.x", want: nil},
		{path: "absent", want: nil},
		{path: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldValue(row, tt.path))
		})
	}

	assert.Nil(t, FieldValue(nil, "name"))
}

func TestResolveIdentity(t *testing.T) {
	row := Row{"id": "r1", "uuid": "u-1"}

	assert.Equal(t, "r1", ResolveIdentity(nil, row))
	assert.Equal(t, "u-1", ResolveIdentity(FieldRowID("uuid"), row))
	assert.Nil(t, ResolveIdentity(nil, Row{"name": "anonymous"}))
	assert.Nil(t, ResolveIdentity(func(RowParams) any { return nil }, row))
}

func TestRekey(t *testing.T) {
	rows := []Row{{"id": 1}, {"name": "no-id"}}

	keyed := Rekey("grid-1", nil, rows)

	assert.Len(t, keyed, 2)
	assert.Equal(t, "grid-1", keyed[0].Key)
	assert.Equal(t, 1, keyed[0].Identity)
	assert.Nil(t, keyed[1].Identity)
	assert.Equal(t, "int:1", keyed[0].RenderKey(0))
	assert.Equal(t, "#1", keyed[1].RenderKey(1))
}

func TestRekey_RepeatedIdentities(t *testing.T) {
	keyed := Rekey("g", nil, []Row{{"id": 1}, {"id": "1"}, {"id": 1}, {"name": "x"}, {"id": 1}})

	keys := make([]string, len(keyed))
	for i, kr := range keyed {
		keys[i] = kr.RenderKey(i)
	}
	assert.Equal(t, []string{"int:1", "string:1", "int:1@1", "#3", "int:1@2"}, keys)
}

func TestTakeSnapshot(t *testing.T) {
	rows := Rekey("g", FieldRowID("key"), []Row{
		{"id": 9, "key": "a", "v": map[string]any{"n": 1.0}},
	})

	snap := TakeSnapshot(rows, []ColumnDef{{Field: "v.n"}, {Field: "missing"}})

	assert.Equal(t, Snapshot{{
		Identity: "a",
		ID:       9,
		Values:   map[string]any{"v.n": 1.0, "missing": nil},
	}}, snap)
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual("a", "a"))
	assert.False(t, valuesEqual("1", 1))
	assert.True(t, valuesEqual(nil, nil))
	assert.True(t, valuesEqual([]any{1.0, "x"}, []any{1.0, "x"}))
	assert.False(t, valuesEqual(map[string]any{"a": 1}, map[string]any{"a": 2}))
	assert.False(t, valuesEqual(nil, map[string]any{}))
}

type boxed struct{ X any }

func TestValuesEqual_InterfaceFieldHoldingSlice(t *testing.T) {
	assert.False(t, hashable(boxed{X: []int{1}}))
	assert.True(t, hashable(boxed{X: 1}))
	assert.False(t, hashable(nil))

	assert.True(t, valuesEqual(boxed{X: []int{1}}, boxed{X: []int{1}}))
	assert.False(t, valuesEqual(boxed{X: []int{1}}, boxed{X: []int{2}}))
	assert.False(t, valuesEqual(boxed{X: []int{1}}, boxed{X: 1}))
}

func TestSnapshot_ByIdentitySkipsUncomparable(t *testing.T) {
	snap := Snapshot{
		{Identity: boxed{X: []string{"k"}}},
		{Identity: "a"},
	}

	var idx map[any]int
	assert.NotPanics(t, func() { idx = snap.byIdentity() })
	assert.Equal(t, map[any]int{"a": 1}, idx)
}

func TestParseDiffMode(t *testing.T) {
	m, err := ParseDiffMode("")
	assert.NoError(t, err)
	assert.Equal(t, DiffByIndex, m)

	m, err = ParseDiffMode("identity")
	assert.NoError(t, err)
	assert.Equal(t, DiffByIdentity, m)
	assert.Equal(t, "identity", m.String())

	_, err = ParseDiffMode("fuzzy")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", CellRendererFunc(func(CellParams) string { return "b" }))
	reg.Register("a", CellRendererFunc(func(CellParams) string { return "a" }))

	assert.Equal(t, []string{"a", "b"}, reg.Names())

	r, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "a", r.RenderCell(CellParams{}))

	reg.Register("a", nil)
	_, ok = reg.Lookup("a")
	assert.False(t, ok)

	var nilReg *Registry
	_, ok = nilReg.Lookup("a")
	assert.False(t, ok)
	assert.Nil(t, nilReg.Names())
}
