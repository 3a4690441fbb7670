package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultIDField is the row field used as identity when no RowIDFunc is set.
const DefaultIDField = "id"

// Row is a single record of arbitrary shape, typically decoded from JSON,
// YAML or msgpack.
type Row map[string]any

// RowParams is passed to caller-supplied row functions.
type RowParams struct {
	Data Row
}

// RowIDFunc resolves the identity of a row. Returned values should be
// comparable (strings, numbers) for identity-keyed diffing to work.
type RowIDFunc func(RowParams) any

// KeyedRow is a row paired with its resolved identity. Key is the token of the
// grid instance that produced it. Occurrence counts earlier rows of the same
// list whose identity renders the same way.
type KeyedRow struct {
	Key        string
	Identity   any
	Occurrence int
	Row        Row
}

// RenderKey returns a string that follows the row across updates: its typed
// identity when one exists, its position otherwise. Repeated identities get
// their occurrence appended so no two rows of one list share a key.
func (k KeyedRow) RenderKey(index int) string {
	if k.Identity == nil {
		return "#" + strconv.Itoa(index)
	}
	key := identityKey(k.Identity)
	if k.Occurrence > 0 {
		key += "@" + strconv.Itoa(k.Occurrence)
	}
	return key
}

// identityKey renders an identity with its type, so 1 and "1" differ.
func identityKey(id any) string {
	return fmt.Sprintf("%T:%v", id, id)
}

// ResolveIdentity returns fn's result for row, or row["id"] when fn is nil.
// A row with neither yields nil.
func ResolveIdentity(fn RowIDFunc, row Row) any {
	if fn != nil {
		return fn(RowParams{Data: row})
	}
	return row[DefaultIDField]
}

// FieldRowID builds a RowIDFunc reading a dotted field path.
func FieldRowID(path string) RowIDFunc {
	return func(p RowParams) any {
		return FieldValue(p.Data, path)
	}
}

// Rekey pairs every row with its identity under key.
func Rekey(key string, fn RowIDFunc, rows []Row) []KeyedRow {
	keyed := make([]KeyedRow, len(rows))
	seen := make(map[string]int)
	for i, row := range rows {
		kr := KeyedRow{
			Key:      key,
			Identity: ResolveIdentity(fn, row),
			Row:      row,
		}
		if kr.Identity != nil {
			base := identityKey(kr.Identity)
			kr.Occurrence = seen[base]
			seen[base]++
		}
		keyed[i] = kr
	}
	return keyed
}

// FieldValue resolves a dot-separated path against row. Map segments are
// looked up by key; numeric segments index into slices. Any segment that does
// not resolve yields nil.
func FieldValue(row Row, path string) any {
	if row == nil || path == "" {
		return nil
	}

	var cur any = map[string]any(row)
	for _, seg := range strings.Split(path, ".") {
		cur = lookup(cur, seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func lookup(v any, seg string) any {
	switch node := v.(type) {
	case map[string]any:
		return node[seg]
	case Row:
		return node[seg]
	case map[any]any:
		return node[seg]
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(node) {
			return nil
		}
		return node[i]
	default:
		return nil
	}
}
