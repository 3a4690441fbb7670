package grid

import "reflect"

// SnapshotEntry is one flattened row of the previous cycle.
type SnapshotEntry struct {
	Identity any
	ID       any
	Values   map[string]any
}

// Snapshot is the previous cycle's rows in their original order.
type Snapshot []SnapshotEntry

// TakeSnapshot flattens rows by evaluating every column's field path.
func TakeSnapshot(rows []KeyedRow, columns []ColumnDef) Snapshot {
	snap := make(Snapshot, len(rows))
	for i, kr := range rows {
		values := make(map[string]any, len(columns))
		for _, c := range columns {
			values[c.Field] = FieldValue(kr.Row, c.Field)
		}
		snap[i] = SnapshotEntry{
			Identity: kr.Identity,
			ID:       kr.Row[DefaultIDField],
			Values:   values,
		}
	}
	return snap
}

// byIdentity indexes entries by identity. Entries with nil or non-comparable
// identities are left out; the first entry wins on duplicates.
func (s Snapshot) byIdentity() map[any]int {
	idx := make(map[any]int, len(s))
	for i, e := range s {
		if !hashable(e.Identity) {
			continue
		}
		if _, dup := idx[e.Identity]; !dup {
			idx[e.Identity] = i
		}
	}
	return idx
}

// hashable reports whether v can be compared with == and used as a map key.
// The check runs on the dynamic value, so a struct holding a slice in an
// interface field is not hashable.
func hashable(v any) bool {
	return v != nil && reflect.ValueOf(v).Comparable()
}

// valuesEqual compares decoded values. Maps and slices compare by contents.
func valuesEqual(a, b any) bool {
	if hashable(a) && hashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
