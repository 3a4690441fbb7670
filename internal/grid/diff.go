package grid

import "fmt"

// DiffMode selects how current rows are matched against the snapshot.
type DiffMode int

const (
	// DiffByIndex compares each row with the snapshot entry at the same
	// position, provided both carry the same identity.
	DiffByIndex DiffMode = iota
	// DiffByIdentity compares each row with the snapshot entry of the same
	// identity, wherever it was. Rows without identity never flash.
	DiffByIdentity
)

// String implements fmt.Stringer.
func (m DiffMode) String() string {
	switch m {
	case DiffByIndex:
		return "index"
	case DiffByIdentity:
		return "identity"
	default:
		return fmt.Sprintf("DiffMode(%d)", int(m))
	}
}

// ParseDiffMode maps "index" and "identity" to a DiffMode. The empty string
// is DiffByIndex.
func ParseDiffMode(s string) (DiffMode, error) {
	switch s {
	case "", "index":
		return DiffByIndex, nil
	case "identity":
		return DiffByIdentity, nil
	default:
		return DiffByIndex, fmt.Errorf("unknown diff mode %q", s)
	}
}

// differ answers "did this cell change" against a fixed snapshot.
type differ struct {
	mode     DiffMode
	snapshot Snapshot
	index    map[any]int
	present  bool
}

func newDiffer(mode DiffMode, snap Snapshot, present bool) differ {
	d := differ{mode: mode, snapshot: snap, present: present}
	if present && mode == DiffByIdentity {
		d.index = snap.byIdentity()
	}
	return d
}

func (d differ) entry(rowIndex int, row KeyedRow) (SnapshotEntry, bool) {
	if !d.present {
		return SnapshotEntry{}, false
	}

	if d.mode == DiffByIdentity {
		if !hashable(row.Identity) {
			return SnapshotEntry{}, false
		}
		i, ok := d.index[row.Identity]
		if !ok {
			return SnapshotEntry{}, false
		}
		return d.snapshot[i], true
	}

	if rowIndex < 0 || rowIndex >= len(d.snapshot) {
		return SnapshotEntry{}, false
	}
	e := d.snapshot[rowIndex]
	if !valuesEqual(e.Identity, row.Identity) {
		return SnapshotEntry{}, false
	}
	return e, true
}

func (d differ) changed(rowIndex int, row KeyedRow, column ColumnDef, value any) bool {
	e, ok := d.entry(rowIndex, row)
	if !ok {
		return false
	}
	return !valuesEqual(value, e.Values[column.Field])
}
