// Package grid holds the state behind a flashgrid table: keyed rows, the
// previous-cycle snapshot used for change detection, the cell renderer
// registry and the event API handed to the embedding program.
//
// A Controller is fed complete row lists through SetRows. Each call rekeys the
// rows, snapshots the rows of the previous call (unless flashing is disabled)
// and notifies listeners. Presentation code then asks the controller for cell
// views; a cell view reports Flash when its value differs from the snapshot.
//
// Change detection is positional by default. Rows are compared against the
// snapshot entry at the same index and only when both carry the same identity,
// so reordering rows between two updates can report changes on cells whose
// values did not change (or miss ones that did). DiffByIdentity trades a
// lookup map for correctness under reordering.
//
// Nothing in this package returns an error. Missing callbacks are skipped,
// unresolvable field paths produce nil values and unknown renderer names fall
// back to plain formatting.
package grid
