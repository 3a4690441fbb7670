package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rshade/flashgrid/internal/config"
	"github.com/rshade/flashgrid/internal/grid"
	"github.com/rshade/flashgrid/internal/tui"
)

var errNoData = errors.New("at least one --data file is required")

// gridFlags are shared by render and view.
type gridFlags struct {
	data    []string
	columns []string
}

// columnDefs resolves the columns to show. --columns selects and orders
// fields; configured columns keep their settings when selected. Without
// either, the columns are inferred from the rows.
func columnDefs(cfg *config.Config, selected []string, rows []grid.Row) []grid.ColumnDef {
	if len(selected) == 0 {
		return cfg.ColumnDefs(inferFields(rows))
	}

	configured := make(map[string]grid.ColumnDef, len(cfg.Columns))
	for _, def := range cfg.ColumnDefs(nil) {
		configured[def.Field] = def
	}

	defs := make([]grid.ColumnDef, 0, len(selected))
	for _, field := range selected {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if def, ok := configured[field]; ok {
			defs = append(defs, def)
			continue
		}
		defs = append(defs, grid.ColumnDef{Field: field, HeaderName: field})
	}
	return defs
}

// inferFields returns the top-level keys of rows, "id" first and the rest
// sorted.
func inferFields(rows []grid.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}

	fields := make([]string, 0, len(seen))
	hasID := false
	for k := range seen {
		if k == grid.DefaultIDField {
			hasID = true
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)
	if hasID {
		fields = append([]string{grid.DefaultIDField}, fields...)
	}
	return fields
}

// newController builds a grid controller from the config.
func newController(ctx context.Context, cfg *config.Config, columns []grid.ColumnDef, opts grid.Options) *grid.Controller {
	opts.Columns = columns
	opts.Renderers = tui.DefaultRenderers()
	opts.GetRowID = cfg.RowIDFunc()
	opts.DisableFlash = opts.DisableFlash || cfg.Grid.DisableFlash
	opts.DiffMode = cfg.DiffMode()
	return grid.NewController(ctx, opts)
}
