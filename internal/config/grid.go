package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/flashgrid/internal/flash"
	"github.com/rshade/flashgrid/internal/grid"
)

// ColumnDefs converts the configured columns. Without configured columns,
// fallback names the fields to show, in order.
func (c *Config) ColumnDefs(fallback []string) []grid.ColumnDef {
	if len(c.Columns) == 0 {
		defs := make([]grid.ColumnDef, len(fallback))
		for i, field := range fallback {
			defs[i] = grid.ColumnDef{Field: field, HeaderName: field}
		}
		return defs
	}

	defs := make([]grid.ColumnDef, len(c.Columns))
	for i, col := range c.Columns {
		def := grid.ColumnDef{
			Field:          col.Field,
			HeaderName:     col.Header,
			HeaderTemplate: col.Template,
			CellRenderer:   col.Renderer,
			Width:          col.Width,
		}
		if def.HeaderName == "" {
			def.HeaderName = col.Field
		}
		if col.Format != "" {
			def.ValueFormatter = printfFormatter(col.Format)
		}
		if len(col.Classes) > 0 {
			def.CellClass = classifier(col.Field, col.Classes)
		}
		defs[i] = def
	}
	return defs
}

// RowIDFunc returns the identity resolver for grid.row_id_field, or nil when
// rows should use their "id" field.
func (c *Config) RowIDFunc() grid.RowIDFunc {
	if c.Grid.RowIDField == "" {
		return nil
	}
	return grid.FieldRowID(c.Grid.RowIDField)
}

// DiffMode returns the parsed grid.diff_mode. Validate rejects unknown values.
func (c *Config) DiffMode() grid.DiffMode {
	mode, err := grid.ParseDiffMode(c.Grid.DiffMode)
	if err != nil {
		return grid.DiffByIndex
	}
	return mode
}

// Timing returns the configured highlight delays.
func (c *Config) Timing() flash.Timing {
	return flash.Timing{
		Lead: time.Duration(c.Flash.LeadMS) * time.Millisecond,
		Hold: time.Duration(c.Flash.HoldMS) * time.Millisecond,
	}
}

var borders = map[string]lipgloss.Border{
	"normal":  lipgloss.NormalBorder(),
	"rounded": lipgloss.RoundedBorder(),
	"thick":   lipgloss.ThickBorder(),
	"double":  lipgloss.DoubleBorder(),
	"hidden":  lipgloss.HiddenBorder(),
}

// Container returns the style of the box around the grid. An empty section
// yields the zero style, which draws nothing.
func (c *Config) Container() lipgloss.Style {
	cc := c.Grid.Container
	style := lipgloss.NewStyle()
	if b, ok := borders[cc.Border]; ok {
		style = style.Border(b)
		if cc.BorderColor != "" {
			style = style.BorderForeground(lipgloss.Color(cc.BorderColor))
		}
	}
	if len(cc.Padding) > 0 {
		style = style.Padding(cc.Padding...)
	}
	return style
}

func (cc ContainerConfig) validate() []error {
	var errs []error
	switch cc.Border {
	case "", "none":
	default:
		if _, ok := borders[cc.Border]; !ok {
			errs = append(errs, fmt.Errorf("grid.container.border %q: want none, normal, rounded, thick, double or hidden", cc.Border))
		}
	}
	switch len(cc.Padding) {
	case 0, 1, 2, 4:
	default:
		errs = append(errs, fmt.Errorf("grid.container.padding takes 1, 2 or 4 values, got %d", len(cc.Padding)))
	}
	for _, p := range cc.Padding {
		if p < 0 {
			errs = append(errs, fmt.Errorf("grid.container.padding must be >= 0, got %d", p))
			break
		}
	}
	return errs
}

func printfFormatter(format string) func(grid.ValueParams) string {
	return func(p grid.ValueParams) string {
		if p.Value == nil {
			return ""
		}
		return fmt.Sprintf(format, p.Value)
	}
}

func classifier(field string, rules []ClassRule) func(grid.RowParams) string {
	return func(p grid.RowParams) string {
		value := grid.FieldValue(p.Data, field)
		text := grid.FormatValue(value)
		num, numErr := strconv.ParseFloat(text, 64)

		for _, rule := range rules {
			switch {
			case rule.Equals != nil:
				if text == *rule.Equals {
					return rule.Class
				}
			case rule.Above != nil:
				if numErr == nil && num > *rule.Above {
					return rule.Class
				}
			case rule.Below != nil:
				if numErr == nil && num < *rule.Below {
					return rule.Class
				}
			}
		}
		return ""
	}
}
