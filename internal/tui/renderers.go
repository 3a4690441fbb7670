package tui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/flashgrid/internal/grid"
)

// Names of the built-in cell renderers.
const (
	RendererNumber   = "number"
	RendererCurrency = "currency"
	RendererPercent  = "percent"
	RendererBool     = "bool"
	RendererBadge    = "badge"
)

// printer is the locale-aware printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// DefaultRenderers returns a registry holding the built-in renderers.
func DefaultRenderers() *grid.Registry {
	reg := grid.NewRegistry()
	reg.Register(RendererNumber, NumberRenderer{Precision: -1})
	reg.Register(RendererCurrency, CurrencyRenderer{Symbol: "$"})
	reg.Register(RendererPercent, PercentRenderer{Precision: 1})
	reg.Register(RendererBool, BoolRenderer{True: "✓", False: "✗"})
	reg.Register(RendererBadge, BadgeRenderer{})
	return reg
}

// NumberRenderer prints numbers with thousand separators. A negative
// Precision keeps the decimals the value has.
type NumberRenderer struct {
	Precision int
}

// RenderCell implements grid.CellRenderer.
func (r NumberRenderer) RenderCell(p grid.CellParams) string {
	f, ok := toFloat(p.Value)
	if !ok {
		return grid.FormatValue(p.Value)
	}
	return formatNumber(f, r.Precision)
}

// CurrencyRenderer prints a number with two decimals behind a symbol.
type CurrencyRenderer struct {
	Symbol string
}

// RenderCell implements grid.CellRenderer.
func (r CurrencyRenderer) RenderCell(p grid.CellParams) string {
	f, ok := toFloat(p.Value)
	if !ok {
		return grid.FormatValue(p.Value)
	}
	if f < 0 {
		return "-" + r.Symbol + formatNumber(-f, 2)
	}
	return r.Symbol + formatNumber(f, 2)
}

// PercentRenderer prints a ratio or percentage with a % sign. Values within
// [-1, 1] are treated as ratios.
type PercentRenderer struct {
	Precision int
}

// RenderCell implements grid.CellRenderer.
func (r PercentRenderer) RenderCell(p grid.CellParams) string {
	f, ok := toFloat(p.Value)
	if !ok {
		return grid.FormatValue(p.Value)
	}
	if math.Abs(f) <= 1 {
		f *= 100
	}
	return strconv.FormatFloat(f, 'f', r.Precision, 64) + "%"
}

// BoolRenderer prints marks for boolean values.
type BoolRenderer struct {
	True  string
	False string
}

// RenderCell implements grid.CellRenderer.
func (r BoolRenderer) RenderCell(p grid.CellParams) string {
	switch v := p.Value.(type) {
	case bool:
		if v {
			return r.True
		}
		return r.False
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return r.RenderCell(grid.CellParams{Data: p.Data, Value: b, ColumnDef: p.ColumnDef})
		}
	}
	return grid.FormatValue(p.Value)
}

// BadgeRenderer draws the value as a bracketed, upper-cased label whose
// color is picked from Colors by value, falling back to ColorInfo.
type BadgeRenderer struct {
	Colors map[string]lipgloss.Color
}

// RenderCell implements grid.CellRenderer.
func (r BadgeRenderer) RenderCell(p grid.CellParams) string {
	text := grid.FormatValue(p.Value)
	if text == "" {
		return ""
	}
	color, ok := r.Colors[text]
	if !ok {
		color = ColorInfo
	}
	return lipgloss.NewStyle().Foreground(color).Render("[" + strings.ToUpper(text) + "]")
}

// formatNumber formats f with thousand separators in the integer part. A
// negative precision keeps the shortest exact decimals.
func formatNumber(f float64, precision int) string {
	s := strconv.FormatFloat(f, 'f', precision, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return strconv.FormatFloat(f, 'f', precision, 64)
	}

	out := printer.Sprintf("%d", n)
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
