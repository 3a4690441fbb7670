package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorHeader   = lipgloss.Color("99")
	ColorSubtle   = lipgloss.Color("241")
	ColorFlashBg  = lipgloss.Color("220")
	ColorFlashFg  = lipgloss.Color("16")
	ColorSelected = lipgloss.Color("57")
	ColorDanger   = lipgloss.Color("196")
	ColorWarning  = lipgloss.Color("214")
	ColorSuccess  = lipgloss.Color("42")
	ColorInfo     = lipgloss.Color("39")
)

// Theme holds every style the grid draws with. CellClasses maps the class
// names returned by a column's CellClass to a style. Container wraps the
// whole grid; its zero value draws no box.
type Theme struct {
	Header      lipgloss.Style
	Rule        lipgloss.Style
	Cell        lipgloss.Style
	Selected    lipgloss.Style
	Flash       lipgloss.Style
	Status      lipgloss.Style
	Container   lipgloss.Style
	CellClasses map[string]lipgloss.Style
}

// DefaultTheme is the styled terminal theme.
func DefaultTheme() Theme {
	return Theme{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(ColorHeader),
		Rule:     lipgloss.NewStyle().Foreground(ColorSubtle),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Background(ColorSelected).Bold(true),
		Flash:    lipgloss.NewStyle().Background(ColorFlashBg).Foreground(ColorFlashFg),
		Status:   lipgloss.NewStyle().Foreground(ColorSubtle),
		CellClasses: map[string]lipgloss.Style{
			"danger":  lipgloss.NewStyle().Foreground(ColorDanger),
			"warning": lipgloss.NewStyle().Foreground(ColorWarning),
			"success": lipgloss.NewStyle().Foreground(ColorSuccess),
			"info":    lipgloss.NewStyle().Foreground(ColorInfo),
			"muted":   lipgloss.NewStyle().Foreground(ColorSubtle),
			"bold":    lipgloss.NewStyle().Bold(true),
		},
	}
}

// PlainTheme draws without any styling, for pipes and files.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header:      plain,
		Rule:        plain,
		Cell:        plain,
		Selected:    plain,
		Flash:       plain,
		Status:      plain,
		CellClasses: map[string]lipgloss.Style{},
	}
}

// classStyle returns the style for a cell class and whether one is defined.
func (t Theme) classStyle(class string) (lipgloss.Style, bool) {
	if class == "" {
		return lipgloss.Style{}, false
	}
	s, ok := t.CellClasses[class]
	return s, ok
}
