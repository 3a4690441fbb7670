package grid

// ValueParams is passed to value formatters.
type ValueParams struct {
	Data      Row
	ColumnDef ColumnDef
	Value     any
}

// ColumnDef describes how one column extracts, formats and renders its values.
type ColumnDef struct {
	// Field is a dot-separated path into the row.
	Field string
	// HeaderName is the header label.
	HeaderName string
	// HeaderTemplate replaces HeaderName when set.
	HeaderTemplate string
	// CellRenderer names a renderer in the controller's Registry.
	CellRenderer string
	// ValueFormatter turns a raw value into display text.
	ValueFormatter func(ValueParams) string
	// CellClass returns a class name the presentation layer maps to a style.
	CellClass func(RowParams) string
	// Width is a fixed display width. Zero means size to content.
	Width int
}

// Header returns the header text: the template, the header name, or "none".
func (c ColumnDef) Header() string {
	if c.HeaderTemplate != "" {
		return c.HeaderTemplate
	}
	if c.HeaderName != "" {
		return c.HeaderName
	}
	return "none"
}
