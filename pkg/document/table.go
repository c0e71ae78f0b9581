package document

import "strings"

// Table is a grid of rows. Rows may be ragged in the source; formatting pads
// them.
type Table struct {
	Rows   []*Row
	Layout *TableLayout // nil until the table has been formatted
}

// Row is a table row.
type Row struct {
	Cells     []*Cell
	Header    bool    // repeats as a header row
	MinHeight float64 // points; zero means auto
}

// Cell is a table cell holding one or more paragraphs.
type Cell struct {
	Paragraphs []*Paragraph
	Span       int    // grid columns covered; values below 1 count as 1
	Shading    string // fill color "RRGGBB"; empty means none
	Borders    CellBorders
	Padding    Padding
}

// Border is one edge of a cell. A zero Border means "no border".
type Border struct {
	Width float64 // points
	Color string  // "RRGGBB"
}

// IsNone reports whether the border is not drawn.
func (b Border) IsNone() bool { return b.Width <= 0 }

// CellBorders are the four edges of a cell.
type CellBorders struct {
	Top, Bottom, Left, Right Border
}

// Padding is cell margin in points.
type Padding struct {
	Top, Bottom, Left, Right float64
}

// TableLayout is the column plan computed by the table formatter.
type TableLayout struct {
	Fractions []float64 // one per grid column, summing to 1
	Widths    []float64 // points
	Fallback  bool      // equal widths were used because the plan did not converge
}

// NewCell returns a single-span cell holding one body paragraph with text.
func NewCell(text string) *Cell {
	return &Cell{Span: 1, Paragraphs: []*Paragraph{Body(text)}}
}

// NewRow returns a row of single-span text cells.
func NewRow(texts ...string) *Row {
	r := &Row{Cells: make([]*Cell, len(texts))}
	for i, t := range texts {
		r.Cells[i] = NewCell(t)
	}
	return r
}

// NewTable returns a table whose first row is a header row.
func NewTable(header []string, rows ...[]string) *Table {
	t := &Table{}
	if header != nil {
		h := NewRow(header...)
		h.Header = true
		t.Rows = append(t.Rows, h)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, NewRow(r...))
	}
	return t
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Rows: make([]*Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	if t.Layout != nil {
		l := TableLayout{
			Fractions: append([]float64(nil), t.Layout.Fractions...),
			Widths:    append([]float64(nil), t.Layout.Widths...),
			Fallback:  t.Layout.Fallback,
		}
		out.Layout = &l
	}
	return out
}

// Clone returns a deep copy of r.
func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	out := &Row{Header: r.Header, MinHeight: r.MinHeight, Cells: make([]*Cell, len(r.Cells))}
	for i, c := range r.Cells {
		out.Cells[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of c.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	out := *c
	out.Paragraphs = make([]*Paragraph, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		out.Paragraphs[i] = p.Clone()
	}
	return &out
}

// GridSpan returns the number of grid columns the cell covers (at least 1).
func (c *Cell) GridSpan() int {
	if c.Span < 1 {
		return 1
	}
	return c.Span
}

// Text returns the cell's paragraphs joined by newlines.
func (c *Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// IsEmpty reports whether the cell has no visible text.
func (c *Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text()) == ""
}

// GridWidth returns the number of grid columns the row covers.
func (r *Row) GridWidth() int {
	n := 0
	for _, c := range r.Cells {
		n += c.GridSpan()
	}
	return n
}

// ColumnCount returns the widest row's grid width.
func (t *Table) ColumnCount() int {
	n := 0
	for _, r := range t.Rows {
		n = max(n, r.GridWidth())
	}
	return n
}

// IsRagged reports whether rows disagree on grid width.
func (t *Table) IsRagged() bool {
	if len(t.Rows) == 0 {
		return false
	}
	w := t.Rows[0].GridWidth()
	for _, r := range t.Rows[1:] {
		if r.GridWidth() != w {
			return true
		}
	}
	return false
}

// HeaderRows returns the leading header rows.
func (t *Table) HeaderRows() []*Row {
	var out []*Row
	for _, r := range t.Rows {
		if !r.Header {
			break
		}
		out = append(out, r)
	}
	return out
}
