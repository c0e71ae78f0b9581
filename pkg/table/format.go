package table

import (
	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/document"
	"github.com/matzehuels/polisher/pkg/errors"
)

// MaxGridColumns is the widest table Word accepts. Wider tables are left
// ragged and the validator flags them.
const MaxGridColumns = 63

// Formatting rules shared by every brand.
const (
	HeaderBorderWidth = 1.5 // points, accent colored
	BodyBorderWidth   = 0.5 // points, light gray
	LightGray         = "D9D9D9"
	BandFill          = "F2F2F2"
	HeaderTint        = 0.85 // accent mixed toward white
	HeaderMinHeight   = 28.0
	BodyMinHeight     = 24.0
)

// CellPadding is applied to every cell.
var CellPadding = document.Padding{Top: 6, Bottom: 6, Left: 8, Right: 8}

// Format returns a formatted copy of t; t itself is not modified.
//
// Ragged rows are padded with empty cells to the widest row. Column widths
// come from [PlanColumns] scaled to the professional content width. Header
// cells get an accent bottom border and an accent-tinted fill; body rows get
// light-gray separators and every second body row (counting from zero) a
// light band. Vertical borders are never drawn. Empty header cells are left
// as they are.
func Format(t *document.Table, theme brand.Theme) (*document.Table, error) {
	accent, err := brand.ParseHex(theme.Colors.Accent)
	if err != nil {
		return nil, errors.ConfigurationError(theme.ID, "colors.accent", "%v", err)
	}

	out := t.Clone()
	Pad(out)

	plan := PlanColumns(out)
	out.Layout = &document.TableLayout{
		Fractions: plan.Fractions,
		Widths:    plan.Widths(document.ProfessionalMargins.ContentWidth()),
		Fallback:  plan.Fallback,
	}

	if len(out.Rows) > 0 && len(out.HeaderRows()) == 0 {
		out.Rows[0].Header = true
	}

	headerFill := accent.Tint(HeaderTint).Hex()
	headerBorder := document.Border{Width: HeaderBorderWidth, Color: accent.Hex()}
	bodyBorder := document.Border{Width: BodyBorderWidth, Color: LightGray}

	body := 0
	for _, r := range out.Rows {
		if r.Header {
			r.MinHeight = HeaderMinHeight
			for _, c := range r.Cells {
				c.Shading = headerFill
				c.Borders = document.CellBorders{Bottom: headerBorder}
				c.Padding = CellPadding
			}
			continue
		}

		r.MinHeight = BodyMinHeight
		// Parity counts body rows, so the row under the header is unfilled.
		fill := ""
		if body%2 == 1 {
			fill = BandFill
		}
		for _, c := range r.Cells {
			c.Shading = fill
			c.Borders = document.CellBorders{Bottom: bodyBorder}
			c.Padding = CellPadding
		}
		body++
	}
	return out, nil
}

// Pad appends empty cells to rows narrower than the widest row. Tables wider
// than MaxGridColumns are left untouched. It reports whether any cell was
// added.
func Pad(t *document.Table) bool {
	cols := t.ColumnCount()
	if cols > MaxGridColumns {
		return false
	}
	padded := false
	for _, r := range t.Rows {
		for w := r.GridWidth(); w < cols; w++ {
			r.Cells = append(r.Cells, &document.Cell{
				Span:       1,
				Paragraphs: []*document.Paragraph{document.Body("")},
			})
			padded = true
		}
	}
	return padded
}
