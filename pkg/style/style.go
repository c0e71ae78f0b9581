// Package style applies a brand theme to a document.
//
// An [Applier] reads a source document and builds a new one in which every
// paragraph carries the theme's fonts, sizes, colors and spacing for its
// structural role, every table is formatted by package table, and every
// section uses the professional margin preset. Content is never changed:
// run text and inline emphasis are copied verbatim, and the source tree is
// left untouched.
//
// # Roles
//
// Paragraphs are styled by declared role. Unclassified paragraphs, empty
// paragraphs and headings deeper than level 3 are styled as body text.
//
//	Title      heading font, h1 size + 14pt, bold, primary color, centered
//	Subtitle   body font, body size + 2pt, secondary text color, centered
//	Heading N  heading font and the hN style; keep-with-next; page break
//	           before every level-1 heading after the first
//	Body       body style; source alignment kept; 1.15 line spacing
//	List item  body style; list kind, depth and numbering kept
//	Quote      body style in italic secondary text, indented half an inch
//	Caption    body font with the caption style, centered
package style

import (
	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/document"
	"github.com/matzehuels/polisher/pkg/table"
)

// Spacing in points, before and after.
var (
	titleSpacing    = spacing{100, 24}
	subtitleSpacing = spacing{0, 36}
	headingSpacing  = map[int]spacing{1: {0, 18}, 2: {18, 8}, 3: {12, 6}}
	bodySpacing     = spacing{0, 10}
	listSpacing     = spacing{2, 2}
	quoteSpacing    = spacing{12, 12}
	captionSpacing  = spacing{6, 12}
)

const (
	titleSizeBoost    = 14.0
	subtitleSizeBoost = 2.0
	bodyLineSpacing   = 1.15
	quoteIndent       = 36.0
)

type spacing struct{ before, after float64 }

// Applier styles documents with themes from a registry.
// It holds no per-run state and is safe for concurrent use.
type Applier struct {
	registry *brand.Registry
}

// New returns an Applier resolving brand identifiers through reg.
func New(reg *brand.Registry) *Applier {
	return &Applier{registry: reg}
}

// Apply looks up brandID and applies its theme to src. An unknown brand
// fails before any output is built.
func (a *Applier) Apply(src *document.Document, brandID string) (*document.Document, error) {
	theme, err := a.registry.Lookup(brandID)
	if err != nil {
		return nil, err
	}
	return a.ApplyTheme(src, theme)
}

// ApplyTheme returns a new document with theme applied to src.
// A theme missing a required style fails with a CONFIGURATION_ERROR naming
// the key; no defaults are substituted.
func (a *Applier) ApplyTheme(src *document.Document, theme brand.Theme) (*document.Document, error) {
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	s := newStyler(theme)

	out := &document.Document{Sections: make([]*document.Section, 0, len(src.Sections))}
	for _, sec := range src.Sections {
		ns := &document.Section{
			Margins: document.ProfessionalMargins,
			Blocks:  make([]document.Block, 0, len(sec.Blocks)),
		}
		for _, b := range sec.Blocks {
			switch b := b.(type) {
			case *document.Paragraph:
				ns.Blocks = append(ns.Blocks, s.paragraph(b))
			case *document.Table:
				t, err := table.Format(s.table(b), theme)
				if err != nil {
					return nil, err
				}
				ns.Blocks = append(ns.Blocks, t)
			}
		}
		out.Sections = append(out.Sections, ns)
	}
	return out, nil
}

// styler carries the resolved theme and document-wide state for one pass.
type styler struct {
	theme    brand.Theme
	headings map[int]brand.TextStyle
	body     brand.TextStyle
	caption  brand.TextStyle
	colors   resolvedColors
	seenH1   bool
}

type resolvedColors struct {
	primary, accent, textPrimary, textSecondary string
}

// newStyler resolves a validated theme.
func newStyler(theme brand.Theme) *styler {
	return &styler{
		theme: theme,
		headings: map[int]brand.TextStyle{
			1: theme.Styles[brand.StyleH1],
			2: theme.Styles[brand.StyleH2],
			3: theme.Styles[brand.StyleH3],
		},
		body:    theme.Styles[brand.StyleBody],
		caption: theme.Styles[brand.StyleCaption],
		colors: resolvedColors{
			primary:       brand.NormalizeHex(theme.Colors.Primary),
			accent:        brand.NormalizeHex(theme.Colors.Accent),
			textPrimary:   brand.NormalizeHex(theme.Colors.TextPrimary),
			textSecondary: brand.NormalizeHex(theme.Colors.TextSecondary),
		},
	}
}

// effectiveRole maps a source paragraph onto the role it is styled as.
func effectiveRole(p *document.Paragraph) document.Role {
	if p.IsEmpty() {
		return document.RoleBody
	}
	switch p.Role {
	case document.RoleUnclassified:
		return document.RoleBody
	case document.RoleHeading:
		if p.Level < 1 || p.Level > 3 {
			return document.RoleBody
		}
	}
	return p.Role
}

func (s *styler) paragraph(src *document.Paragraph) *document.Paragraph {
	out := &document.Paragraph{
		Role:      effectiveRole(src),
		Alignment: src.Alignment,
		StyleName: src.StyleName,
		Runs:      copyRuns(src.Runs),
	}

	switch out.Role {
	case document.RoleTitle:
		h1 := s.headings[1]
		out.Style = document.CharStyle{
			Font:  s.theme.Typography.HeadingFont,
			Size:  h1.Size + titleSizeBoost,
			Color: s.colors.primary,
			Bold:  true,
		}
		out.Alignment = document.AlignCenter
		out.Format = titleSpacing.format()

	case document.RoleSubtitle:
		out.Style = document.CharStyle{
			Font:  s.theme.Typography.BodyFont,
			Size:  s.body.Size + subtitleSizeBoost,
			Color: s.colors.textSecondary,
		}
		out.Alignment = document.AlignCenter
		out.Format = subtitleSpacing.format()

	case document.RoleHeading:
		out.Level = src.Level
		out.Style = charStyle(s.theme.Typography.HeadingFont, s.headings[src.Level])
		out.Format = headingSpacing[src.Level].format()
		out.Format.KeepWithNext = true
		if src.Level == 1 {
			out.Format.PageBreakBefore = s.seenH1
			s.seenH1 = true
		}

	case document.RoleListItem:
		out.List = &document.ListInfo{}
		if src.List != nil {
			*out.List = *src.List
		}
		out.Style = charStyle(s.theme.Typography.BodyFont, s.body)
		out.Format = listSpacing.format()

	case document.RoleQuote:
		out.Style = charStyle(s.theme.Typography.BodyFont, s.body)
		out.Style.Italic = true
		out.Style.Color = s.colors.textSecondary
		out.Format = quoteSpacing.format()
		out.Format.IndentLeft = quoteIndent
		out.Format.IndentRight = quoteIndent

	case document.RoleCaption:
		out.Style = charStyle(s.theme.Typography.BodyFont, s.caption)
		out.Alignment = document.AlignCenter
		out.Format = captionSpacing.format()

	default:
		out.Role = document.RoleBody
		out.Style = charStyle(s.theme.Typography.BodyFont, s.body)
		out.Format = bodySpacing.format()
		out.Format.LineSpacing = bodyLineSpacing
	}
	return out
}

// table copies t cell for cell, styling header runs bold in the accent color
// and body runs in the primary text color. Ragged rows are padded first so
// padding cells are styled like the rest; geometry is left to table.Format.
func (s *styler) table(src *document.Table) *document.Table {
	t := src.Clone()
	table.Pad(t)

	hasHeader := len(t.HeaderRows()) > 0
	out := &document.Table{Rows: make([]*document.Row, len(t.Rows))}
	for i, r := range t.Rows {
		header := r.Header || (!hasHeader && i == 0)
		nr := &document.Row{Header: header, MinHeight: r.MinHeight, Cells: make([]*document.Cell, len(r.Cells))}
		for j, c := range r.Cells {
			nc := &document.Cell{
				Span:       c.GridSpan(),
				Shading:    c.Shading,
				Borders:    c.Borders,
				Padding:    c.Padding,
				Paragraphs: make([]*document.Paragraph, len(c.Paragraphs)),
			}
			for k, p := range c.Paragraphs {
				nc.Paragraphs[k] = s.cellParagraph(p, header)
			}
			nr.Cells[j] = nc
		}
		out.Rows[i] = nr
	}
	return out
}

func (s *styler) cellParagraph(src *document.Paragraph, header bool) *document.Paragraph {
	out := &document.Paragraph{
		Role:      document.RoleBody,
		Alignment: src.Alignment,
		StyleName: src.StyleName,
		Style:     charStyle(s.theme.Typography.BodyFont, s.body),
		Runs:      copyRuns(src.Runs),
	}
	if src.Role == document.RoleListItem && src.List != nil && !src.IsEmpty() {
		l := *src.List
		out.Role = document.RoleListItem
		out.List = &l
	}
	if header {
		out.Style.Bold = true
		out.Style.Color = s.colors.accent
	} else {
		out.Style.Color = s.colors.textPrimary
	}
	return out
}

func charStyle(font string, ts brand.TextStyle) document.CharStyle {
	return document.CharStyle{
		Font:   font,
		Size:   ts.Size,
		Color:  brand.NormalizeHex(ts.Color),
		Bold:   ts.Bold,
		Italic: ts.Italic,
	}
}

func (sp spacing) format() document.ParagraphFormat {
	return document.ParagraphFormat{SpaceBefore: sp.before, SpaceAfter: sp.after}
}

func copyRuns(runs []document.Run) []document.Run {
	if runs == nil {
		return nil
	}
	out := make([]document.Run, len(runs))
	copy(out, runs)
	return out
}
