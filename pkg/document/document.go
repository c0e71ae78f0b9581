// Package document defines the in-memory model of a word-processing document.
//
// A [Document] is a list of [Section]s; each section carries page margins and
// an ordered list of [Block]s, which are either [Paragraph]s or [Table]s.
// Paragraphs hold [Run]s of text with inline emphasis. Tables hold rows of
// cells, and each cell holds paragraphs.
//
// The model is format-neutral: package docx converts it to and from
// WordprocessingML, and the styling engine reads one tree and builds another.
// Nothing in this package performs I/O.
//
// All lengths are in points (1/72 inch).
package document

// Page geometry for US Letter, in points.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

// Margins are page margins in points.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// ProfessionalMargins is the margin preset applied to every styled section:
// one inch top and bottom, one and a quarter inches left and right.
var ProfessionalMargins = Margins{Top: 72, Bottom: 72, Left: 90, Right: 90}

// ContentWidth returns the printable width between the left and right margins.
func (m Margins) ContentWidth() float64 {
	return PageWidth - m.Left - m.Right
}

// Document is an ordered list of sections.
type Document struct {
	Sections []*Section
}

// Section is a run of blocks sharing page setup.
type Section struct {
	Margins Margins
	Blocks  []Block
}

// Block is a top-level body element. It is implemented only by *Paragraph
// and *Table.
type Block interface {
	isBlock()
	cloneBlock() Block
}

func (*Paragraph) isBlock() {}
func (*Table) isBlock()     {}

func (p *Paragraph) cloneBlock() Block { return p.Clone() }
func (t *Table) cloneBlock() Block     { return t.Clone() }

// New returns a document with a single section holding blocks.
// The section has zero margins; readers fill them from the source.
func New(blocks ...Block) *Document {
	return &Document{Sections: []*Section{{Blocks: blocks}}}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Sections: make([]*Section, len(d.Sections))}
	for i, s := range d.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := &Section{Margins: s.Margins, Blocks: make([]Block, len(s.Blocks))}
	for i, b := range s.Blocks {
		out.Blocks[i] = b.cloneBlock()
	}
	return out
}

// Paragraphs returns the top-level paragraphs of every section in order.
// Paragraphs inside table cells are not included.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			if p, ok := b.(*Paragraph); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// Tables returns every top-level table in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			if t, ok := b.(*Table); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// Headings returns the top-level heading paragraphs in document order.
func (d *Document) Headings() []*Paragraph {
	var out []*Paragraph
	for _, p := range d.Paragraphs() {
		if p.Role == RoleHeading {
			out = append(out, p)
		}
	}
	return out
}
