package document

import "strings"

// Role is the structural classification of a paragraph.
type Role int

const (
	// RoleUnclassified marks a paragraph whose source declared no recognized
	// role. Styling treats it as body text.
	RoleUnclassified Role = iota
	RoleBody
	RoleTitle
	RoleSubtitle
	RoleHeading
	RoleListItem
	RoleQuote
	RoleCaption
)

var roleNames = [...]string{
	RoleUnclassified: "unclassified",
	RoleBody:         "body",
	RoleTitle:        "title",
	RoleSubtitle:     "subtitle",
	RoleHeading:      "heading",
	RoleListItem:     "list-item",
	RoleQuote:        "quote",
	RoleCaption:      "caption",
}

func (r Role) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Alignment is horizontal paragraph alignment.
type Alignment int

const (
	AlignDefault Alignment = iota // inherit; renders left-aligned
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

// ListKind distinguishes bulleted from numbered lists.
type ListKind int

const (
	ListUnordered ListKind = iota
	ListOrdered
)

func (k ListKind) String() string {
	if k == ListOrdered {
		return "ordered"
	}
	return "unordered"
}

// ListInfo describes list membership of a paragraph.
type ListInfo struct {
	Kind  ListKind
	Depth int // nesting depth, 0-based
	NumID int // numbering instance; items sharing it continue one sequence
	Start int // first number of the sequence when it is not 1
}

// CharStyle is the paragraph-level character formatting. Zero values mean
// "inherit from the document defaults".
type CharStyle struct {
	Font   string
	Size   float64 // points
	Color  string  // "RRGGBB"
	Bold   bool
	Italic bool
}

// ParagraphFormat holds spacing, indentation, and pagination properties.
// LineSpacing is a multiple of single spacing; zero means single.
type ParagraphFormat struct {
	SpaceBefore     float64
	SpaceAfter      float64
	LineSpacing     float64
	IndentLeft      float64
	IndentRight     float64
	KeepWithNext    bool
	PageBreakBefore bool
}

// Run is a span of text with uniform inline emphasis.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Paragraph is a block of text runs with a structural role.
type Paragraph struct {
	Role      Role
	Level     int       // heading level, meaningful only for RoleHeading
	List      *ListInfo // non-nil for list items
	Alignment Alignment
	StyleName string // declared style name in the source, informational
	Style     CharStyle
	Format    ParagraphFormat
	Runs      []Run
}

// Clone returns a deep copy of p.
func (p *Paragraph) Clone() *Paragraph {
	if p == nil {
		return nil
	}
	out := *p
	if p.List != nil {
		l := *p.List
		out.List = &l
	}
	if p.Runs != nil {
		out.Runs = make([]Run, len(p.Runs))
		copy(out.Runs, p.Runs)
	}
	return &out
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the paragraph has no visible text.
func (p *Paragraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text()) == ""
}

// WordCount returns the number of whitespace-separated words.
func (p *Paragraph) WordCount() int {
	return len(strings.Fields(p.Text()))
}

// RunBold reports whether r renders bold inside p. Paragraph style governs
// the default and run emphasis is never stripped.
func (p *Paragraph) RunBold(r Run) bool {
	return p.Style.Bold || r.Bold
}

// RunItalic reports whether r renders italic inside p.
func (p *Paragraph) RunItalic(r Run) bool {
	return p.Style.Italic || r.Italic
}
