package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/polisher/pkg/document"
)

// Encode serializes doc as a .docx package.
func Encode(doc *document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes doc and writes it to path.
func WriteFile(path string, doc *document.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Write serializes doc as a .docx package to w.
//
// The package is minimal but complete: content types, relationships, the
// main document, a style sheet declaring the styles paragraphs reference,
// list numbering and core properties. Every run carries explicit
// properties, so the output renders the same regardless of the style sheet.
func Write(w io.Writer, doc *document.Document) error {
	enc := newEncoder(doc)

	body, err := enc.document()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	numbering, err := marshalPart(enc.numbering())
	if err != nil {
		return fmt.Errorf("encode numbering: %w", err)
	}
	core, err := marshalPart(wCoreProperties{
		XmlnsCP: nsCP,
		XmlnsDC: nsDC,
		Title:   enc.title(),
		Creator: "polisher",
	})
	if err != nil {
		return fmt.Errorf("encode core properties: %w", err)
	}

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/document.xml", body},
		{"word/styles.xml", []byte(stylesPartXML)},
		{"word/numbering.xml", numbering},
		{"docProps/core.xml", core},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

type listKey struct {
	numID int
	kind  document.ListKind
}

type encoder struct {
	doc    *document.Document
	lists  map[listKey]int // source list -> numId in the output
	order  []listKey
	starts map[listKey]int
}

func newEncoder(doc *document.Document) *encoder {
	e := &encoder{doc: doc, lists: make(map[listKey]int), starts: make(map[listKey]int)}
	visit := func(p *document.Paragraph) {
		if p.List == nil {
			return
		}
		k := listKey{p.List.NumID, p.List.Kind}
		if _, ok := e.lists[k]; !ok {
			e.order = append(e.order, k)
			e.lists[k] = len(e.order)
			e.starts[k] = p.List.Start
		}
	}
	for _, s := range doc.Sections {
		for _, b := range s.Blocks {
			switch b := b.(type) {
			case *document.Paragraph:
				visit(b)
			case *document.Table:
				for _, r := range b.Rows {
					for _, c := range r.Cells {
						for _, p := range c.Paragraphs {
							visit(p)
						}
					}
				}
			}
		}
	}
	return e
}

func (e *encoder) title() string {
	for _, p := range e.doc.Paragraphs() {
		if p.Role == document.RoleTitle {
			return p.Text()
		}
	}
	return ""
}

// document builds word/document.xml. Every section but the last is closed
// by a sectPr on its final paragraph; the last uses the body-level sectPr.
func (e *encoder) document() ([]byte, error) {
	root := wDocument{XmlnsW: nsW, XmlnsR: nsR}

	for i, s := range e.doc.Sections {
		last := i == len(e.doc.Sections)-1
		for _, b := range s.Blocks {
			switch b := b.(type) {
			case *document.Paragraph:
				root.Body.Content = append(root.Body.Content, e.paragraph(b))
			case *document.Table:
				root.Body.Content = append(root.Body.Content, e.table(b, s.Margins))
			}
		}
		sp := sectPr(s.Margins)
		if last {
			root.Body.SectPr = sp
			continue
		}
		n := len(root.Body.Content)
		if n > 0 && len(s.Blocks) > 0 {
			if p, ok := root.Body.Content[n-1].(wP); ok {
				if p.PPr == nil {
					p.PPr = &wPPr{}
				}
				p.PPr.SectPr = sp
				root.Body.Content[n-1] = p
				continue
			}
		}
		root.Body.Content = append(root.Body.Content, wP{PPr: &wPPr{SectPr: sp}})
	}
	if root.Body.SectPr == nil {
		root.Body.SectPr = sectPr(document.ProfessionalMargins)
	}
	return marshalPart(root)
}

func sectPr(m document.Margins) *wSectPr {
	return &wSectPr{
		PgSz: wPgSz{W: ptToTwips(document.PageWidth), H: ptToTwips(document.PageHeight)},
		PgMar: wPgMar{
			Top:    ptToTwips(m.Top),
			Right:  ptToTwips(m.Right),
			Bottom: ptToTwips(m.Bottom),
			Left:   ptToTwips(m.Left),
			Header: 720,
			Footer: 720,
		},
	}
}

func (e *encoder) paragraph(p *document.Paragraph) wP {
	ppr := &wPPr{}
	if id := styleID(p); id != "" {
		ppr.PStyle = &wVal{Val: id}
	}
	f := p.Format
	if f.KeepWithNext {
		ppr.KeepNext = &wOn{}
	}
	if f.PageBreakBefore {
		ppr.PageBreakBefore = &wOn{}
	}
	if p.List != nil {
		ppr.NumPr = &wNumPr{
			ILvl:  wVal{Val: itoa(p.List.Depth)},
			NumID: wVal{Val: itoa(e.lists[listKey{p.List.NumID, p.List.Kind}])},
		}
	}
	if f.SpaceBefore != 0 || f.SpaceAfter != 0 || f.LineSpacing != 0 {
		sp := &wSpacing{Before: ptToTwips(f.SpaceBefore), After: ptToTwips(f.SpaceAfter)}
		if f.LineSpacing != 0 {
			sp.Line = multipleToLine(f.LineSpacing)
			sp.LineRule = "auto"
		}
		ppr.Spacing = sp
	}
	if f.IndentLeft != 0 || f.IndentRight != 0 {
		ppr.Ind = &wInd{Left: ptToTwips(f.IndentLeft), Right: ptToTwips(f.IndentRight)}
	}
	if jc := justification(p.Alignment); jc != "" {
		ppr.Jc = &wVal{Val: jc}
	}

	out := wP{PPr: ppr}
	for _, r := range p.Runs {
		out.Runs = append(out.Runs, run(p, r))
	}
	return out
}

func run(p *document.Paragraph, r document.Run) wR {
	rpr := &wRPr{}
	s := p.Style
	if s.Font != "" {
		rpr.RFonts = &wRFonts{ASCII: s.Font, HAnsi: s.Font, CS: s.Font}
	}
	if p.RunBold(r) {
		rpr.B = &wOn{}
	}
	if p.RunItalic(r) {
		rpr.I = &wOn{}
	}
	if s.Color != "" {
		rpr.Color = &wVal{Val: s.Color}
	}
	if s.Size > 0 {
		sz := itoa(ptToHalfPoints(s.Size))
		rpr.Sz = &wVal{Val: sz}
		rpr.SzCs = &wVal{Val: sz}
	}
	if r.Underline {
		rpr.U = &wVal{Val: "single"}
	}
	return wR{RPr: rpr, Content: runContent(r.Text)}
}

// runContent splits text into w:t, w:tab and w:br elements.
func runContent(text string) []any {
	var out []any
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		t := wT{Value: s}
		if strings.TrimSpace(s) != s {
			t.Space = "preserve"
		}
		out = append(out, t)
		cur.Reset()
	}
	for _, r := range text {
		switch r {
		case '\t':
			flush()
			out = append(out, wTab{})
		case '\n':
			flush()
			out = append(out, wBr{})
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func (e *encoder) table(t *document.Table, m document.Margins) wTbl {
	cols := t.ColumnCount()
	widths := gridWidths(t, cols, m)

	out := wTbl{}
	total := 0
	for _, w := range widths {
		tw := ptToTwips(w)
		total += tw
		out.Grid.Cols = append(out.Grid.Cols, wGridCol{W: tw})
	}
	out.TblPr.TblW = wWidth{W: total, Type: "dxa"}
	out.TblPr.TblLook = &wTblLook{Val: "04A0", FirstRow: 1, NoVBand: 1}
	if t.Layout != nil {
		out.TblPr.TblLayout = &wTblLayout{Type: "fixed"}
		nb := wBorder{Val: "nil"}
		out.TblPr.TblBorders = &wTblBorders{Top: nb, Left: nb, Bottom: nb, Right: nb, InsideH: nb, InsideV: nb}
	} else {
		out.TblPr.TblStyle = &wVal{Val: "TableGrid"}
	}

	for _, r := range t.Rows {
		tr := wTr{}
		if r.Header || r.MinHeight > 0 {
			tr.TrPr = &wTrPr{}
			if r.Header {
				tr.TrPr.TblHeader = &wOn{}
			}
			if r.MinHeight > 0 {
				tr.TrPr.TrHeight = &wTrHeight{Val: ptToTwips(r.MinHeight), Rule: "atLeast"}
			}
		}
		col := 0
		for _, c := range r.Cells {
			span := c.GridSpan()
			w := 0.0
			for i := col; i < col+span && i < len(widths); i++ {
				w += widths[i]
			}
			col += span
			tr.Cells = append(tr.Cells, e.cell(c, span, w, t.Layout != nil))
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

// gridWidths returns the planned widths, or an equal split of the content
// width for tables that were never formatted.
func gridWidths(t *document.Table, cols int, m document.Margins) []float64 {
	if t.Layout != nil && len(t.Layout.Widths) == cols {
		return t.Layout.Widths
	}
	if cols == 0 {
		return nil
	}
	content := m.ContentWidth()
	if content <= 0 || content > document.PageWidth {
		content = document.ProfessionalMargins.ContentWidth()
	}
	out := make([]float64, cols)
	for i := range out {
		out[i] = content / float64(cols)
	}
	return out
}

func (e *encoder) cell(c *document.Cell, span int, width float64, formatted bool) wTc {
	tc := wTc{TcPr: wTcPr{TcW: wWidth{W: ptToTwips(width), Type: "dxa"}}}
	if span > 1 {
		tc.TcPr.GridSpan = &wVal{Val: itoa(span)}
	}
	if formatted {
		b := c.Borders
		tc.TcPr.TcBorders = &wTcBorders{
			Top:    borderXMLFor(b.Top),
			Left:   borderXMLFor(b.Left),
			Bottom: borderXMLFor(b.Bottom),
			Right:  borderXMLFor(b.Right),
		}
	}
	if c.Shading != "" {
		tc.TcPr.Shd = &wShd{Val: "clear", Color: "auto", Fill: c.Shading}
	}
	if pad := c.Padding; pad != (document.Padding{}) {
		tc.TcPr.TcMar = &wCellMargins{
			Top:    wWidth{W: ptToTwips(pad.Top), Type: "dxa"},
			Left:   wWidth{W: ptToTwips(pad.Left), Type: "dxa"},
			Bottom: wWidth{W: ptToTwips(pad.Bottom), Type: "dxa"},
			Right:  wWidth{W: ptToTwips(pad.Right), Type: "dxa"},
		}
	}
	for _, p := range c.Paragraphs {
		tc.Paragraphs = append(tc.Paragraphs, e.paragraph(p))
	}
	// A cell must hold at least one paragraph.
	if len(tc.Paragraphs) == 0 {
		tc.Paragraphs = []wP{{}}
	}
	return tc
}

func borderXMLFor(b document.Border) wBorder {
	if b.IsNone() {
		return wBorder{Val: "nil"}
	}
	return wBorder{Val: "single", Sz: ptToEighths(b.Width), Color: b.Color}
}

func (e *encoder) numbering() wNumbering {
	out := wNumbering{
		XmlnsW:       nsW,
		AbstractNums: []wAbstractNum{abstractList(0, document.ListUnordered), abstractList(1, document.ListOrdered)},
	}
	// Ordered instances share one definition, so each restarts explicitly
	// or Word would continue counting from the previous list.
	for i, k := range e.order {
		num := wNum{ID: i + 1, AbstractNumID: wVal{Val: "0"}}
		if k.kind == document.ListOrdered {
			num.AbstractNumID.Val = "1"
			num.LvlOverrides = []wLvlOverride{{ILvl: 0, StartOverride: wVal{Val: itoa(max(e.starts[k], 1))}}}
		}
		out.Nums = append(out.Nums, num)
	}
	return out
}

var (
	bulletGlyphs  = []string{"•", "◦", "▪"}
	orderedFormat = []string{"decimal", "lowerLetter", "lowerRoman"}
)

func abstractList(id int, kind document.ListKind) wAbstractNum {
	an := wAbstractNum{ID: id}
	for lvl := 0; lvl < 9; lvl++ {
		l := wLvl{
			ILvl:  lvl,
			Start: wVal{Val: "1"},
			LvlJc: wVal{Val: "left"},
			PPr:   wLvlPPr{Ind: wHangingInd{Left: 720 * (lvl + 1), Hanging: 360}},
		}
		if kind == document.ListOrdered {
			l.NumFmt = wVal{Val: orderedFormat[lvl%len(orderedFormat)]}
			l.LvlText = wVal{Val: fmt.Sprintf("%%%d.", lvl+1)}
		} else {
			l.NumFmt = wVal{Val: "bullet"}
			l.LvlText = wVal{Val: bulletGlyphs[lvl%len(bulletGlyphs)]}
		}
		an.Levels = append(an.Levels, l)
	}
	return an
}

func styleID(p *document.Paragraph) string {
	switch p.Role {
	case document.RoleTitle:
		return "Title"
	case document.RoleSubtitle:
		return "Subtitle"
	case document.RoleHeading:
		if p.Level >= 1 && p.Level <= 9 {
			return fmt.Sprintf("Heading%d", p.Level)
		}
	case document.RoleListItem:
		if p.List != nil && p.List.Kind == document.ListOrdered {
			return "ListNumber"
		}
		return "ListBullet"
	case document.RoleQuote:
		return "Quote"
	case document.RoleCaption:
		return "Caption"
	case document.RoleBody:
		return "Normal"
	}
	return ""
}

func justification(a document.Alignment) string {
	switch a {
	case document.AlignLeft:
		return "left"
	case document.AlignCenter:
		return "center"
	case document.AlignRight:
		return "right"
	case document.AlignJustify:
		return "both"
	}
	return ""
}
