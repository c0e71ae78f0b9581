package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/document"
	"github.com/matzehuels/polisher/pkg/errors"
)

// ReadFile parses the .docx file at path.
func ReadFile(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceRead(err, "read %s", path)
	}
	return Decode(data)
}

// Decode parses a .docx package held in memory.
//
// Only word/document.xml is required. Missing or malformed styles and
// numbering parts degrade classification to body paragraphs and unordered
// lists instead of failing. A container that is not a zip archive, or whose
// main part does not parse, yields a SOURCE_READ_ERROR.
func Decode(data []byte) (*document.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.SourceRead(err, "open docx container")
	}

	r := &reader{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	mainPart, err := r.content("word/document.xml")
	if err != nil {
		return nil, errors.SourceRead(err, "missing main document part")
	}
	var doc documentXML
	if err := xml.Unmarshal(mainPart, &doc); err != nil {
		return nil, errors.SourceRead(err, "parse word/document.xml")
	}

	if data, err := r.content("word/styles.xml"); err == nil {
		var styles stylesXML
		if xml.Unmarshal(data, &styles) == nil {
			r.styles = indexStyles(styles)
		}
	}

	var numbering *numberingXML
	if data, err := r.content("word/numbering.xml"); err == nil {
		var n numberingXML
		if xml.Unmarshal(data, &n) == nil {
			numbering = &n
		}
	}
	r.numbering = newNumberingResolver(numbering)

	return r.document(doc.Body), nil
}

type reader struct {
	files     map[string]*zip.File
	styles    map[string]styleDefXML // styleId -> definition
	numbering *numberingResolver
}

func (r *reader) content(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func indexStyles(s stylesXML) map[string]styleDefXML {
	out := make(map[string]styleDefXML, len(s.Styles))
	for _, st := range s.Styles {
		if st.Type == "" || st.Type == "paragraph" {
			out[st.StyleID] = st
		}
	}
	return out
}

// document converts the body into sections. A paragraph carrying sectPr
// ends a section; the body-level sectPr describes the last one.
func (r *reader) document(body *bodyXML) *document.Document {
	doc := &document.Document{}
	cur := &document.Section{}
	if body == nil {
		doc.Sections = append(doc.Sections, cur)
		return doc
	}

	for _, el := range body.Elements {
		switch {
		case el.Paragraph != nil:
			cur.Blocks = append(cur.Blocks, r.paragraph(el.Paragraph))
			if sp := el.Paragraph.Properties.SectPr; sp != nil {
				cur.Margins = margins(sp)
				doc.Sections = append(doc.Sections, cur)
				cur = &document.Section{}
			}
		case el.Table != nil:
			cur.Blocks = append(cur.Blocks, r.table(el.Table))
		}
	}

	if body.SectPr != nil {
		cur.Margins = margins(body.SectPr)
	}
	if len(cur.Blocks) > 0 || body.SectPr != nil || len(doc.Sections) == 0 {
		doc.Sections = append(doc.Sections, cur)
	}
	return doc
}

func margins(sp *sectPrXML) document.Margins {
	if sp.PgMar == nil {
		return document.Margins{}
	}
	return document.Margins{
		Top:    twipsToPt(sp.PgMar.Top),
		Bottom: twipsToPt(sp.PgMar.Bottom),
		Left:   twipsToPt(sp.PgMar.Left),
		Right:  twipsToPt(sp.PgMar.Right),
	}
}

func (r *reader) paragraph(p *paragraphXML) *document.Paragraph {
	props := p.Properties
	out := &document.Paragraph{
		Alignment: alignment(props.Justification.Val),
		Format: document.ParagraphFormat{
			SpaceBefore:     twipsToPt(props.Spacing.Before),
			SpaceAfter:      twipsToPt(props.Spacing.After),
			IndentLeft:      twipsToPt(firstNonEmpty(props.Indent.Left, props.Indent.Start)),
			IndentRight:     twipsToPt(firstNonEmpty(props.Indent.Right, props.Indent.End)),
			KeepWithNext:    props.KeepNext.on(),
			PageBreakBefore: props.PageBreakBefore.on(),
		},
	}
	if props.Spacing.LineRule == "" || props.Spacing.LineRule == "auto" {
		out.Format.LineSpacing = lineToMultiple(props.Spacing.Line)
	}

	r.classify(out, props)

	for _, run := range p.Runs {
		if run.Text == "" {
			continue
		}
		rp := run.Properties
		out.Runs = append(out.Runs, document.Run{
			Text:      run.Text,
			Bold:      rp.Bold.on(),
			Italic:    rp.Italic.on(),
			Underline: rp.Underline != nil && rp.Underline.Val != "none",
		})
	}

	// The first run's explicit properties stand in for the paragraph style.
	if len(p.Runs) > 0 {
		rp := p.Runs[0].Properties
		out.Style = document.CharStyle{
			Font:  firstNonEmpty(rp.Font.ASCII, rp.Font.HAnsi),
			Size:  halfPointsToPt(rp.FontSize.Val),
			Color: color(rp.Color.Val),
		}
	}
	return out
}

// classify sets role, level and list membership from the declared style
// and numbering properties.
func (r *reader) classify(p *document.Paragraph, props paragraphPropsXML) {
	id := props.Style.Val
	name := id
	def, defined := r.styles[id]
	if defined && def.Name.Val != "" {
		name = def.Name.Val
	}
	p.StyleName = name

	class := classifyStyle(name)
	if class.role == document.RoleBody && defined && def.PPr.OutlineLvl.Val != "" {
		// Custom heading styles declare an outline level instead of a name.
		if lvl := atoi(def.PPr.OutlineLvl.Val); lvl >= 0 && lvl <= 8 {
			class = styleClass{role: document.RoleHeading, level: lvl + 1}
		}
	}
	p.Role = class.role
	p.Level = class.level

	numPr := props.NumPr
	if numPr == nil && defined {
		numPr = def.PPr.NumPr
	}
	isList := class.role == document.RoleListItem ||
		(numPr != nil && numPr.NumID.Val != "" && numPr.NumID.Val != "0" && class.role != document.RoleHeading)
	if !isList {
		return
	}

	p.Role = document.RoleListItem
	p.Level = 0
	info := &document.ListInfo{Kind: class.list}
	if numPr != nil {
		info.Depth = atoi(numPr.ILvl.Val)
		info.NumID = atoi(r.numbering.sequence(numPr.NumID.Val))
		info.Start = r.numbering.start(numPr.NumID.Val)
		if kind, ok := r.numbering.kind(numPr.NumID.Val, info.Depth); ok {
			info.Kind = kind
		}
	}
	p.List = info
}

func (r *reader) table(t *tableXML) *document.Table {
	out := &document.Table{}
	for _, row := range t.Rows {
		dr := &document.Row{Header: row.Properties.Header.on()}
		if h := row.Properties.Height; h != nil {
			dr.MinHeight = twipsToPt(h.Val)
		}
		for i := range row.Cells {
			dr.Cells = append(dr.Cells, r.cell(&row.Cells[i]))
		}
		out.Rows = append(out.Rows, dr)
	}

	// Without an explicit header flag the first row is the header.
	if len(out.Rows) > 0 && !slices.ContainsFunc(out.Rows, func(r *document.Row) bool { return r.Header }) {
		out.Rows[0].Header = true
	}
	return out
}

func (r *reader) cell(c *tableCellXML) *document.Cell {
	props := c.Properties
	out := &document.Cell{
		Span:    max(1, atoi(props.GridSpan.Val)),
		Shading: color(props.Shading.Fill),
		Borders: document.CellBorders{
			Top:    border(props.Borders.Top),
			Bottom: border(props.Borders.Bottom),
			Left:   border(props.Borders.Left),
			Right:  border(props.Borders.Right),
		},
		Padding: document.Padding{
			Top:    cellMargin(props.Margins.Top),
			Bottom: cellMargin(props.Margins.Bottom),
			Left:   cellMargin(props.Margins.Left),
			Right:  cellMargin(props.Margins.Right),
		},
	}
	for i := range c.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, r.paragraph(&c.Paragraphs[i]))
	}
	// Nested tables are flattened into the cell's paragraphs.
	for i := range c.Tables {
		for _, row := range c.Tables[i].Rows {
			for j := range row.Cells {
				for k := range row.Cells[j].Paragraphs {
					out.Paragraphs = append(out.Paragraphs, r.paragraph(&row.Cells[j].Paragraphs[k]))
				}
			}
		}
	}
	return out
}

func border(b *borderXML) document.Border {
	if b == nil || b.Val == "" || b.Val == "nil" || b.Val == "none" {
		return document.Border{}
	}
	return document.Border{Width: eighthsToPt(b.Sz), Color: color(b.Color)}
}

func cellMargin(w *widthXML) float64 {
	if w == nil || (w.Type != "" && w.Type != "dxa") {
		return 0
	}
	return twipsToPt(w.W)
}

func alignment(val string) document.Alignment {
	switch val {
	case "left", "start":
		return document.AlignLeft
	case "center":
		return document.AlignCenter
	case "right", "end":
		return document.AlignRight
	case "both", "distribute":
		return document.AlignJustify
	}
	return document.AlignDefault
}

// color normalizes a hex color attribute; "auto" and garbage become empty.
func color(val string) string {
	if val == "" || strings.EqualFold(val, "auto") {
		return ""
	}
	c, err := brand.ParseHex(val)
	if err != nil {
		return ""
	}
	return c.Hex()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
