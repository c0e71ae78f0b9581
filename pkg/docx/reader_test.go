package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/polisher/pkg/document"
	"github.com/matzehuels/polisher/pkg/errors"
)

// buildDOCX assembles a package from body content and optional parts.
func buildDOCX(t *testing.T, body string, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + body + `</w:body>
</w:document>`,
	}
	for name, content := range parts {
		files[name] = content
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const testStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>
  <w:style w:type="paragraph" w:styleId="Titel"><w:name w:val="Title"/></w:style>
  <w:style w:type="paragraph" w:styleId="Custom"><w:name w:val="Section Head"/><w:pPr><w:outlineLvl w:val="2"/></w:pPr></w:style>
  <w:style w:type="paragraph" w:styleId="IntenseQuote"><w:name w:val="Intense Quote"/></w:style>
  <w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/></w:style>
</w:styles>`

const testNumbering = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl>
  </w:abstractNum>
  <w:abstractNum w:abstractNumId="1">
    <w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl>
    <w:lvl w:ilvl="1"><w:numFmt w:val="lowerLetter"/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="3"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="7"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

func para(style, text string) string {
	ppr := ""
	if style != "" {
		ppr = `<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`
	}
	return `<w:p>` + ppr + `<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func TestDecodeClassification(t *testing.T) {
	body := para("Titel", "Report") +
		para("Heading1", "Intro") +
		para("Heading2", "Detail") +
		para("Custom", "Custom head") +
		para("IntenseQuote", "Quoted") +
		para("Normal", "Body") +
		para("", "Plain") +
		`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="3"/></w:numPr></w:pPr><w:r><w:t>bullet</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="7"/></w:numPr></w:pPr><w:r><w:t>numbered</w:t></w:r></w:p>` +
		para("Heading4", "Unknown id")

	doc, err := Decode(buildDOCX(t, body, map[string]string{
		"word/styles.xml":    testStyles,
		"word/numbering.xml": testNumbering,
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	type got struct {
		Role  document.Role
		Level int
		List  *document.ListInfo
	}
	var gots []got
	for _, p := range doc.Paragraphs() {
		gots = append(gots, got{p.Role, p.Level, p.List})
	}
	want := []got{
		{document.RoleTitle, 0, nil},
		{document.RoleHeading, 1, nil},
		{document.RoleHeading, 2, nil},
		{document.RoleHeading, 3, nil},
		{document.RoleQuote, 0, nil},
		{document.RoleBody, 0, nil},
		{document.RoleUnclassified, 0, nil},
		{document.RoleListItem, 0, &document.ListInfo{Kind: document.ListUnordered, Depth: 0, NumID: 3}},
		{document.RoleListItem, 0, &document.ListInfo{Kind: document.ListOrdered, Depth: 1, NumID: 7}},
		{document.RoleHeading, 4, nil},
	}
	if diff := cmp.Diff(want, gots); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeWithoutStyles(t *testing.T) {
	// Style ids are used as names when styles.xml is absent.
	doc, err := Decode(buildDOCX(t, para("Heading2", "x")+para("ListBullet", "y"), nil))
	if err != nil {
		t.Fatal(err)
	}
	ps := doc.Paragraphs()
	if ps[0].Role != document.RoleHeading || ps[0].Level != 2 {
		t.Errorf("first paragraph = %v level %d", ps[0].Role, ps[0].Level)
	}
	if ps[1].Role != document.RoleListItem || ps[1].List == nil || ps[1].List.Kind != document.ListUnordered {
		t.Errorf("second paragraph = %v %+v", ps[1].Role, ps[1].List)
	}
}

func TestDecodeRuns(t *testing.T) {
	body := `<w:p>
  <w:pPr><w:jc w:val="center"/><w:spacing w:before="240" w:after="120" w:line="276" w:lineRule="auto"/><w:keepNext/></w:pPr>
  <w:r><w:rPr><w:rFonts w:ascii="Georgia"/><w:b/><w:sz w:val="24"/><w:color w:val="ff0000"/></w:rPr><w:t>Bold</w:t></w:r>
  <w:r><w:rPr><w:b w:val="0"/><w:i/></w:rPr><w:t xml:space="preserve"> italic</w:t><w:tab/><w:t>tab</w:t></w:r>
  <w:hyperlink><w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>link</w:t></w:r></w:hyperlink>
  <w:r><w:br/><w:t>next</w:t></w:r>
</w:p>`
	doc, err := Decode(buildDOCX(t, body, nil))
	if err != nil {
		t.Fatal(err)
	}
	p := doc.Paragraphs()[0]

	wantRuns := []document.Run{
		{Text: "Bold", Bold: true},
		{Text: " italic\ttab", Italic: true},
		{Text: "link", Underline: true},
		{Text: "\nnext"},
	}
	if diff := cmp.Diff(wantRuns, p.Runs); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(document.CharStyle{Font: "Georgia", Size: 12, Color: "FF0000"}, p.Style); diff != "" {
		t.Errorf("style mismatch (-want +got):\n%s", diff)
	}
	wantFormat := document.ParagraphFormat{SpaceBefore: 12, SpaceAfter: 6, LineSpacing: 1.15, KeepWithNext: true}
	if diff := cmp.Diff(wantFormat, p.Format); diff != "" {
		t.Errorf("format mismatch (-want +got):\n%s", diff)
	}
	if p.Alignment != document.AlignCenter {
		t.Errorf("Alignment = %v", p.Alignment)
	}
}

func TestDecodeOrderAndSections(t *testing.T) {
	body := para("", "one") +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:pPr><w:sectPr><w:pgMar w:top="1440" w:bottom="1440" w:left="1440" w:right="1440"/></w:sectPr></w:pPr><w:r><w:t>end of first</w:t></w:r></w:p>` +
		`<w:sdt><w:sdtContent>` + para("", "in control") + `</w:sdtContent></w:sdt>` +
		`<w:sectPr><w:pgMar w:top="1440" w:bottom="1440" w:left="1800" w:right="1800"/></w:sectPr>`

	doc, err := Decode(buildDOCX(t, body, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}

	first := doc.Sections[0]
	if len(first.Blocks) != 3 {
		t.Fatalf("first section blocks = %d, want 3", len(first.Blocks))
	}
	if _, ok := first.Blocks[1].(*document.Table); !ok {
		t.Errorf("block 1 = %T, want *document.Table", first.Blocks[1])
	}
	if diff := cmp.Diff(document.Margins{Top: 72, Bottom: 72, Left: 72, Right: 72}, first.Margins); diff != "" {
		t.Errorf("first margins (-want +got):\n%s", diff)
	}

	second := doc.Sections[1]
	if diff := cmp.Diff(document.ProfessionalMargins, second.Margins); diff != "" {
		t.Errorf("second margins (-want +got):\n%s", diff)
	}
	if p, ok := second.Blocks[0].(*document.Paragraph); !ok || p.Text() != "in control" {
		t.Errorf("second section block = %#v", second.Blocks[0])
	}
}

func TestDecodeTable(t *testing.T) {
	body := `<w:tbl>
  <w:tr>
    <w:tc><w:tcPr><w:shd w:val="clear" w:fill="d9d9d9"/><w:tcBorders><w:bottom w:val="single" w:sz="12" w:color="112233"/><w:left w:val="nil"/></w:tcBorders></w:tcPr><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:trPr><w:trHeight w:val="480" w:hRule="atLeast"/></w:trPr>
    <w:tc><w:tcPr><w:gridSpan w:val="2"/><w:tcMar><w:top w:w="120" w:type="dxa"/><w:left w:w="160" w:type="dxa"/></w:tcMar></w:tcPr><w:p/></w:tc>
  </w:tr>
</w:tbl>`
	doc, err := Decode(buildDOCX(t, body, nil))
	if err != nil {
		t.Fatal(err)
	}
	tbl := doc.Tables()[0]

	if !tbl.Rows[0].Header || tbl.Rows[1].Header {
		t.Error("first row should default to header")
	}
	a := tbl.Rows[0].Cells[0]
	if a.Shading != "D9D9D9" {
		t.Errorf("Shading = %q", a.Shading)
	}
	if diff := cmp.Diff(document.Border{Width: 1.5, Color: "112233"}, a.Borders.Bottom); diff != "" {
		t.Errorf("bottom border (-want +got):\n%s", diff)
	}
	if !a.Borders.Left.IsNone() {
		t.Error("nil border should read as none")
	}

	wide := tbl.Rows[1].Cells[0]
	if wide.Span != 2 || tbl.IsRagged() {
		t.Errorf("Span = %d, ragged = %v", wide.Span, tbl.IsRagged())
	}
	if diff := cmp.Diff(document.Padding{Top: 6, Left: 8}, wide.Padding); diff != "" {
		t.Errorf("padding (-want +got):\n%s", diff)
	}
	if tbl.Rows[1].MinHeight != 24 {
		t.Errorf("MinHeight = %v", tbl.Rows[1].MinHeight)
	}
}

func TestDecodeContentControls(t *testing.T) {
	sdtCell := func(text string) string {
		return `<w:sdt><w:sdtPr><w:alias w:val="field"/></w:sdtPr><w:sdtContent>` +
			`<w:tc><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:tc>` +
			`</w:sdtContent></w:sdt>`
	}
	body := `<w:p><w:r><w:t xml:space="preserve">Signed on </w:t></w:r>` +
		`<w:sdt><w:sdtPr><w:date/></w:sdtPr><w:sdtContent><w:r><w:t>12 March 2024</w:t></w:r></w:sdtContent></w:sdt></w:p>` +
		`<w:tbl>
  <w:tr><w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc>` + sdtCell("B") + `</w:tr>
  <w:sdt><w:sdtContent><w:tr><w:tc><w:p><w:r><w:t>C</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>D</w:t></w:r></w:p></w:tc></w:tr></w:sdtContent></w:sdt>
  <w:tr><w:tc><w:sdt><w:sdtContent>` + para("", "E") + `</w:sdtContent></w:sdt></w:tc><w:tc><w:p><w:r><w:t>F</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>`

	doc, err := Decode(buildDOCX(t, body, nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Paragraphs()[0].Text(); got != "Signed on 12 March 2024" {
		t.Errorf("paragraph text = %q", got)
	}

	tbl := doc.Tables()[0]
	var got [][]string
	for _, row := range tbl.Rows {
		var texts []string
		for _, c := range row.Cells {
			var text string
			for _, p := range c.Paragraphs {
				text += p.Text()
			}
			texts = append(texts, text)
		}
		got = append(got, texts)
	}
	want := [][]string{{"A", "B"}, {"C", "D"}, {"E", "F"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if tbl.IsRagged() {
		t.Error("table should not be ragged")
	}
}

func TestDecodeNumberingSequences(t *testing.T) {
	numbering := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="4">
    <w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/></w:lvl>
  </w:abstractNum>
  <w:abstractNum w:abstractNumId="5">
    <w:lvl w:ilvl="0"><w:start w:val="3"/><w:numFmt w:val="upperRoman"/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="4"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="4"/><w:lvlOverride w:ilvl="0"><w:startOverride w:val="1"/></w:lvlOverride></w:num>
  <w:num w:numId="3"><w:abstractNumId w:val="4"/></w:num>
  <w:num w:numId="4"><w:abstractNumId w:val="4"/><w:lvlOverride w:ilvl="0"><w:startOverride w:val="5"/></w:lvlOverride></w:num>
  <w:num w:numId="6"><w:abstractNumId w:val="5"/></w:num>
</w:numbering>`
	item := func(numID string) string {
		return `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="` + numID + `"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>`
	}
	body := item("1") + item("2") + item("3") + item("4") + item("6")

	doc, err := Decode(buildDOCX(t, body, map[string]string{"word/numbering.xml": numbering}))
	if err != nil {
		t.Fatal(err)
	}
	var got []document.ListInfo
	for _, p := range doc.Paragraphs() {
		got = append(got, *p.List)
	}
	want := []document.ListInfo{
		{Kind: document.ListOrdered, NumID: 1},
		{Kind: document.ListOrdered, NumID: 2},
		{Kind: document.ListOrdered, NumID: 1}, // continues the first list
		{Kind: document.ListOrdered, NumID: 4, Start: 5},
		{Kind: document.ListOrdered, NumID: 6, Start: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lists mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"empty", nil},
		{"missing document part", func() []byte {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			w, _ := zw.Create("[Content_Types].xml")
			w.Write([]byte(contentTypesXML))
			zw.Close()
			return buf.Bytes()
		}()},
		{"malformed xml", buildDOCX(t, "<w:p><w:r>", nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.data)
			if !errors.Is(err, errors.ErrCodeSourceRead) {
				t.Fatalf("err = %v, want SOURCE_READ_ERROR", err)
			}
			if doc != nil {
				t.Error("no document should be returned on error")
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("/nonexistent/file.docx"); !errors.Is(err, errors.ErrCodeSourceRead) {
		t.Errorf("err = %v, want SOURCE_READ_ERROR", err)
	}
}
