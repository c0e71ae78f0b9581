package docx

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/polisher/pkg/document"
)

func styledDocument() *document.Document {
	heading := document.Heading(1, "Overview")
	heading.Style = document.CharStyle{Font: "Arial", Size: 24, Color: "051C2C"}
	heading.Format = document.ParagraphFormat{SpaceAfter: 18, KeepWithNext: true}

	body := &document.Paragraph{
		Role:      document.RoleBody,
		Alignment: document.AlignJustify,
		Style:     document.CharStyle{Font: "Georgia", Size: 10.5, Color: "000000"},
		Format:    document.ParagraphFormat{SpaceAfter: 10, LineSpacing: 1.15},
		Runs: []document.Run{
			{Text: "Plain "},
			{Text: "bold", Bold: true},
			{Text: " and\ttabbed ", Italic: true, Underline: true},
		},
	}

	item := document.ListItem(document.ListOrdered, 1, "step")
	item.Format = document.ParagraphFormat{SpaceBefore: 2, SpaceAfter: 2}

	quote := document.Quote("quoted")
	quote.Format = document.ParagraphFormat{SpaceBefore: 12, SpaceAfter: 12, IndentLeft: 36, IndentRight: 36}

	tbl := document.NewTable([]string{"Region", "Revenue"}, []string{"EMEA", "12"})
	tbl.Layout = &document.TableLayout{Fractions: []float64{0.5, 0.5}, Widths: []float64{216, 216}}
	tbl.Rows[0].MinHeight = 28
	for _, c := range tbl.Rows[0].Cells {
		c.Shading = "D9E2FF"
		c.Borders.Bottom = document.Border{Width: 1.5, Color: "2251FF"}
		c.Padding = document.Padding{Top: 6, Bottom: 6, Left: 8, Right: 8}
	}
	for _, c := range tbl.Rows[1].Cells {
		c.Borders.Bottom = document.Border{Width: 0.5, Color: "D9D9D9"}
	}

	return &document.Document{Sections: []*document.Section{
		{Margins: document.Margins{Top: 36, Bottom: 36, Left: 36, Right: 36}, Blocks: []document.Block{
			document.Title("Report"),
			heading,
		}},
		{Margins: document.ProfessionalMargins, Blocks: []document.Block{
			body,
			item,
			quote,
			document.Caption("Figure 1"),
			document.Body(""),
			tbl,
		}},
	}}
}

func TestRoundTrip(t *testing.T) {
	src := styledDocument()

	data, err := Encode(src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	opts := cmp.Options{
		cmpopts.IgnoreFields(document.Paragraph{}, "StyleName"),
		cmpopts.IgnoreFields(document.Table{}, "Layout"),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(src, got, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeParts(t *testing.T) {
	data, err := Encode(styledDocument())
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml", "_rels/.rels", "word/_rels/document.xml.rels",
		"word/document.xml", "word/styles.xml", "word/numbering.xml", "docProps/core.xml",
	} {
		if !names[want] {
			t.Errorf("missing part %s", want)
		}
	}
}

func TestEncodeDocumentXML(t *testing.T) {
	data, err := Encode(styledDocument())
	if err != nil {
		t.Fatal(err)
	}
	r := &reader{files: make(map[string]*zip.File)}
	zr, _ := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	for _, f := range zr.File {
		r.files[f.Name] = f
	}
	main, err := r.content("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	xml := string(main)

	for _, want := range []string{
		`<w:document xmlns:w="` + nsW + `"`,
		`<w:pStyle w:val="Heading1"></w:pStyle>`,
		`<w:rFonts w:ascii="Georgia" w:hAnsi="Georgia" w:cs="Georgia">`,
		`<w:sz w:val="21"></w:sz>`,
		`<w:t xml:space="preserve">Plain </w:t>`,
		`<w:tab></w:tab>`,
		`<w:gridCol w:w="4320"></w:gridCol>`,
		`<w:tblHeader></w:tblHeader>`,
		`<w:trHeight w:val="560" w:hRule="atLeast"></w:trHeight>`,
		`<w:shd w:val="clear" w:color="auto" w:fill="D9E2FF"></w:shd>`,
		`<w:left w:val="nil" w:space="0"></w:left>`,
		`<w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800"`,
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

func twoOrderedLists() *document.Document {
	second := func(text string) *document.Paragraph {
		p := document.ListItem(document.ListOrdered, 0, text)
		p.List.NumID = 2
		return p
	}
	third := document.ListItem(document.ListOrdered, 0, "from seven")
	third.List.NumID = 3
	third.List.Start = 7
	return document.New(
		document.ListItem(document.ListOrdered, 0, "one"),
		document.ListItem(document.ListOrdered, 0, "two"),
		document.Body("between"),
		second("again one"),
		second("again two"),
		document.ListItem(document.ListUnordered, 0, "bullet"),
		third,
	)
}

func TestEncodeRestartsOrderedLists(t *testing.T) {
	numbering := newEncoder(twoOrderedLists()).numbering()

	type num struct {
		Abstract string
		Start    string
	}
	var got []num
	for _, n := range numbering.Nums {
		var start string
		for _, o := range n.LvlOverrides {
			if o.ILvl == 0 {
				start = o.StartOverride.Val
			}
		}
		got = append(got, num{n.AbstractNumID.Val, start})
	}
	want := []num{{"1", "1"}, {"1", "1"}, {"0", ""}, {"1", "7"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nums mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripListSequences(t *testing.T) {
	src := twoOrderedLists()
	data, err := Encode(src)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	var got []document.ListInfo
	for _, p := range doc.Paragraphs() {
		if p.List != nil {
			got = append(got, *p.List)
		}
	}
	want := []document.ListInfo{
		{Kind: document.ListOrdered, NumID: 1},
		{Kind: document.ListOrdered, NumID: 1},
		{Kind: document.ListOrdered, NumID: 2},
		{Kind: document.ListOrdered, NumID: 2},
		{Kind: document.ListUnordered, NumID: 3},
		{Kind: document.ListOrdered, NumID: 4, Start: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lists mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmptyCell(t *testing.T) {
	tbl := &document.Table{Rows: []*document.Row{{Cells: []*document.Cell{{Span: 1}}}}}
	data, err := Encode(document.New(tbl))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(doc.Tables()[0].Rows[0].Cells[0].Paragraphs); n != 1 {
		t.Errorf("cell paragraphs = %d, want 1", n)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	if err := WriteFile(path, styledDocument()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := len(doc.Sections); got != 2 {
		t.Errorf("sections = %d, want 2", got)
	}
}
