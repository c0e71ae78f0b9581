package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDocument() *Document {
	tbl := NewTable([]string{"Name", "Value"}, []string{"a", "1"}, []string{"b"})
	tbl.Rows[1].Cells[0].Span = 2
	return &Document{Sections: []*Section{{
		Margins: Margins{Top: 36, Bottom: 36, Left: 36, Right: 36},
		Blocks: []Block{
			Title("Annual report"),
			Heading(1, "Overview"),
			&Paragraph{Role: RoleBody, Runs: []Run{{Text: "Hello "}, {Text: "world", Bold: true}}},
			ListItem(ListOrdered, 1, "first"),
			tbl,
		},
	}}}
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	cp := doc.Clone()

	if diff := cmp.Diff(doc, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	cp.Sections[0].Margins.Top = 1
	cp.Paragraphs()[2].Runs[1].Text = "changed"
	cp.Paragraphs()[3].List.Depth = 5
	cp.Tables()[0].Rows[0].Cells[0].Paragraphs[0].Runs[0].Text = "changed"

	if doc.Sections[0].Margins.Top != 36 {
		t.Error("section margins shared")
	}
	if doc.Paragraphs()[2].Runs[1].Text != "world" {
		t.Error("runs shared")
	}
	if doc.Paragraphs()[3].List.Depth != 1 {
		t.Error("list info shared")
	}
	if doc.Tables()[0].Rows[0].Cells[0].Text() != "Name" {
		t.Error("table cells shared")
	}
}

func TestCloneNil(t *testing.T) {
	var d *Document
	if d.Clone() != nil {
		t.Error("nil document should clone to nil")
	}
}

func TestQueries(t *testing.T) {
	doc := sampleDocument()
	if got := len(doc.Paragraphs()); got != 4 {
		t.Errorf("Paragraphs = %d, want 4", got)
	}
	if got := len(doc.Tables()); got != 1 {
		t.Errorf("Tables = %d, want 1", got)
	}
	hs := doc.Headings()
	if len(hs) != 1 || hs[0].Text() != "Overview" {
		t.Errorf("Headings = %v", hs)
	}
}

func TestParagraphText(t *testing.T) {
	tests := []struct {
		name  string
		p     *Paragraph
		text  string
		words int
		empty bool
	}{
		{"single run", Body("one two three"), "one two three", 3, false},
		{"multi run", &Paragraph{Runs: []Run{{Text: "a "}, {Text: "b"}}}, "a b", 2, false},
		{"no runs", Body(""), "", 0, true},
		{"whitespace", Body("   \t"), "   \t", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Text(); got != tt.text {
				t.Errorf("Text = %q, want %q", got, tt.text)
			}
			if got := tt.p.WordCount(); got != tt.words {
				t.Errorf("WordCount = %d, want %d", got, tt.words)
			}
			if got := tt.p.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestRunBold(t *testing.T) {
	p := &Paragraph{Style: CharStyle{Bold: true}}
	if !p.RunBold(Run{}) {
		t.Error("style bold should apply to plain run")
	}
	p.Style.Bold = false
	if !p.RunBold(Run{Bold: true}) {
		t.Error("run emphasis must not be stripped")
	}
	if p.RunBold(Run{}) {
		t.Error("plain run in plain style should not be bold")
	}
}

func TestTableGeometry(t *testing.T) {
	tests := []struct {
		name   string
		table  *Table
		cols   int
		ragged bool
	}{
		{"square", NewTable([]string{"a", "b"}, []string{"1", "2"}), 2, false},
		{"ragged", NewTable([]string{"a", "b", "c"}, []string{"1", "2", "3"}, []string{"x", "y"}), 3, true},
		{"span evens out", func() *Table {
			t := NewTable([]string{"a", "b"}, []string{"wide"})
			t.Rows[1].Cells[0].Span = 2
			return t
		}(), 2, false},
		{"empty", &Table{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.ColumnCount(); got != tt.cols {
				t.Errorf("ColumnCount = %d, want %d", got, tt.cols)
			}
			if got := tt.table.IsRagged(); got != tt.ragged {
				t.Errorf("IsRagged = %v, want %v", got, tt.ragged)
			}
		})
	}
}

func TestHeaderRows(t *testing.T) {
	tbl := NewTable([]string{"h"}, []string{"b"})
	if got := len(tbl.HeaderRows()); got != 1 {
		t.Errorf("HeaderRows = %d, want 1", got)
	}
	if got := len(NewTable(nil, []string{"b"}).HeaderRows()); got != 0 {
		t.Errorf("HeaderRows = %d, want 0", got)
	}
}

func TestContentWidth(t *testing.T) {
	if got := ProfessionalMargins.ContentWidth(); got != 432 {
		t.Errorf("ContentWidth = %v, want 432", got)
	}
}

func TestRoleString(t *testing.T) {
	if RoleListItem.String() != "list-item" || Role(99).String() != "unknown" {
		t.Error("unexpected role names")
	}
}
