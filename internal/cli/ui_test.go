package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/quality"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m BrandPickerModel, keys ...string) (BrandPickerModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(BrandPickerModel)
	}
	return m, cmd
}

func pickerRegistry() *brand.Registry {
	return brand.NewRegistry(
		brand.Theme{ID: "acme", Name: "Acme", Category: "tech"},
		brand.Theme{ID: "bolt", Name: "Bolt", Category: "tech"},
		brand.Theme{ID: "cove", Name: "Cove", Category: "design"},
	)
}

func TestBrandPickerNavigation(t *testing.T) {
	m := NewBrandPickerModel(pickerRegistry())
	if m.Items[m.Cursor].theme.ID != "acme" {
		t.Fatalf("cursor starts on %q, want acme", m.Items[m.Cursor].theme.ID)
	}

	m, _ = press(t, m, "j", "j")
	if got := m.Items[m.Cursor].theme.ID; got != "cove" {
		t.Errorf("cursor skipped to %q, want cove past the heading", got)
	}
	m, _ = press(t, m, "j")
	if got := m.Items[m.Cursor].theme.ID; got != "cove" {
		t.Errorf("cursor moved past the last brand to %q", got)
	}
	m, _ = press(t, m, "k")
	if got := m.Items[m.Cursor].theme.ID; got != "bolt" {
		t.Errorf("cursor = %q, want bolt", got)
	}
}

func TestBrandPickerSelection(t *testing.T) {
	m := NewBrandPickerModel(pickerRegistry())

	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatal("enter with nothing selected should not quit")
	}

	m, _ = press(t, m, "j", " ", "j", "x")
	if diff := cmp.Diff([]string{"bolt", "cove"}, m.Chosen()); diff != "" {
		t.Errorf("Chosen() mismatch (-want +got):\n%s", diff)
	}

	m, _ = press(t, m, "a")
	if got := len(m.Chosen()); got != 3 {
		t.Errorf("after select-all, %d chosen, want 3", got)
	}
	m, _ = press(t, m, "a")
	if got := len(m.Chosen()); got != 0 {
		t.Errorf("after deselect-all, %d chosen, want 0", got)
	}

	m, _ = press(t, m, " ")
	m, cmd = press(t, m, "enter")
	if cmd == nil {
		t.Fatal("enter with a selection should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("enter should return tea.Quit")
	}
	if m.Cancelled {
		t.Error("confirmed picker reported cancelled")
	}
}

func TestBrandPickerCancel(t *testing.T) {
	m, cmd := press(t, NewBrandPickerModel(pickerRegistry()), "x", "esc")
	if !m.Cancelled || cmd == nil {
		t.Error("esc should cancel and quit")
	}
}

func TestBrandPickerView(t *testing.T) {
	m, _ := press(t, NewBrandPickerModel(pickerRegistry()), "x")
	view := m.View()
	for _, want := range []string{"Select Brands", "Tech", "Design", "Acme", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCategoryTitle(t *testing.T) {
	tests := map[string]string{
		"tech":       "Tech",
		"consulting": "Consulting",
		"big_four":   "Big Four",
		"":           "Other",
	}
	for in, want := range tests {
		if got := categoryTitle(in); got != want {
			t.Errorf("categoryTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderBrandMenu(t *testing.T) {
	out := renderBrandMenu(brand.MustDefault())
	for _, want := range []string{"Consulting", "Tech", "mckinsey", "stripe", "#635BFF"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu missing %q", want)
		}
	}
	if strings.Index(out, "Consulting") > strings.Index(out, "Tech") {
		t.Error("categories out of menu order")
	}
}

func TestRenderReport(t *testing.T) {
	issues := []quality.Issue{
		{Category: quality.CategoryStructure, Severity: quality.Review, Description: "heading level skipped", Location: "section 1, block 3"},
	}
	out := renderReport(quality.NeedsAttention, issues)
	for _, want := range []string{"NEEDS_ATTENTION", "review", "structure", "heading level skipped", "section 1, block 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if out := renderReport(quality.Perfect, nil); !strings.Contains(out, "no issues") {
		t.Errorf("empty report = %q", out)
	}
}

func TestWriteCompletion(t *testing.T) {
	root := newTestCLI(t).RootCommand()
	for _, shell := range completionShells {
		var buf bytes.Buffer
		if err := writeCompletion(root, shell, &buf); err != nil {
			t.Errorf("%s: %v", shell, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty script", shell)
		}
	}
	if err := writeCompletion(root, "tcsh", &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
