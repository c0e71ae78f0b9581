package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/polisher/pkg/errors"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	want := []string{"apple", "deloitte", "economist", "figma", "ibm", "kpmg", "linear", "mckinsey", "notion", "stripe"}
	if diff := cmp.Diff(want, r.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}

	for _, theme := range r.Themes() {
		if err := theme.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", theme.ID, err)
		}
	}
}

func TestMcKinseyBodyFont(t *testing.T) {
	theme, err := MustDefault().Lookup("mckinsey")
	if err != nil {
		t.Fatal(err)
	}
	if theme.Typography.BodyFont != "Georgia" {
		t.Errorf("BodyFont = %q, want Georgia", theme.Typography.BodyFont)
	}
}

func TestLookup(t *testing.T) {
	r := MustDefault()

	tests := []struct {
		name    string
		id      string
		wantID  string
		wantErr bool
	}{
		{"exact", "stripe", "stripe", false},
		{"upper case", "STRIPE", "stripe", false},
		{"padded", "  Notion ", "notion", false},
		{"unknown", "globex", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := r.Lookup(tt.id)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnknownBrand) {
					t.Fatalf("err = %v, want UNKNOWN_BRAND", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if theme.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", theme.ID, tt.wantID)
			}
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	r := MustDefault()
	a, _ := r.Lookup("ibm")
	a.Styles[StyleBody] = TextStyle{Size: 99}

	b, _ := r.Lookup("ibm")
	if b.Styles[StyleBody].Size == 99 {
		t.Error("mutating a looked-up theme leaked into the registry")
	}
}

func TestUnknownBrandListsAvailable(t *testing.T) {
	r := NewRegistry(Theme{ID: "a"}, Theme{ID: "b"})
	_, err := r.Lookup("globex")
	want := `brand "globex" not found (available: a, b)`
	if got := errors.UserMessage(err); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestByCategory(t *testing.T) {
	groups := MustDefault().ByCategory()

	var got []string
	for _, g := range groups {
		got = append(got, g.Category)
	}
	want := []string{"editorial", "consulting", "tech", "productivity", "design"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	var consulting []string
	for _, th := range groups[1].Themes {
		consulting = append(consulting, th.ID)
	}
	if diff := cmp.Diff([]string{"deloitte", "kpmg", "mckinsey"}, consulting); diff != "" {
		t.Errorf("consulting mismatch (-want +got):\n%s", diff)
	}
}

func TestByCategoryUnknownLast(t *testing.T) {
	r := NewRegistry(
		Theme{ID: "z", Category: "zine"},
		Theme{ID: "a", Category: "art"},
		Theme{ID: "e", Category: "editorial"},
	)
	var got []string
	for _, g := range r.ByCategory() {
		got = append(got, g.Category)
	}
	if diff := cmp.Diff([]string{"editorial", "art", "zine"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHash(t *testing.T) {
	base := MustDefault().Themes()
	r1 := NewRegistry(base...)

	h1, err := r1.Hash("apple")
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := r1.Hash("APPLE")
	if h1 != h2 {
		t.Error("Hash should be case-insensitive and deterministic")
	}

	changed, _ := r1.Lookup("apple")
	changed.Styles[StyleH1] = TextStyle{Size: 40, Color: "#000000", Bold: true}
	r2 := NewRegistry(changed)
	h3, _ := r2.Hash("apple")
	if h1 == h3 {
		t.Error("Hash should change when a style changes")
	}

	if _, err := r1.Hash("globex"); !errors.Is(err, errors.ErrCodeUnknownBrand) {
		t.Errorf("Hash(unknown) err = %v", err)
	}
}

func TestSelect(t *testing.T) {
	r := MustDefault()

	tests := []struct {
		name    string
		arg     string
		want    []string
		wantErr bool
	}{
		{"single", "stripe", []string{"stripe"}, false},
		{"csv", "Stripe, ibm,stripe", []string{"stripe", "ibm"}, false},
		{"unknown kept", "stripe,globex", []string{"stripe", "globex"}, false},
		{"all", "ALL", r.IDs(), false},
		{"empty", " , ", nil, true},
		{"bad char", "a/b", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Select(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "extra.toml")
	tomlData := `
[brands.acme]
name = "Acme"
category = "tech"

[brands.acme.colors]
primary = "#112233"
accent = "#445566"
textPrimary = "#000000"
textSecondary = "#777777"

[brands.acme.typography]
headingFont = "Inter"
bodyFont = "Inter"

[brands.acme.styles.h1]
size = 24.0
color = "#112233"
bold = true
`
	if err := os.WriteFile(tomlPath, []byte(tomlData), 0o644); err != nil {
		t.Fatal(err)
	}

	yamlPath := filepath.Join(dir, "extra.yaml")
	yamlData := `
brands:
  stripe:
    name: Stripe Override
    category: tech
    colors:
      primary: "#000000"
      accent: "#111111"
      textPrimary: "#222222"
      textSecondary: "#333333"
    typography:
      headingFont: Arial
      bodyFont: Arial
    styles:
      h1: {size: 20, color: "#000000", bold: true}
      h2: {size: 16, color: "#000000", bold: true}
      h3: {size: 14, color: "#000000", bold: true}
      body: {size: 10, color: "#222222"}
      caption: {size: 8, color: "#333333", italic: true}
`
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("toml adds brand", func(t *testing.T) {
		r, err := LoadFile(tomlPath)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if r.Len() != 11 {
			t.Errorf("Len = %d, want 11", r.Len())
		}
		acme, err := r.Lookup("acme")
		if err != nil {
			t.Fatal(err)
		}
		// Incomplete preset loads, but fails validation on the first missing style.
		if err := acme.Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("Validate err = %v, want CONFIGURATION_ERROR", err)
		}
	})

	t.Run("yaml overrides brand", func(t *testing.T) {
		r, err := LoadFile(yamlPath)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if r.Len() != 10 {
			t.Errorf("Len = %d, want 10", r.Len())
		}
		s, _ := r.Lookup("stripe")
		if s.Name != "Stripe Override" {
			t.Errorf("Name = %q", s.Name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.toml"))
		if !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("err = %v, want CONFIGURATION_ERROR", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		r, err := LoadFile("")
		if err != nil || r.Len() != 10 {
			t.Errorf("LoadFile(\"\") = %v, %v", r, err)
		}
	})
}
