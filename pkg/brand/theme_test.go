package brand

import (
	"strings"
	"testing"

	"github.com/matzehuels/polisher/pkg/errors"
)

func validTheme() Theme {
	return Theme{
		ID:   "test",
		Name: "Test",
		Colors: Colors{
			Primary:       "#112233",
			Accent:        "#445566",
			TextPrimary:   "#000000",
			TextSecondary: "#777777",
		},
		Typography: Typography{HeadingFont: "Arial", BodyFont: "Georgia"},
		Styles: map[string]TextStyle{
			StyleH1:      {Size: 24, Color: "#112233", Bold: true},
			StyleH2:      {Size: 18, Color: "#112233", Bold: true},
			StyleH3:      {Size: 14, Color: "#000000", Bold: true},
			StyleBody:    {Size: 11, Color: "#000000"},
			StyleCaption: {Size: 9, Color: "#777777", Italic: true},
		},
	}
}

func TestThemeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Theme)
		wantKey string
	}{
		{"valid", func(*Theme) {}, ""},
		{"missing h3", func(th *Theme) { delete(th.Styles, StyleH3) }, "styles.h3"},
		{"missing caption", func(th *Theme) { delete(th.Styles, StyleCaption) }, "styles.caption"},
		{"zero size", func(th *Theme) { th.Styles[StyleBody] = TextStyle{Color: "#000000"} }, "styles.body.size"},
		{"bad style color", func(th *Theme) { th.Styles[StyleH2] = TextStyle{Size: 1, Color: "blue"} }, "styles.h2.color"},
		{"bad accent", func(th *Theme) { th.Colors.Accent = "#12345" }, "colors.accent"},
		{"bad background", func(th *Theme) { th.Colors.Background = "#GGGGGG" }, "colors.background"},
		{"no heading font", func(th *Theme) { th.Typography.HeadingFont = "" }, "typography.headingFont"},
		{"no body font", func(th *Theme) { th.Typography.BodyFont = "" }, "typography.bodyFont"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := validTheme()
			tt.mutate(&th)
			err := th.Validate()
			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Fatalf("err = %v, want CONFIGURATION_ERROR", err)
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("err %q does not name %q", err, tt.wantKey)
			}
		})
	}
}

func TestThemeStyle(t *testing.T) {
	th := validTheme()
	if s, ok := th.Style(StyleH1); !ok || s.Size != 24 {
		t.Errorf("Style(h1) = %v, %v", s, ok)
	}
	if _, ok := th.Style("h4"); ok {
		t.Error("Style(h4) should not exist")
	}
}
