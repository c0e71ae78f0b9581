// Package brand provides the brand presets that drive document styling.
//
// A [Theme] is a resolved style configuration: colors, fonts, per-heading-level
// size and weight, and table rules. Themes are plain values; a [Registry] maps
// case-insensitive brand identifiers onto them and is passed explicitly to the
// components that need it, so concurrent runs for different brands never share
// mutable state.
//
// # Presets
//
// Ten presets are compiled in from brands.toml (see [Default]). Additional or
// replacement presets can be loaded from TOML or YAML files with [LoadFile].
//
// # Validation
//
// Lookups do not validate. Completeness is checked by [Theme.Validate], which
// the styling engine calls before building anything, so one broken preset only
// fails the runs that request it.
package brand

import (
	"maps"

	"github.com/matzehuels/polisher/pkg/errors"
)

// Style keys every theme must define.
const (
	StyleH1      = "h1"
	StyleH2      = "h2"
	StyleH3      = "h3"
	StyleBody    = "body"
	StyleCaption = "caption"
)

// RequiredStyles lists the style keys in the order they are validated.
var RequiredStyles = []string{StyleH1, StyleH2, StyleH3, StyleBody, StyleCaption}

// Theme is a brand's complete style configuration.
type Theme struct {
	ID          string               `toml:"-" yaml:"-" json:"id"`
	Name        string               `toml:"name" yaml:"name" json:"name"`
	Category    string               `toml:"category" yaml:"category" json:"category"`
	Description string               `toml:"description" yaml:"description" json:"description,omitempty"`
	Colors      Colors               `toml:"colors" yaml:"colors" json:"colors"`
	Typography  Typography           `toml:"typography" yaml:"typography" json:"typography"`
	Styles      map[string]TextStyle `toml:"styles" yaml:"styles" json:"styles"`
	Elements    Elements             `toml:"elements" yaml:"elements" json:"elements"`
}

// Colors holds the palette as "#RRGGBB" strings.
type Colors struct {
	Primary       string `toml:"primary" yaml:"primary" json:"primary"`
	Accent        string `toml:"accent" yaml:"accent" json:"accent"`
	Background    string `toml:"background" yaml:"background" json:"background"`
	TextPrimary   string `toml:"textPrimary" yaml:"textPrimary" json:"textPrimary"`
	TextSecondary string `toml:"textSecondary" yaml:"textSecondary" json:"textSecondary"`
}

// Typography names the font families and their nominal weights.
type Typography struct {
	HeadingFont   string `toml:"headingFont" yaml:"headingFont" json:"headingFont"`
	BodyFont      string `toml:"bodyFont" yaml:"bodyFont" json:"bodyFont"`
	HeadingWeight string `toml:"headingWeight" yaml:"headingWeight" json:"headingWeight,omitempty"`
	BodyWeight    string `toml:"bodyWeight" yaml:"bodyWeight" json:"bodyWeight,omitempty"`
}

// TextStyle is the character formatting for one structural role.
type TextStyle struct {
	Size   float64 `toml:"size" yaml:"size" json:"size"` // points
	Color  string  `toml:"color" yaml:"color" json:"color"`
	Bold   bool    `toml:"bold" yaml:"bold" json:"bold"`
	Italic bool    `toml:"italic" yaml:"italic" json:"italic,omitempty"`
}

// Elements carries the decorative rules a brand applies.
type Elements struct {
	BorderRadius string `toml:"borderRadius" yaml:"borderRadius" json:"borderRadius,omitempty"`
	TableStyle   string `toml:"tableStyle" yaml:"tableStyle" json:"tableStyle,omitempty"`
	AccentUse    string `toml:"accentUse" yaml:"accentUse" json:"accentUse,omitempty"`
}

// Style returns the text style registered under key.
func (t Theme) Style(key string) (TextStyle, bool) {
	s, ok := t.Styles[key]
	return s, ok
}

// clone returns a copy that shares no mutable state with t.
func (t Theme) clone() Theme {
	t.Styles = maps.Clone(t.Styles)
	return t
}

// Validate checks that the theme is complete and well-formed.
// It returns a CONFIGURATION_ERROR naming the first offending key.
func (t Theme) Validate() error {
	id := t.ID
	for _, key := range RequiredStyles {
		s, ok := t.Styles[key]
		if !ok {
			return errors.ConfigurationError(id, "styles."+key, "")
		}
		if s.Size <= 0 {
			return errors.ConfigurationError(id, "styles."+key+".size", "must be positive, got %v", s.Size)
		}
		if _, err := ParseHex(s.Color); err != nil {
			return errors.ConfigurationError(id, "styles."+key+".color", "%v", err)
		}
	}

	colors := []struct {
		key, val string
	}{
		{"colors.primary", t.Colors.Primary},
		{"colors.accent", t.Colors.Accent},
		{"colors.textPrimary", t.Colors.TextPrimary},
		{"colors.textSecondary", t.Colors.TextSecondary},
	}
	for _, c := range colors {
		if _, err := ParseHex(c.val); err != nil {
			return errors.ConfigurationError(id, c.key, "%v", err)
		}
	}
	if t.Colors.Background != "" {
		if _, err := ParseHex(t.Colors.Background); err != nil {
			return errors.ConfigurationError(id, "colors.background", "%v", err)
		}
	}

	if t.Typography.HeadingFont == "" {
		return errors.ConfigurationError(id, "typography.headingFont", "")
	}
	if t.Typography.BodyFont == "" {
		return errors.ConfigurationError(id, "typography.bodyFont", "")
	}
	return nil
}
