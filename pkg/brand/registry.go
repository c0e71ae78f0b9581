package brand

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/polisher/pkg/errors"
)

//go:embed brands.toml
var defaultPresets []byte

// SelectAll is the brand argument that selects every registered brand.
const SelectAll = "all"

// Category display order, matching the grouping of the brand menu.
var categoryOrder = []string{"editorial", "consulting", "tech", "productivity", "design"}

// presetFile is the on-disk shape of a preset file.
type presetFile struct {
	Brands map[string]Theme `toml:"brands" yaml:"brands"`
}

// Registry is an immutable, case-insensitive brand lookup.
// It is safe for concurrent use.
type Registry struct {
	themes map[string]Theme
	ids    []string
}

// NewRegistry builds a registry from themes. IDs are lowercased and trimmed;
// a later theme with the same ID replaces an earlier one.
func NewRegistry(themes ...Theme) *Registry {
	r := &Registry{themes: make(map[string]Theme, len(themes))}
	for _, t := range themes {
		id := normalizeID(t.ID)
		t.ID = id
		r.themes[id] = t.clone()
	}
	r.ids = make([]string, 0, len(r.themes))
	for id := range r.themes {
		r.ids = append(r.ids, id)
	}
	slices.Sort(r.ids)
	return r
}

// Default returns the registry of compiled-in presets.
func Default() (*Registry, error) {
	themes, err := decodeTOML(defaultPresets)
	if err != nil {
		return nil, fmt.Errorf("decode built-in presets: %w", err)
	}
	return NewRegistry(themes...), nil
}

// MustDefault is like Default but panics if the built-in presets are broken.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// LoadFile returns the built-in presets overlaid with the presets in path.
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
// An empty path returns the defaults.
func LoadFile(path string) (*Registry, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read brand file %s", path)
	}

	var extra []Theme
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		extra, err = decodeYAML(data)
	default:
		extra, err = decodeTOML(data)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse brand file %s", path)
	}

	return NewRegistry(append(base.Themes(), extra...)...), nil
}

func decodeTOML(data []byte) ([]Theme, error) {
	var f presetFile
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, err
	}
	return f.themes(), nil
}

func decodeYAML(data []byte) ([]Theme, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.themes(), nil
}

func (f presetFile) themes() []Theme {
	out := make([]Theme, 0, len(f.Brands))
	for id, t := range f.Brands {
		t.ID = id
		out = append(out, t)
	}
	return out
}

// Lookup returns the theme registered under id (case-insensitive).
// Unknown identifiers yield an UNKNOWN_BRAND error listing the known ones.
func (r *Registry) Lookup(id string) (Theme, error) {
	t, ok := r.themes[normalizeID(id)]
	if !ok {
		return Theme{}, errors.UnknownBrand(id, r.ids)
	}
	return t.clone(), nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.themes[normalizeID(id)]
	return ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Len returns the number of registered brands.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Themes returns copies of all themes sorted by ID.
func (r *Registry) Themes() []Theme {
	out := make([]Theme, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.themes[id].clone())
	}
	return out
}

// CategoryGroup is a set of themes sharing a category.
type CategoryGroup struct {
	Category string
	Themes   []Theme
}

// ByCategory groups themes by category. Known categories come first in menu
// order; unknown categories follow alphabetically.
func (r *Registry) ByCategory() []CategoryGroup {
	groups := make(map[string][]Theme)
	for _, t := range r.Themes() {
		groups[t.Category] = append(groups[t.Category], t)
	}

	var out []CategoryGroup
	for _, cat := range categoryOrder {
		if ts, ok := groups[cat]; ok {
			out = append(out, CategoryGroup{Category: cat, Themes: ts})
			delete(groups, cat)
		}
	}
	rest := make([]string, 0, len(groups))
	for cat := range groups {
		rest = append(rest, cat)
	}
	slices.Sort(rest)
	for _, cat := range rest {
		out = append(out, CategoryGroup{Category: cat, Themes: groups[cat]})
	}
	return out
}

// Hash returns a content hash of the theme registered under id.
// It changes whenever any style value changes, which makes it usable in cache keys.
func (r *Registry) Hash(id string) (string, error) {
	t, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Select expands a brand argument into identifiers: "all" selects every
// registered brand, a comma-separated list selects each entry. Entries are
// lowercased and trimmed but not checked for existence, so that a single
// unknown brand fails only its own run.
func (r *Registry) Select(arg string) ([]string, error) {
	arg = strings.TrimSpace(arg)
	if strings.EqualFold(arg, SelectAll) {
		return r.IDs(), nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(arg, ",") {
		id := normalizeID(part)
		if id == "" {
			continue
		}
		if err := errors.ValidateBrandID(id); err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no brand selected")
	}
	return ids, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
