// Package brand holds the static brand identities the service sends mail
// for, and the resolver that decides which brand and locale an inbound
// billing event belongs to.
package brand

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Locale is an enumerated content locale.
type Locale string

const (
	LocaleEN Locale = "en"
	LocalePL Locale = "pl"
)

// DefaultLocale is used whenever no metadata tier yields a valid locale.
const DefaultLocale = LocaleEN

var knownLocales = map[Locale]struct{}{
	LocaleEN: {},
	LocalePL: {},
}

// ParseLocale matches a raw metadata value against the closed locale set,
// case-insensitively. ok is false for unrecognized values.
func ParseLocale(raw string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := knownLocales[l]
	return l, ok
}

// Brand is one sending identity. Brands are process-wide static
// configuration loaded once at startup and never mutated at runtime.
type Brand struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	FromAddress string `yaml:"from_address"`
	ReplyTo     string `yaml:"reply_to"`
	// Region selects the sending region / configuration set on the email
	// transport.
	Region string `yaml:"region"`
	// StylesheetPath is the template-store path of the brand's CSS, inlined
	// into outgoing HTML. Empty means the brand ships unstyled mail.
	StylesheetPath string `yaml:"stylesheet_path"`
}

// Registry is the closed set of brand identities.
type Registry struct {
	brands    map[string]Brand
	defaultID string
}

type brandsFile struct {
	Brands []Brand `yaml:"brands"`
}

// LoadRegistry reads the brands YAML file and validates it against the
// configured default brand id.
func LoadRegistry(path, defaultID string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading brands file %q: %w", path, err)
	}

	var f brandsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing brands file %q: %w", path, err)
	}
	return NewRegistry(f.Brands, defaultID)
}

// NewRegistry builds a Registry from an explicit brand list.
func NewRegistry(brands []Brand, defaultID string) (*Registry, error) {
	if len(brands) == 0 {
		return nil, fmt.Errorf("no brands configured")
	}

	r := &Registry{
		brands:    make(map[string]Brand, len(brands)),
		defaultID: strings.ToLower(strings.TrimSpace(defaultID)),
	}
	for _, b := range brands {
		id := strings.ToLower(strings.TrimSpace(b.ID))
		if id == "" {
			return nil, fmt.Errorf("brand with empty id in configuration")
		}
		if b.FromAddress == "" {
			return nil, fmt.Errorf("brand %q has no from address", id)
		}
		b.ID = id
		r.brands[id] = b
	}

	if _, ok := r.brands[r.defaultID]; !ok {
		return nil, fmt.Errorf("default brand %q is not in the configured brand set", defaultID)
	}
	return r, nil
}

// Get returns the brand with the given id.
func (r *Registry) Get(id string) (Brand, bool) {
	b, ok := r.brands[strings.ToLower(strings.TrimSpace(id))]
	return b, ok
}

// Default returns the configured default brand.
func (r *Registry) Default() Brand {
	return r.brands[r.defaultID]
}

// IDs returns all configured brand ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.brands))
	for id := range r.brands {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
