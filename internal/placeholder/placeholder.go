// Package placeholder implements text substitution of {{ key }} and
// {{ key | default }} markers over a nested data bag. Missing keys never
// fail: the declared default is used, or the marker is left in place so a
// malformed template stays observable in the output instead of silently
// losing content.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

// markerPattern matches {{ key }} and {{ key | default }}. The key may be a
// dotted path; the default is everything between the pipe and the closing
// braces, trimmed.
var markerPattern = regexp.MustCompile(`\{\{\s*([^}|\s][^}|]*?)\s*(?:\|([^}]*))?\}\}`)

// Bag is a nested data bag. Values may be strings, numbers, booleans, or
// further Bag / map[string]any levels reached by dotted paths.
type Bag map[string]any

// Substitute replaces every marker in tmpl in a single pass. Resolved
// values are not rescanned for nested markers, so substitution is
// idempotent on fully-resolved text.
func Substitute(tmpl string, data Bag) string {
	return markerPattern.ReplaceAllStringFunc(tmpl, func(marker string) string {
		groups := markerPattern.FindStringSubmatch(marker)
		key := strings.TrimSpace(groups[1])

		if v, ok := lookup(data, key); ok {
			return fmt.Sprintf("%v", v)
		}
		if strings.Contains(marker, "|") {
			return strings.TrimSpace(groups[2])
		}
		// No value and no default: keep the marker visible.
		return marker
	})
}

// lookup walks the dotted path through the bag. A missing segment or a
// non-traversable intermediate value means "not found"; a nil value found
// at the end of the path also counts as not found.
func lookup(data Bag, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = map[string]any(data)

	for _, seg := range segments {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Bag:
		return m, true
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}
