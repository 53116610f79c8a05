package dom

import (
	"sort"
	"strings"
)

// Style is an element's inline style: an insertion-ordered property map.
// Property names are stored as given (camelCase or kebab-case).
type Style struct {
	props []Attr
}

func newStyle() *Style { return &Style{} }

// Set assigns a property.
func (s *Style) Set(prop, value string) {
	for i := range s.props {
		if s.props[i].Name == prop {
			s.props[i].Value = value
			return
		}
	}
	s.props = append(s.props, Attr{Name: prop, Value: value})
}

// Get returns a property value.
func (s *Style) Get(prop string) (string, bool) {
	for _, p := range s.props {
		if p.Name == prop {
			return p.Value, true
		}
	}
	return "", false
}

// Remove deletes a property.
func (s *Style) Remove(prop string) {
	for i, p := range s.props {
		if p.Name == prop {
			s.props = append(s.props[:i], s.props[i+1:]...)
			return
		}
	}
}

// Assign merges props in key order. Properties not named are kept.
func (s *Style) Assign(props map[string]string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, props[k])
	}
}

// Len returns the number of properties.
func (s *Style) Len() int { return len(s.props) }

// CSSText serializes the style as a declaration list with kebab-case names.
func (s *Style) CSSText() string {
	parts := make([]string, 0, len(s.props))
	for _, p := range s.props {
		parts = append(parts, kebab(p.Name)+": "+p.Value)
	}
	return strings.Join(parts, "; ")
}

// kebab converts backgroundColor to background-color.
func kebab(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
