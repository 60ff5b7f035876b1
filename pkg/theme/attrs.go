package theme

import "strings"

// Attr is one entry of a style descriptor. Flags are bare tokens without a
// value, such as the leading shape name of "rhombus;fillColor=...".
type Attr struct {
	Key   string
	Value string
	Flag  bool
}

// Attrs is an ordered style descriptor. Order is preserved through parse,
// mutation, and render so identical inputs produce identical style strings.
type Attrs []Attr

// ParseAttrs splits a semicolon-separated style string into ordered attrs.
// Empty segments are dropped.
func ParseAttrs(style string) Attrs {
	parts := strings.Split(style, ";")
	attrs := make(Attrs, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if k, v, ok := strings.Cut(p, "="); ok {
			attrs = append(attrs, Attr{Key: k, Value: v})
		} else {
			attrs = append(attrs, Attr{Key: p, Flag: true})
		}
	}
	return attrs
}

// Get returns the value of the first attribute with the given key.
func (a Attrs) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key && !attr.Flag {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key in place, or appends the pair.
// Replacing in place keeps the descriptor order stable across mutations.
func (a Attrs) Set(key, value string) Attrs {
	for i, attr := range a {
		if attr.Key == key && !attr.Flag {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Key: key, Value: value})
}

// Remove deletes every attribute with the given key.
func (a Attrs) Remove(key string) Attrs {
	out := a[:0]
	for _, attr := range a {
		if attr.Key != key {
			out = append(out, attr)
		}
	}
	return out
}

// String renders the descriptor back to draw.io style syntax.
// Every entry is terminated with a semicolon, matching the document format.
func (a Attrs) String() string {
	var b strings.Builder
	for _, attr := range a {
		if attr.Flag {
			b.WriteString(attr.Key)
		} else {
			b.WriteString(attr.Key)
			b.WriteByte('=')
			b.WriteString(attr.Value)
		}
		b.WriteByte(';')
	}
	return b.String()
}
