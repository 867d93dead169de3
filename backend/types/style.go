package types

import (
	"strings"
	"sync"
)

// StyleProperty is one `name: value` declaration.
type StyleProperty struct {
	Name  string
	Value string
}

// StyleObject is a parsed inline CSS string. Declarations keep the order in
// which they first appeared.
type StyleObject []StyleProperty

var styleCache = newStyleCache()

type StyleCache struct {
	mu      sync.Mutex
	entries map[string]StyleObject
}

func newStyleCache() *StyleCache {
	return &StyleCache{
		mu:      sync.Mutex{},
		entries: make(map[string]StyleObject),
	}
}

// ParseStyle parses css into a style object. Results are cached by input.
func ParseStyle(css string) StyleObject {
	styleCache.mu.Lock()
	defer styleCache.mu.Unlock()

	if cached, ok := styleCache.entries[css]; ok {
		return cached.Clone()
	}
	obj := parseStyle(css)
	styleCache.entries[css] = obj
	return obj.Clone()
}

func parseStyle(css string) StyleObject {
	obj := StyleObject{}
	for _, decl := range strings.Split(css, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		obj = obj.Set(name, value)
	}
	return obj
}

func (o StyleObject) Clone() StyleObject {
	c := make(StyleObject, len(o))
	copy(c, o)
	return c
}

// Get returns the value of the named property.
func (o StyleObject) Get(name string) (string, bool) {
	for _, p := range o {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Set replaces the value of name in place or appends it.
func (o StyleObject) Set(name, value string) StyleObject {
	for i, p := range o {
		if p.Name == name {
			o[i].Value = value
			return o
		}
	}
	return append(o, StyleProperty{Name: name, Value: value})
}

// Delete removes name.
func (o StyleObject) Delete(name string) StyleObject {
	for i, p := range o {
		if p.Name == name {
			return append(o[:i], o[i+1:]...)
		}
	}
	return o
}

// CSS serializes the object back to an inline style string.
func (o StyleObject) CSS() string {
	var b strings.Builder
	for _, p := range o {
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString(";")
	}
	return b.String()
}

// ---------------------Patches------------------------

type styleValueKind int

const (
	styleLiteral styleValueKind = iota
	styleRemove
	styleDerive
)

// StyleValue is the new value of one property in a StylePatch.
type StyleValue struct {
	kind    styleValueKind
	literal string
	derive  func(prev string, node *Node) string
}

// Literal replaces the property with v.
func Literal(v string) StyleValue {
	return StyleValue{kind: styleLiteral, literal: v}
}

// Remove deletes the property.
func Remove() StyleValue {
	return StyleValue{kind: styleRemove}
}

// Derive computes the new value from the previous one ("" when absent). node
// is the text node being styled, or nil when patching a selection's pending
// style. Returning "" removes the property.
func Derive(fn func(prev string, node *Node) string) StyleValue {
	return StyleValue{kind: styleDerive, derive: fn}
}

// StyleChange assigns Value to Property.
type StyleChange struct {
	Property string
	Value    StyleValue
}

// StylePatch is an ordered list of property changes.
type StylePatch []StyleChange

// Apply returns css with the patch applied.
func (p StylePatch) Apply(css string, node *Node) string {
	prev := ParseStyle(css)
	next := prev.Clone()
	for _, change := range p {
		switch change.Value.kind {
		case styleRemove:
			next = next.Delete(change.Property)
		case styleDerive:
			old, _ := prev.Get(change.Property)
			v := change.Value.derive(old, node)
			if v == "" {
				next = next.Delete(change.Property)
			} else {
				next = next.Set(change.Property, v)
			}
		default:
			if change.Value.literal == "" {
				next = next.Delete(change.Property)
			} else {
				next = next.Set(change.Property, change.Value.literal)
			}
		}
	}
	return next.CSS()
}

// StyleValueOf returns the value of property in css, or "".
func StyleValueOf(css, property string) string {
	v, _ := ParseStyle(css).Get(property)
	return v
}
