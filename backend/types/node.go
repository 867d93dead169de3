package types

import (
	"strings"
	"unicode/utf8"
)

// ---------------------Node Functions------------------------

// Clone returns a copy of the node that shares nothing mutable with n.
func (n *Node) Clone() *Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]NodeKey, len(n.Children))
		copy(c.Children, n.Children)
	}
	return &c
}

func (n *Node) IsRoot() bool { return n != nil && n.Kind == RootKind }

func (n *Node) IsText() bool { return n != nil && n.Kind == TextKind }

func (n *Node) IsLineBreak() bool { return n != nil && n.Kind == LineBreakKind }

func (n *Node) IsDecorator() bool { return n != nil && n.Kind == DecoratorKind }

// IsElement reports whether n can own children. The root is an element.
func (n *Node) IsElement() bool {
	return n != nil && (n.Kind == ElementKind || n.Kind == RootKind)
}

// IsLeaf reports whether n is a text, line break or decorator node.
func (n *Node) IsLeaf() bool {
	return n != nil && (n.Kind == TextKind || n.Kind == LineBreakKind || n.Kind == DecoratorKind)
}

// IsRootLike reports whether n bounds an independent sub-document: the root
// itself or a shadow root such as a table cell.
func (n *Node) IsRootLike() bool {
	return n != nil && (n.Kind == RootKind || (n.Kind == ElementKind && n.ShadowRoot))
}

// IsInline reports whether n flows inside its parent's line.
func (n *Node) IsInline() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case TextKind, LineBreakKind:
		return true
	case ElementKind, DecoratorKind:
		return n.Inline
	default:
		return false
	}
}

func (n *Node) IsToken() bool { return n.IsText() && n.Mode == TokenMode }

func (n *Node) IsSegmented() bool { return n.IsText() && n.Mode == SegmentedMode }

func (n *Node) IsTokenOrSegmented() bool { return n.IsToken() || n.IsSegmented() }

// IsSimpleText reports whether n is a plain, freely editable text node.
func (n *Node) IsSimpleText() bool {
	return n.IsText() && n.Type == TextType && n.Mode == NormalMode
}

// TextSize is the length of the node's own text in characters (runes).
func (n *Node) TextSize() int {
	if !n.IsText() {
		return 0
	}
	return utf8.RuneCountInString(n.Text)
}

// ChildIndex returns the position of key among n's children, or -1.
func (n *Node) ChildIndex(key NodeKey) int {
	for i, c := range n.Children {
		if c == key {
			return i
		}
	}
	return -1
}

// HasFormat reports whether every bit of f is set on the text node.
func (n *Node) HasFormat(f TextFormat) bool { return n.Format&f == f }

// ---------------------Text helpers------------------------

// TextLength counts characters the way offsets are measured: in runes.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}

// SliceText returns the characters of s in [start, end). Out of range bounds
// are clamped.
func SliceText(s string, start, end int) string {
	r := []rune(s)
	if start < 0 {
		start = 0
	}
	if end > len(r) {
		end = len(r)
	}
	if start >= end {
		return ""
	}
	return string(r[start:end])
}

// TextContent returns the text of the node at key the way a reader would see
// it: line breaks are "\n" and consecutive block children are separated by
// an empty line.
func TextContent(get NodeLookup, key NodeKey) string {
	var b strings.Builder
	writeTextContent(get, key, &b)
	return b.String()
}

func writeTextContent(get NodeLookup, key NodeKey, b *strings.Builder) {
	n := get(key)
	if n == nil {
		return
	}
	switch n.Kind {
	case TextKind:
		b.WriteString(n.Text)
	case LineBreakKind:
		b.WriteString("\n")
	case DecoratorKind:
	default:
		last := len(n.Children) - 1
		for i, ck := range n.Children {
			writeTextContent(get, ck, b)
			child := get(ck)
			if child.IsElement() && !child.Inline && i != last {
				b.WriteString("\n\n")
			}
		}
	}
}

// Export builds the structural value of the node at key, recursing into
// element children.
func Export(get NodeLookup, key NodeKey) (ExportedNode, bool) {
	n := get(key)
	if n == nil {
		return ExportedNode{}, false
	}
	e := ExportedNode{
		Kind:       n.Kind,
		Type:       n.Type,
		Text:       n.Text,
		Format:     n.Format,
		Style:      n.Style,
		Mode:       n.Mode,
		Align:      n.Align,
		Indent:     n.Indent,
		Inline:     n.Inline,
		ShadowRoot: n.ShadowRoot,
		Level:      n.Level,
	}
	if n.IsElement() {
		e.Children = make([]ExportedNode, 0, len(n.Children))
		for _, ck := range n.Children {
			if child, ok := Export(get, ck); ok {
				e.Children = append(e.Children, child)
			}
		}
	}
	return e, true
}

// Equal compares two exported nodes field by field. Children are compared in
// order.
func (e ExportedNode) Equal(o ExportedNode) bool {
	if e.Kind != o.Kind ||
		e.Type != o.Type ||
		e.Text != o.Text ||
		e.Format != o.Format ||
		e.Style != o.Style ||
		e.Mode != o.Mode ||
		e.Align != o.Align ||
		e.Indent != o.Indent ||
		e.Inline != o.Inline ||
		e.ShadowRoot != o.ShadowRoot ||
		e.Level != o.Level ||
		len(e.Children) != len(o.Children) {
		return false
	}
	for i := range e.Children {
		if !e.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Leaves flattens the exported tree into its leaf texts in document order.
func (e ExportedNode) Leaves() []string {
	if e.Kind == TextKind {
		return []string{e.Text}
	}
	var out []string
	for _, c := range e.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}
