package types

// PointType tells how a Point offset is measured.
type PointType string

const (
	// TextPoint offsets are character indexes into a text node.
	TextPoint PointType = "text"
	// ElementPoint offsets are child indexes of an element node.
	ElementPoint PointType = "element"
)

// Point is one end of a range selection.
type Point struct {
	Key    NodeKey
	Offset int
	Type   PointType
}

// Selection is a *RangeSelection, a *NodeSelection, or nil for no selection.
type Selection interface {
	// Clone returns an independent copy.
	Clone() Selection
	// Is reports whether both selections select the same thing.
	Is(other Selection) bool

	selection()
}

// RangeSelection spans from Anchor to Focus. A Focus before the Anchor is a
// backward selection. Format and Style are applied to the next typed text.
type RangeSelection struct {
	Anchor Point
	Focus  Point
	Format TextFormat
	Style  string
}

// NodeSelection selects whole nodes, typically decorators.
type NodeSelection struct {
	Keys []NodeKey
}
