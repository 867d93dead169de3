package types

import (
	"sort"

	"golang.org/x/xerrors"
)

// Snapshot is the document at one instant: a node map and a selection.
// Snapshots are published once and never modified afterwards; compare them by
// pointer identity.
type Snapshot struct {
	nodes     map[NodeKey]*Node
	selection Selection
}

// NewSnapshot takes ownership of nodes. The caller must not modify the map or
// any node in it afterwards.
func NewSnapshot(nodes map[NodeKey]*Node, sel Selection) *Snapshot {
	return &Snapshot{nodes: nodes, selection: CloneSelection(sel)}
}

// EmptySnapshot returns a document made of a childless root and no selection.
func EmptySnapshot() *Snapshot {
	root := &Node{Key: RootKey, Kind: RootKind, Type: RootType, Children: []NodeKey{}}
	return NewSnapshot(map[NodeKey]*Node{RootKey: root}, nil)
}

// Node returns the node at key or nil. The returned node must be treated as
// read-only.
func (s *Snapshot) Node(key NodeKey) *Node {
	if s == nil {
		return nil
	}
	return s.nodes[key]
}

func (s *Snapshot) Has(key NodeKey) bool {
	return s.Node(key) != nil
}

func (s *Snapshot) Root() *Node {
	return s.Node(RootKey)
}

// Selection returns a copy of the snapshot's selection.
func (s *Snapshot) Selection() Selection {
	if s == nil {
		return nil
	}
	return CloneSelection(s.selection)
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Keys returns every node key in lexical order.
func (s *Snapshot) Keys() []NodeKey {
	keys := make([]NodeKey, 0, s.Len())
	if s == nil {
		return keys
	}
	for k := range s.nodes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Lookup returns a NodeLookup over the snapshot.
func (s *Snapshot) Lookup() NodeLookup {
	return s.Node
}

// CopyNodes returns a shallow copy of the node map. Nodes are shared and must
// be cloned before being written.
func (s *Snapshot) CopyNodes() map[NodeKey]*Node {
	out := make(map[NodeKey]*Node, s.Len())
	if s == nil {
		return out
	}
	for k, n := range s.nodes {
		out[k] = n
	}
	return out
}

// TextContent returns the text of the whole document.
func (s *Snapshot) TextContent() string {
	return TextContent(s.Node, RootKey)
}

// Export returns the structural value of the whole document.
func (s *Snapshot) Export() ExportedNode {
	e, _ := Export(s.Node, RootKey)
	return e
}

// Validate checks that the selection only references nodes of the snapshot
// with a point type matching the node.
func (s *Snapshot) Validate() error {
	return ValidateSelection(s.Node, s.selection)
}

// ValidateSelection checks every point and key of sel against get.
func ValidateSelection(get NodeLookup, sel Selection) error {
	switch v := sel.(type) {
	case nil:
		return nil
	case *RangeSelection:
		if v == nil {
			return nil
		}
		if err := validatePoint(get, v.Anchor); err != nil {
			return xerrors.Errorf("anchor: %w", err)
		}
		if err := validatePoint(get, v.Focus); err != nil {
			return xerrors.Errorf("focus: %w", err)
		}
	case *NodeSelection:
		if v == nil {
			return nil
		}
		for _, k := range v.Keys {
			if get(k) == nil {
				return xerrors.Errorf("node selection key %s: %w", k, ErrStalePoint)
			}
		}
	}
	return nil
}

func validatePoint(get NodeLookup, p Point) error {
	n := get(p.Key)
	if n == nil {
		return xerrors.Errorf("point %s: %w", p.Key, ErrStalePoint)
	}
	if p.Offset < 0 {
		return xerrors.Errorf("point %s offset %d: %w", p.Key, p.Offset, ErrOffsetOutOfRange)
	}
	switch p.Type {
	case TextPoint:
		if !n.IsText() {
			return xerrors.Errorf("text point on %s: %w", p.Key, ErrPointType)
		}
	case ElementPoint:
		if !n.IsElement() {
			return xerrors.Errorf("element point on %s: %w", p.Key, ErrPointType)
		}
	default:
		return xerrors.Errorf("point %s has type %q: %w", p.Key, p.Type, ErrPointType)
	}
	return nil
}
