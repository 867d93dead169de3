package editor

import (
	"Inkwell/backend/types"

	"github.com/rs/zerolog"
)

// Tree is the working document of an update transaction. Nodes returned by
// the read methods are read-only views; use Writable before changing a field.
// Every method that takes a key returns types.ErrNodeNotFound when the key is
// unknown.
type Tree interface {
	// Get returns the node at key, or nil.
	Get(key types.NodeKey) *types.Node

	Root() *types.Node

	// Parent returns the parent of key, or nil for the root and detached nodes.
	Parent(key types.NodeKey) *types.Node

	PreviousSibling(key types.NodeKey) *types.Node

	NextSibling(key types.NodeKey) *types.Node

	FirstChild(key types.NodeKey) *types.Node

	LastChild(key types.NodeKey) *types.Node

	// Children returns the children of an element in order.
	Children(key types.NodeKey) []*types.Node

	ChildrenSize(key types.NodeKey) int

	// IndexWithinParent returns the position of key among its siblings, or -1.
	IndexWithinParent(key types.NodeKey) int

	// IsAttached reports whether key is reachable from the root.
	IsAttached(key types.NodeKey) bool

	TextContent(key types.NodeKey) string

	// Export returns the structural value of the node at key.
	Export(key types.NodeKey) (types.ExportedNode, bool)

	// CreateText creates a detached normal text node.
	CreateText(text string) *types.Node

	// CreateElement creates a detached, childless element.
	CreateElement(typ types.BlockTypeName, opts types.ElementOptions) *types.Node

	CreateLineBreak() *types.Node

	CreateDecorator(typ types.BlockTypeName, inline bool) *types.Node

	// Writable returns a private copy of the node at key that may be modified
	// in place and marks it dirty.
	Writable(key types.NodeKey) (*types.Node, error)

	// SplitText splits a text node at the given character offsets and returns
	// the fragments in order. The first fragment keeps the original key.
	// Offsets equal to 0 or to the text size are ignored.
	SplitText(key types.NodeKey, offsets ...int) ([]*types.Node, error)

	// InsertBefore moves node right before target.
	InsertBefore(target, node types.NodeKey) error

	// InsertAfter moves node right after target.
	InsertAfter(target, node types.NodeKey) error

	// Append moves children at the end of parent.
	Append(parent types.NodeKey, children ...types.NodeKey) error

	// Replace puts with in the place of target and detaches target. With
	// includeChildren, target's children are moved at the end of with.
	Replace(target, with types.NodeKey, includeChildren bool) error

	// Remove detaches key from the document. With restoreChildren, the
	// children of an element are first moved to its position.
	Remove(key types.NodeKey, restoreChildren bool) error

	// Selection returns the live selection of the transaction. Changes to a
	// returned *types.RangeSelection are published with the document.
	Selection() types.Selection

	SetSelection(sel types.Selection)

	// PreviousSnapshot returns the snapshot the transaction started from.
	PreviousSnapshot() *types.Snapshot

	Logger() *zerolog.Logger
}
