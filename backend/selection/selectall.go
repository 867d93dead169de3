package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// SelectAll extends the range selection of tree over the whole container
// holding its anchor: the root, or the shadow root of a table cell. A missing
// selection starts from the root. An empty container leaves the selection
// unchanged.
func SelectAll(tree editor.Tree) {
	sel, ok := Range(tree)
	if !ok {
		sel = types.NewCaret(types.RootKey, 0, types.ElementPoint)
	}

	root := nearestRootLike(tree, sel.Anchor.Key)
	if root == nil {
		return
	}

	first := FirstDescendant(tree, root.Key)
	last := LastDescendant(tree, root.Key)
	if first == nil || last == nil {
		return
	}

	anchor := types.Point{Key: first.Key, Offset: 0, Type: types.ElementPoint}
	if first.IsText() {
		anchor.Type = types.TextPoint
	} else if !first.IsElement() {
		anchor.Key = first.Parent
	}

	focus := types.Point{Key: last.Key, Type: types.ElementPoint}
	switch {
	case last.IsText():
		focus.Type = types.TextPoint
		focus.Offset = last.TextSize()
	case last.IsElement():
		focus.Offset = tree.ChildrenSize(last.Key)
	default:
		focus.Key = last.Parent
		focus.Offset = tree.ChildrenSize(last.Parent)
	}

	sel.Anchor = anchor
	sel.Focus = focus
	tree.SetSelection(sel)
}
