// Package selection implements the queries over range selections and the
// selection driven mutations of a document tree.
package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// Range returns the live range selection of tree, if any.
func Range(tree editor.Tree) (*types.RangeSelection, bool) {
	return types.AsRange(tree.Selection())
}

// FirstDescendant returns the first leaf-most descendant of key, or nil when
// key has no children.
func FirstDescendant(tree editor.Tree, key types.NodeKey) *types.Node {
	node := tree.FirstChild(key)
	for node != nil && node.IsElement() {
		child := tree.FirstChild(node.Key)
		if child == nil {
			break
		}
		node = child
	}
	return node
}

// LastDescendant returns the last leaf-most descendant of key, or nil when key
// has no children.
func LastDescendant(tree editor.Tree, key types.NodeKey) *types.Node {
	node := tree.LastChild(key)
	for node != nil && node.IsElement() {
		child := tree.LastChild(node.Key)
		if child == nil {
			break
		}
		node = child
	}
	return node
}

// DescendantByIndex resolves the child index of an element point to the node
// it designates. An index past the last child resolves to the last
// descendant. It returns nil for an element without children.
func DescendantByIndex(tree editor.Tree, key types.NodeKey, index int) *types.Node {
	children := tree.Children(key)
	if len(children) == 0 {
		return nil
	}
	if index >= len(children) {
		last := children[len(children)-1]
		if d := LastDescendant(tree, last.Key); last.IsElement() && d != nil {
			return d
		}
		return last
	}
	if index < 0 {
		index = 0
	}
	child := children[index]
	if d := FirstDescendant(tree, child.Key); child.IsElement() && d != nil {
		return d
	}
	return child
}

// path returns the child indexes leading from the root to key.
func path(tree editor.Tree, key types.NodeKey) []int {
	var out []int
	for key != types.RootKey {
		i := tree.IndexWithinParent(key)
		if i < 0 {
			break
		}
		out = append(out, i)
		key = tree.Get(key).Parent
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// NodeIsBefore reports whether a comes before b in document order. An
// ancestor comes before its descendants.
func NodeIsBefore(tree editor.Tree, a, b types.NodeKey) bool {
	if a == b {
		return false
	}
	pa := path(tree, a)
	pb := path(tree, b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	return len(pa) < len(pb)
}

// resolve returns the node a point designates.
func resolve(tree editor.Tree, p types.Point) *types.Node {
	node := tree.Get(p.Key)
	if p.Type == types.ElementPoint {
		if d := DescendantByIndex(tree, p.Key, p.Offset); d != nil {
			return d
		}
	}
	return node
}

// PointIsBefore reports whether a comes strictly before b.
func PointIsBefore(tree editor.Tree, a, b types.Point) bool {
	an := resolve(tree, a)
	bn := resolve(tree, b)
	if an == nil || bn == nil {
		return false
	}
	if an.Key == bn.Key {
		return a.Offset < b.Offset
	}
	return NodeIsBefore(tree, an.Key, bn.Key)
}

// IsBackward reports whether the focus of sel comes before its anchor.
func IsBackward(tree editor.Tree, sel *types.RangeSelection) bool {
	return PointIsBefore(tree, sel.Focus, sel.Anchor)
}

// StartEnd returns the points of sel in document order.
func StartEnd(tree editor.Tree, sel *types.RangeSelection) (start, end types.Point) {
	if IsBackward(tree, sel) {
		return sel.Focus, sel.Anchor
	}
	return sel.Anchor, sel.Focus
}

// IsAtNodeEnd reports whether p sits after the last character or child of its
// node.
func IsAtNodeEnd(tree editor.Tree, p types.Point) bool {
	n := tree.Get(p.Key)
	if n == nil {
		return false
	}
	if p.Type == types.TextPoint {
		return p.Offset == n.TextSize()
	}
	return p.Offset == len(n.Children)
}

// GetNodes returns the nodes covered by sel in document order: the covered
// leaves and the elements enclosing them.
func GetNodes(tree editor.Tree, sel *types.RangeSelection) []*types.Node {
	if sel == nil {
		return nil
	}
	first, last := StartEnd(tree, sel)

	firstNode := tree.Get(first.Key)
	lastNode := tree.Get(last.Key)
	if firstNode == nil || lastNode == nil {
		return nil
	}

	if firstNode.IsElement() {
		if d := DescendantByIndex(tree, firstNode.Key, first.Offset); d != nil {
			firstNode = d
		}
	}
	if lastNode.IsElement() {
		d := DescendantByIndex(tree, lastNode.Key, last.Offset)
		children := lastNode.Children
		if d != nil && d.Key != firstNode.Key && last.Offset < len(children) && children[last.Offset] == d.Key {
			d = tree.PreviousSibling(d.Key)
		}
		if d != nil {
			lastNode = d
		}
	}

	if firstNode.Key == lastNode.Key {
		if firstNode.IsElement() && len(firstNode.Children) > 0 {
			return []*types.Node{}
		}
		return []*types.Node{firstNode}
	}
	return NodesBetween(tree, firstNode.Key, lastNode.Key)
}

// NodesBetween walks the tree from a to b, both included, and returns every
// node met, parents included when the walk leaves them. The result is in
// document order whatever the order of a and b.
func NodesBetween(tree editor.Tree, a, b types.NodeKey) []*types.Node {
	forward := NodeIsBefore(tree, a, b)
	visited := types.NewSet[types.NodeKey]()
	nodes := []*types.Node{}

	push := func(n *types.Node) {
		if !visited.Contains(n.Key) {
			visited.Add(n.Key)
			nodes = append(nodes, n)
		}
	}

	node := tree.Get(a)
	for node != nil {
		push(node)
		if node.Key == b {
			break
		}

		var child *types.Node
		if node.IsElement() {
			if forward {
				child = tree.FirstChild(node.Key)
			} else {
				child = tree.LastChild(node.Key)
			}
		}
		if child != nil {
			node = child
			continue
		}

		next := sibling(tree, node.Key, forward)
		if next != nil {
			node = next
			continue
		}

		parent := tree.Parent(node.Key)
		if parent == nil {
			break
		}
		push(parent)
		if parent.Key == b {
			break
		}

		var parentSibling *types.Node
		ancestor := parent
		for parentSibling == nil {
			parentSibling = sibling(tree, ancestor.Key, forward)
			ancestor = tree.Parent(ancestor.Key)
			if ancestor == nil {
				break
			}
			if parentSibling == nil {
				push(ancestor)
			}
		}
		node = parentSibling
	}

	if !forward {
		for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		}
	}
	return nodes
}

func sibling(tree editor.Tree, key types.NodeKey, forward bool) *types.Node {
	if forward {
		return tree.NextSibling(key)
	}
	return tree.PreviousSibling(key)
}

// SelectedNodes returns the nodes of a range or node selection.
func SelectedNodes(tree editor.Tree, sel types.Selection) []*types.Node {
	switch v := sel.(type) {
	case *types.RangeSelection:
		return GetNodes(tree, v)
	case *types.NodeSelection:
		nodes := make([]*types.Node, 0, len(v.Keys))
		for _, k := range v.Keys {
			if n := tree.Get(k); n != nil {
				nodes = append(nodes, n)
			}
		}
		return nodes
	}
	return nil
}

// IsSelected reports whether key is covered by sel.
func IsSelected(tree editor.Tree, sel types.Selection, key types.NodeKey) bool {
	for _, n := range SelectedNodes(tree, sel) {
		if n.Key == key {
			return true
		}
	}
	return false
}

// CharacterOffsets returns the anchor and focus offsets of sel measured in
// characters. An element point at the end of its element counts as the end
// of its text.
func CharacterOffsets(tree editor.Tree, sel *types.RangeSelection) (anchor, focus int) {
	if sel.Anchor.Type == types.ElementPoint && sel.Anchor.Is(sel.Focus) {
		return 0, 0
	}
	return characterOffset(tree, sel.Anchor), characterOffset(tree, sel.Focus)
}

func characterOffset(tree editor.Tree, p types.Point) int {
	if p.Type == types.TextPoint {
		return p.Offset
	}
	if p.Offset == tree.ChildrenSize(p.Key) {
		return types.TextLength(tree.TextContent(p.Key))
	}
	return 0
}

// ancestorMatching returns the nearest node from key up to the root matching
// pred, or nil. The walk stops at root-like boundaries, which are tested too.
func ancestorMatching(tree editor.Tree, key types.NodeKey, pred func(*types.Node) bool) *types.Node {
	node := tree.Get(key)
	for node != nil {
		if pred(node) {
			return node
		}
		if node.IsRootLike() {
			return nil
		}
		node = tree.Parent(node.Key)
	}
	return nil
}

// nearestRootLike returns the closest root-like ancestor of key, key included.
func nearestRootLike(tree editor.Tree, key types.NodeKey) *types.Node {
	node := tree.Get(key)
	for node != nil && !node.IsRootLike() {
		node = tree.Parent(node.Key)
	}
	return node
}

// selectEnd places a caret at the end of the node at key.
func selectEnd(tree editor.Tree, key types.NodeKey) {
	if last := LastDescendant(tree, key); last != nil && last.IsText() {
		tree.SetSelection(types.NewCaret(last.Key, last.TextSize(), types.TextPoint))
		return
	}
	tree.SetSelection(types.NewCaret(key, tree.ChildrenSize(key), types.ElementPoint))
}

// selectText selects [start, end) of the text node at key.
func selectText(tree editor.Tree, key types.NodeKey, start, end int) {
	sel := &types.RangeSelection{
		Anchor: types.Point{Key: key, Offset: start, Type: types.TextPoint},
		Focus:  types.Point{Key: key, Offset: end, Type: types.TextPoint},
	}
	if rs, ok := Range(tree); ok {
		sel.Format = rs.Format
		sel.Style = rs.Style
	}
	tree.SetSelection(sel)
}
