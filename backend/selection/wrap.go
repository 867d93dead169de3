package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// WrapNodes moves the content of every block touched by the selection into a
// new element built from spec. Each root-like container met by the selection
// is wrapped on its own. When outer is not nil, an element built from it
// encloses every new element.
func WrapNodes(tree editor.Tree, spec types.BlockSpec, outer *types.BlockSpec) error {
	sel := tree.Selection()
	if sel == nil {
		return nil
	}
	nodes := SelectedNodes(tree, sel)
	rs, isRange := types.AsRange(sel)
	tree.Logger().Debug().Str("type", string(spec.Type)).Int("nodes", len(nodes)).Msg("wrapping nodes")

	if isRange && (len(nodes) == 0 ||
		(len(nodes) == 1 && rs.Anchor.Type == types.ElementPoint && tree.ChildrenSize(rs.Anchor.Key) == 0)) {
		return wrapEmpty(tree, rs.Anchor, spec, outer)
	}

	var topLevel *types.Node
	descendants := []*types.Node{}
	for _, n := range nodes {
		switch {
		case n.IsRootLike():
			if err := wrapGroup(tree, descendants, spec, outer); err != nil {
				return err
			}
			descendants = []*types.Node{}
			topLevel = n
		case topLevel == nil || hasAncestor(tree, n.Key, topLevel.Key):
			descendants = append(descendants, n)
		default:
			if err := wrapGroup(tree, descendants, spec, outer); err != nil {
				return err
			}
			descendants = []*types.Node{n}
		}
	}
	return wrapGroup(tree, descendants, spec, outer)
}

// wrapEmpty wraps the content of the anchor's block when nothing is selected.
func wrapEmpty(tree editor.Tree, anchor types.Point, spec types.BlockSpec, outer *types.BlockSpec) error {
	target := tree.Get(anchor.Key)
	if anchor.Type == types.TextPoint {
		target = tree.Parent(anchor.Key)
	}
	if target == nil {
		return nil
	}

	element := newWrapper(tree, spec, target)
	children := append([]types.NodeKey{}, target.Children...)
	if err := tree.Append(element.Key, children...); err != nil {
		return err
	}

	top := element.Key
	if outer != nil {
		wrapper := tree.CreateElement(outer.Type, outer.Options)
		if err := tree.Append(wrapper.Key, element.Key); err != nil {
			return err
		}
		top = wrapper.Key
	}

	// A root-like container keeps its place and receives the wrapper.
	if target.IsRootLike() {
		return tree.Append(target.Key, top)
	}
	return tree.Replace(target.Key, top, false)
}

func newWrapper(tree editor.Tree, spec types.BlockSpec, from *types.Node) *types.Node {
	opts := spec.Options
	opts.Align = from.Align
	opts.Indent = from.Indent
	return tree.CreateElement(spec.Type, opts)
}

func hasAncestor(tree editor.Tree, key, ancestor types.NodeKey) bool {
	for p := tree.Parent(key); p != nil; p = tree.Parent(p.Key) {
		if p.Key == ancestor {
			return true
		}
	}
	return false
}

// wrapGroup wraps one run of nodes sharing a root-like container.
func wrapGroup(tree editor.Tree, nodes []*types.Node, spec types.BlockSpec, outer *types.BlockSpec) error {
	if len(nodes) == 0 {
		return nil
	}

	// Find where the wrappers go: the closest previous sibling walking up
	// from the first node, or the enclosing root-like container.
	first := tree.Get(nodes[0].Key)
	target := first
	if !first.IsElement() {
		target = tree.Parent(first.Key)
	}
	if target != nil && target.Inline {
		target = tree.Parent(target.Key)
	}
	targetIsPrevSibling := false
	for target != nil {
		if prev := tree.PreviousSibling(target.Key); prev != nil {
			target = prev
			targetIsPrevSibling = true
			break
		}
		target = tree.Parent(target.Key)
		if target.IsRootLike() {
			break
		}
	}
	if target == nil {
		return nil
	}

	emptyElements := types.NewSet[types.NodeKey]()
	for _, n := range nodes {
		if n.IsElement() && tree.ChildrenSize(n.Key) == 0 {
			emptyElements.Add(n.Key)
		}
	}

	elements := []types.NodeKey{}
	mapping := map[types.NodeKey]types.NodeKey{}
	moved := types.NewSet[types.NodeKey]()

	for _, n := range nodes {
		parent := tree.Parent(n.Key)
		if parent != nil && parent.Inline {
			parent = tree.Parent(parent.Key)
		}

		switch {
		case parent != nil && n.IsLeaf() && !moved.Contains(n.Key):
			if _, ok := mapping[parent.Key]; ok {
				continue
			}
			element := newWrapper(tree, spec, parent)
			elements = append(elements, element.Key)
			mapping[parent.Key] = element.Key

			// The whole parent moves, not only the selected children.
			for _, child := range tree.Children(parent.Key) {
				if err := tree.Append(element.Key, child.Key); err != nil {
					return err
				}
				moved.Add(child.Key)
				for _, grandchild := range tree.Get(child.Key).Children {
					moved.Add(grandchild)
				}
			}
			if err := removeParentEmptyElements(tree, parent.Key); err != nil {
				return err
			}
		case emptyElements.Contains(n.Key):
			element := newWrapper(tree, spec, tree.Get(n.Key))
			elements = append(elements, element.Key)
			if err := tree.Remove(n.Key, true); err != nil {
				return err
			}
		}
	}

	var wrapper types.NodeKey
	if outer != nil {
		wrapper = tree.CreateElement(outer.Type, outer.Options).Key
		if err := tree.Append(wrapper, elements...); err != nil {
			return err
		}
	}

	var lastElement types.NodeKey
	if target.IsRootLike() {
		switch {
		case targetIsPrevSibling:
			if err := insertAfterAll(tree, target.Key, wrapper, elements, &lastElement); err != nil {
				return err
			}
		case tree.FirstChild(target.Key) == nil:
			if wrapper != "" {
				if err := tree.Append(target.Key, wrapper); err != nil {
					return err
				}
			} else {
				for _, e := range elements {
					if err := tree.Append(target.Key, e); err != nil {
						return err
					}
					lastElement = e
				}
			}
		default:
			firstChild := tree.FirstChild(target.Key).Key
			if wrapper != "" {
				if err := tree.InsertBefore(firstChild, wrapper); err != nil {
					return err
				}
			} else {
				for _, e := range elements {
					if err := tree.InsertBefore(firstChild, e); err != nil {
						return err
					}
					lastElement = e
				}
			}
		}
	} else if err := insertAfterAll(tree, target.Key, wrapper, elements, &lastElement); err != nil {
		return err
	}

	restoreSelection(tree, lastElement)

	tree.Logger().Debug().Int("nodes", len(nodes)).Int("wrappers", len(elements)).Msg("wrapped nodes")
	return nil
}

// insertAfterAll puts the wrapper, or else every element in order, right
// after target.
func insertAfterAll(tree editor.Tree, target, wrapper types.NodeKey, elements []types.NodeKey, last *types.NodeKey) error {
	if wrapper != "" {
		return tree.InsertAfter(target, wrapper)
	}
	for i := len(elements) - 1; i >= 0; i-- {
		if err := tree.InsertAfter(target, elements[i]); err != nil {
			return err
		}
		*last = elements[i]
	}
	return nil
}

// removeParentEmptyElements removes key and its ancestors while they are
// empty, up to the nearest root-like container.
func removeParentEmptyElements(tree editor.Tree, key types.NodeKey) error {
	node := tree.Get(key)
	for node != nil && !node.IsRootLike() {
		parent := tree.Parent(node.Key)
		if tree.ChildrenSize(node.Key) == 0 {
			if err := tree.Remove(node.Key, true); err != nil {
				return err
			}
		}
		node = parent
	}
	return nil
}

// restoreSelection brings back the selection the update started from when it
// still points into the document, or selects the end of last.
func restoreSelection(tree editor.Tree, last types.NodeKey) {
	prev, ok := types.AsRange(tree.PreviousSnapshot().Selection())
	if ok && pointAttached(tree, &prev.Anchor) && pointAttached(tree, &prev.Focus) {
		tree.SetSelection(prev)
		return
	}
	if last != "" {
		selectEnd(tree, last)
	}
}

// pointAttached reports whether p designates an attached node of a matching
// type, clamping its offset into the node.
func pointAttached(tree editor.Tree, p *types.Point) bool {
	n := tree.Get(p.Key)
	if n == nil || !tree.IsAttached(p.Key) {
		return false
	}
	switch p.Type {
	case types.TextPoint:
		if !n.IsText() {
			return false
		}
		p.Offset = min(p.Offset, n.TextSize())
	case types.ElementPoint:
		if !n.IsElement() {
			return false
		}
		p.Offset = min(p.Offset, len(n.Children))
	}
	return true
}
