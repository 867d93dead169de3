package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// InsertText types text at the selection. A range inside one text node is
// replaced; other non-collapsed selections are left alone. It reports whether
// the text was inserted.
func InsertText(tree editor.Tree, text string) (bool, error) {
	sel, ok := Range(tree)
	if !ok || text == "" {
		return false, nil
	}

	if !sel.IsCollapsed() {
		if sel.Anchor.Key != sel.Focus.Key || sel.Anchor.Type != types.TextPoint || sel.Focus.Type != types.TextPoint {
			return false, nil
		}
		start := min(sel.Anchor.Offset, sel.Focus.Offset)
		end := max(sel.Anchor.Offset, sel.Focus.Offset)
		node := tree.Get(sel.Anchor.Key)
		if node.IsTokenOrSegmented() {
			return false, nil
		}
		w, err := tree.Writable(node.Key)
		if err != nil {
			return false, err
		}
		w.Text = types.SliceText(node.Text, 0, start) + text + types.SliceText(node.Text, end, node.TextSize())
		setCaret(sel, node.Key, start+types.TextLength(text), types.TextPoint)
		return true, nil
	}

	anchor := sel.Anchor
	node := tree.Get(anchor.Key)

	if anchor.Type == types.TextPoint && node.IsSimpleText() && node.Format == sel.Format && node.Style == sel.Style {
		w, err := tree.Writable(node.Key)
		if err != nil {
			return false, err
		}
		w.Text = types.SliceText(node.Text, 0, anchor.Offset) + text + types.SliceText(node.Text, anchor.Offset, node.TextSize())
		setCaret(sel, node.Key, anchor.Offset+types.TextLength(text), types.TextPoint)
		return true, nil
	}

	created := tree.CreateText(text)
	w, err := tree.Writable(created.Key)
	if err != nil {
		return false, err
	}
	w.Format = sel.Format
	w.Style = sel.Style

	if anchor.Type == types.TextPoint {
		// A token, a segment or a differently formatted node keeps its
		// text: the new node goes next to it, splitting it when needed.
		switch {
		case anchor.Offset == 0:
			err = tree.InsertBefore(node.Key, created.Key)
		case anchor.Offset == node.TextSize() || node.IsTokenOrSegmented():
			err = tree.InsertAfter(node.Key, created.Key)
		default:
			var parts []*types.Node
			parts, err = tree.SplitText(node.Key, anchor.Offset)
			if err == nil {
				err = tree.InsertAfter(parts[0].Key, created.Key)
			}
		}
	} else {
		children := node.Children
		if anchor.Offset < len(children) {
			err = tree.InsertBefore(children[anchor.Offset], created.Key)
		} else {
			err = tree.Append(node.Key, created.Key)
		}
	}
	if err != nil {
		return false, err
	}

	setCaret(sel, created.Key, types.TextLength(text), types.TextPoint)
	return true, nil
}

// DeleteCharacter deletes the character before (backward) or after the
// collapsed selection. At the edge of a block the block is merged with its
// neighbour. It reports whether anything was deleted.
func DeleteCharacter(tree editor.Tree, backward bool) (bool, error) {
	sel, ok := Range(tree)
	if !ok || !sel.IsCollapsed() {
		return false, nil
	}

	leaf, offset := caretLeaf(tree, sel.Anchor, backward)
	if leaf == nil {
		return mergeBlocks(tree, sel, backward)
	}

	if !leaf.IsText() || leaf.IsTokenOrSegmented() {
		if err := tree.Remove(leaf.Key, false); err != nil {
			return false, err
		}
		return true, nil
	}

	at := offset
	if backward {
		at = offset - 1
	}
	text := types.SliceText(leaf.Text, 0, at) + types.SliceText(leaf.Text, at+1, leaf.TextSize())
	if text == "" {
		if err := tree.Remove(leaf.Key, false); err != nil {
			return false, err
		}
		return true, nil
	}

	w, err := tree.Writable(leaf.Key)
	if err != nil {
		return false, err
	}
	w.Text = text
	setCaret(sel, leaf.Key, at, types.TextPoint)
	return true, nil
}

// caretLeaf returns the leaf holding the character to delete and the caret
// offset inside it, or nil at the edge of the block.
func caretLeaf(tree editor.Tree, p types.Point, backward bool) (*types.Node, int) {
	node := tree.Get(p.Key)

	if p.Type == types.TextPoint {
		switch {
		case backward && p.Offset > 0:
			return node, p.Offset
		case !backward && p.Offset < node.TextSize():
			return node, p.Offset
		}
		neighbour := sibling(tree, node.Key, !backward)
		if neighbour == nil || neighbour.IsElement() {
			return nil, 0
		}
		if backward {
			return neighbour, neighbour.TextSize()
		}
		return neighbour, 0
	}

	index := p.Offset
	if backward {
		index--
	}
	if index < 0 || index >= len(node.Children) {
		return nil, 0
	}
	child := tree.Get(node.Children[index])
	if child.IsElement() {
		return nil, 0
	}
	if backward {
		return child, child.TextSize()
	}
	return child, 0
}

// mergeBlocks joins the caret's block with the previous (backward) or next
// block.
func mergeBlocks(tree editor.Tree, sel *types.RangeSelection, backward bool) (bool, error) {
	block := ancestorMatching(tree, sel.Anchor.Key, func(n *types.Node) bool { return IsBlock(tree, n) })
	if block == nil {
		return false, nil
	}

	from, into := block, tree.PreviousSibling(block.Key)
	if !backward {
		from, into = tree.NextSibling(block.Key), block
	}
	if from == nil || into == nil || !IsBlock(tree, from) || !IsBlock(tree, into) {
		return false, nil
	}

	size := tree.ChildrenSize(into.Key)
	last := tree.LastChild(into.Key)

	children := append([]types.NodeKey{}, from.Children...)
	if err := tree.Append(into.Key, children...); err != nil {
		return false, err
	}
	if err := tree.Remove(from.Key, false); err != nil {
		return false, err
	}

	if last.IsText() {
		setCaret(sel, last.Key, last.TextSize(), types.TextPoint)
	} else {
		setCaret(sel, into.Key, size, types.ElementPoint)
	}
	return true, nil
}

func setCaret(sel *types.RangeSelection, key types.NodeKey, offset int, typ types.PointType) {
	sel.Anchor.Set(key, offset, typ)
	sel.Focus.Set(key, offset, typ)
}
