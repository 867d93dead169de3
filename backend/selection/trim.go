package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// blockSeparatorSize is the number of characters an empty block accounts
// for.
const blockSeparatorSize = 2

// TrimTextContentFromAnchor deletes count characters working backward from
// anchor. Whole nodes are removed while they fit in the budget; the node where
// the budget runs out is reverted to its content before the update when that
// content differs, or else split with the excess discarded.
//
// The budget is charged with the text of the removed nodes and two characters
// for every empty block met on the way. Crossing from a block to the one
// before it is free, so trimming a document without empty blocks removes
// exactly count characters of text. The walk stops at an empty root-like
// container.
func TrimTextContentFromAnchor(tree editor.Tree, anchor types.Point, count int) error {
	current := tree.Get(anchor.Key)
	if current == nil {
		return nil
	}
	tree.Logger().Debug().Str("anchor", string(anchor.Key)).Int("count", count).Msg("trimming")
	remaining := count

	if current.IsElement() {
		if d := DescendantByIndex(tree, current.Key, anchor.Offset); d != nil {
			current = d
		}
	}

	for remaining > 0 && current != nil {
		if current.IsElement() {
			if last := LastDescendant(tree, current.Key); last != nil {
				current = last
			}
		}
		if current.IsRootLike() {
			break
		}

		next := tree.PreviousSibling(current.Key)
		if next == nil {
			for parent := tree.Parent(current.Key); parent != nil; parent = tree.Parent(parent.Key) {
				if next = tree.PreviousSibling(parent.Key); next != nil {
					break
				}
			}
		}

		size := types.TextLength(tree.TextContent(current.Key))
		if size == 0 && current.IsElement() && !current.Inline {
			size = blockSeparatorSize
		}

		if !current.IsText() || remaining >= size {
			if err := removeTrimmed(tree, current.Key); err != nil {
				return err
			}
			remaining -= size
			current = next
			continue
		}

		if err := trimText(tree, anchor, current.Key, remaining); err != nil {
			return err
		}
		remaining = 0
	}

	return nil
}

// removeTrimmed removes key and its parent when the parent is left empty. The
// last block of a root-like container is kept.
func removeTrimmed(tree editor.Tree, key types.NodeKey) error {
	parent := tree.Parent(key)
	if isLastBlock(tree, key) {
		return nil
	}
	if err := tree.Remove(key, false); err != nil {
		return err
	}
	if parent == nil || parent.IsRootLike() || tree.ChildrenSize(parent.Key) > 0 {
		return nil
	}
	if isLastBlock(tree, parent.Key) {
		return nil
	}
	return tree.Remove(parent.Key, false)
}

// isLastBlock reports whether key is the only child of a root-like container.
func isLastBlock(tree editor.Tree, key types.NodeKey) bool {
	n := tree.Get(key)
	container := tree.Parent(key)
	return n.IsElement() && container.IsRootLike() && tree.ChildrenSize(container.Key) == 1
}

// trimText removes the last remaining characters of the text node at key, or
// reverts the node when it changed during the update.
func trimText(tree editor.Tree, anchor types.Point, key types.NodeKey, remaining int) error {
	node := tree.Get(key)
	text := node.Text
	size := node.TextSize()
	offset := size - remaining

	prevText, hasPrev := "", false
	if prev := tree.PreviousSnapshot().Node(key); prev.IsSimpleText() {
		prevText, hasPrev = prev.Text, true
	}

	if hasPrev && prevText != text {
		target := key
		if !node.IsSimpleText() {
			replacement := tree.CreateText(prevText)
			if err := tree.Replace(key, replacement.Key, false); err != nil {
				return err
			}
			target = replacement.Key
		} else {
			w, err := tree.Writable(key)
			if err != nil {
				return err
			}
			w.Text = prevText
		}

		if prevSel, ok := types.AsRange(tree.PreviousSnapshot().Selection()); ok && prevSel.IsCollapsed() {
			off := min(prevSel.Anchor.Offset, types.TextLength(prevText))
			tree.SetSelection(types.NewCaret(target, off, types.TextPoint))
		}
		tree.Logger().Debug().Str("node", string(key)).Msg("trim reverted node")
		return nil
	}

	if !node.IsSimpleText() {
		replacement := tree.CreateText(types.SliceText(text, 0, offset))
		if err := tree.Replace(key, replacement.Key, false); err != nil {
			return err
		}
		tree.SetSelection(types.NewCaret(replacement.Key, offset, types.TextPoint))
		return nil
	}

	isSelected := anchor.Key == key
	anchorOffset := anchor.Offset
	// Past the start of the node the whole tail is trimmed.
	if anchorOffset < remaining {
		anchorOffset = size
	}

	splitStart, splitEnd := 0, offset
	if isSelected {
		splitStart, splitEnd = anchorOffset-remaining, anchorOffset
	}

	parts, err := tree.SplitText(key, splitStart, splitEnd)
	if err != nil {
		return err
	}

	if isSelected && splitStart == 0 {
		// [excess, tail]
		if err := tree.Remove(parts[0].Key, false); err != nil {
			return err
		}
		if len(parts) > 1 {
			tree.SetSelection(types.NewCaret(parts[1].Key, 0, types.TextPoint))
		}
		return nil
	}

	// [head, excess, tail...]
	head := parts[0]
	if len(parts) > 1 {
		if err := tree.Remove(parts[1].Key, false); err != nil {
			return err
		}
	}
	tree.SetSelection(types.NewCaret(head.Key, tree.Get(head.Key).TextSize(), types.TextPoint))
	return nil
}
