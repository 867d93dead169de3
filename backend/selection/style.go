package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// patchNodeStyle applies patch to the text node at key. The node is only
// written when its style actually changes.
func patchNodeStyle(tree editor.Tree, key types.NodeKey, patch types.StylePatch) error {
	n := tree.Get(key)
	css := patch.Apply(n.Style, n)
	if css == n.Style {
		return nil
	}
	w, err := tree.Writable(key)
	if err != nil {
		return err
	}
	w.Style = css
	return nil
}

// PatchStyleText applies patch to the selected text. A collapsed selection
// only records the style for the next typed text. Partially covered text
// nodes are split so that only the covered characters change.
func PatchStyleText(tree editor.Tree, patch types.StylePatch) error {
	sel, ok := Range(tree)
	if !ok {
		return nil
	}

	if sel.IsCollapsed() {
		sel.Style = patch.Apply(sel.Style, nil)
		return nil
	}

	nodes := GetNodes(tree, sel)
	if len(nodes) == 0 {
		return nil
	}
	tree.Logger().Debug().Int("nodes", len(nodes)).Msg("patching style")
	lastIndex := len(nodes) - 1
	firstNode := nodes[0]
	lastNode := nodes[lastIndex]

	anchor, focus := sel.Anchor, sel.Focus
	isBefore := PointIsBefore(tree, anchor, focus)
	anchorOffset := anchor.Offset
	focusOffset := focus.Offset

	startOffset, endOffset := anchorOffset, focusOffset
	startType, endType, endKey := anchor.Type, focus.Type, focus.Key
	if !isBefore {
		startOffset, endOffset = focusOffset, anchorOffset
		startType, endType, endKey = focus.Type, anchor.Type, anchor.Key
	}

	// Only the very end of the first node is selected: leave it alone.
	if firstNode.IsText() && startOffset == firstNode.TextSize() {
		if next := tree.NextSibling(firstNode.Key); next.IsText() {
			anchorOffset = 0
			startOffset = 0
			firstNode = next
		}
	}

	if len(nodes) == 1 {
		if !firstNode.IsText() {
			return nil
		}
		size := firstNode.TextSize()

		switch {
		case startType == types.ElementPoint:
			startOffset = 0
		default:
			startOffset = min(anchorOffset, focusOffset)
		}
		switch {
		case endType == types.ElementPoint:
			endOffset = size
		default:
			endOffset = max(anchorOffset, focusOffset)
		}

		if startOffset == endOffset {
			return nil
		}

		if firstNode.IsTokenOrSegmented() || (startOffset == 0 && endOffset == size) {
			if err := patchNodeStyle(tree, firstNode.Key, patch); err != nil {
				return err
			}
			selectText(tree, firstNode.Key, startOffset, endOffset)
			return nil
		}

		parts, err := tree.SplitText(firstNode.Key, startOffset, endOffset)
		if err != nil {
			return err
		}
		replacement := parts[0]
		if startOffset != 0 {
			replacement = parts[1]
		}
		if err := patchNodeStyle(tree, replacement.Key, patch); err != nil {
			return err
		}
		selectText(tree, replacement.Key, 0, endOffset-startOffset)
		return nil
	}

	if firstNode.IsText() && firstNode.Key != lastNode.Key && startOffset < firstNode.TextSize() {
		if startOffset != 0 && !firstNode.IsTokenOrSegmented() {
			parts, err := tree.SplitText(firstNode.Key, startOffset)
			if err != nil {
				return err
			}
			firstNode = parts[1]
			startOffset = 0
			start := types.Point{Key: firstNode.Key, Offset: 0, Type: types.TextPoint}
			if isBefore {
				sel.Anchor = start
			} else {
				sel.Focus = start
			}
		}
		if err := patchNodeStyle(tree, firstNode.Key, patch); err != nil {
			return err
		}
	}

	if lastNode.IsText() {
		size := lastNode.TextSize()
		// The last node may only be an ancestor's end: it is then fully
		// covered unless the end offset is zero.
		if lastNode.Key != endKey && endOffset != 0 {
			endOffset = size
		}
		if endOffset != size && !lastNode.IsTokenOrSegmented() {
			parts, err := tree.SplitText(lastNode.Key, endOffset)
			if err != nil {
				return err
			}
			lastNode = parts[0]
		}
		if endOffset != 0 || endType == types.ElementPoint {
			if err := patchNodeStyle(tree, lastNode.Key, patch); err != nil {
				return err
			}
		}
	}

	for _, n := range nodes[1:lastIndex] {
		if !n.IsText() || n.Key == firstNode.Key || n.Key == lastNode.Key {
			continue
		}
		if err := patchNodeStyle(tree, n.Key, patch); err != nil {
			return err
		}
	}

	tree.Logger().Debug().Int("nodes", len(nodes)).Msg("patched selection style")
	return nil
}

// StyleValueForProperty returns the value of property shared by the selected
// text. It returns "" when the text disagrees and defaultValue when no text
// carries a value.
func StyleValueForProperty(tree editor.Tree, property, defaultValue string) string {
	sel, ok := Range(tree)
	if !ok {
		return defaultValue
	}

	if sel.IsCollapsed() && sel.Style != "" {
		if v, ok := types.ParseStyle(sel.Style).Get(property); ok {
			return v
		}
	}

	_, end := StartEnd(tree, sel)
	nodes := GetNodes(tree, sel)

	var value *string
	for i, n := range nodes {
		// no character of the end node is selected
		if i != 0 && end.Offset == 0 && n.Key == end.Key {
			continue
		}
		if !n.IsText() {
			continue
		}
		v, ok := types.ParseStyle(n.Style).Get(property)
		if !ok {
			v = defaultValue
		}
		if value == nil {
			value = &v
		} else if *value != v {
			return ""
		}
	}

	if value == nil {
		return defaultValue
	}
	return *value
}

// SliceSelectedTextContent returns a copy of the text node at key holding only
// its selected characters. Unselected, token and segmented nodes are returned
// whole.
func SliceSelectedTextContent(tree editor.Tree, key types.NodeKey) *types.Node {
	node := tree.Get(key)
	if node == nil {
		return nil
	}
	out := node.Clone()

	sel, ok := Range(tree)
	if !ok || !node.IsText() || node.IsTokenOrSegmented() || !IsSelected(tree, sel, key) {
		return out
	}

	isAnchor := sel.Anchor.Key == key
	isFocus := sel.Focus.Key == key
	if !isAnchor && !isFocus {
		return out
	}

	backward := IsBackward(tree, sel)
	anchorOffset, focusOffset := CharacterOffsets(tree, sel)
	firstKey, lastKey := sel.Anchor.Key, sel.Focus.Key
	if backward {
		firstKey, lastKey = lastKey, firstKey
	}

	start, end := 0, node.TextSize()
	switch {
	case isAnchor && isFocus:
		start = min(anchorOffset, focusOffset)
		end = max(anchorOffset, focusOffset)
	case firstKey == key:
		start = anchorOffset
		if backward {
			start = focusOffset
		}
	case lastKey == key:
		end = focusOffset
		if backward {
			end = anchorOffset
		}
	}

	out.Text = types.SliceText(node.Text, start, end)
	return out
}
