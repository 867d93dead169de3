package impl

import "Inkwell/backend/types"

// getDirtyNodes returns the dirty leaves still present in next plus the
// elements changed on purpose, the root excepted.
func getDirtyNodes(next *types.Snapshot, dirtyLeaves *types.Set[types.NodeKey], dirtyElements map[types.NodeKey]bool) []*types.Node {
	nodes := []*types.Node{}

	for _, key := range types.SortedKeys(dirtyLeaves) {
		if n := next.Node(key); n != nil {
			nodes = append(nodes, n)
		}
	}

	for key, intentional := range dirtyElements {
		if !intentional || key == types.RootKey {
			continue
		}
		if n := next.Node(key); n != nil && !n.IsRoot() {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// getChangeType labels the transition from prev to next.
func getChangeType(prev, next *types.Snapshot, dirtyLeaves *types.Set[types.NodeKey], dirtyElements map[types.NodeKey]bool, composing bool) types.ChangeKind {
	if prev == nil || (dirtyLeaves.Size() == 0 && len(dirtyElements) == 0 && !composing) {
		return types.ChangeOther
	}

	if composing {
		return types.ChangeComposingCharacter
	}

	nextSelection, ok := types.AsRange(next.Selection())
	if !ok || !nextSelection.IsCollapsed() {
		return types.ChangeOther
	}
	prevSelection, ok := types.AsRange(prev.Selection())
	if !ok || !prevSelection.IsCollapsed() {
		return types.ChangeOther
	}

	dirtyNodes := getDirtyNodes(next, dirtyLeaves, dirtyElements)
	if len(dirtyNodes) == 0 {
		return types.ChangeOther
	}

	// A character typed where no text node could take it creates a new one.
	if len(dirtyNodes) > 1 {
		anchor := next.Node(nextSelection.Anchor.Key)
		if anchor != nil &&
			next.Has(prevSelection.Anchor.Key) &&
			!prev.Has(anchor.Key) &&
			anchor.IsText() &&
			anchor.TextSize() == 1 &&
			nextSelection.Anchor.Offset == 1 &&
			isFirstChild(next, anchor) {
			return types.ChangeInsertCharacterAfterSelection
		}
		return types.ChangeOther
	}

	nextDirty := dirtyNodes[0]
	prevDirty := prev.Node(nextDirty.Key)

	if !prevDirty.IsText() ||
		!nextDirty.IsText() ||
		prevDirty.Mode != nextDirty.Mode {
		return types.ChangeOther
	}

	if prevDirty.Text == nextDirty.Text {
		return types.ChangeOther
	}

	nextAnchor := nextSelection.Anchor
	prevAnchor := prevSelection.Anchor
	if nextAnchor.Key != prevAnchor.Key || nextAnchor.Type != types.TextPoint || nextAnchor.Key != nextDirty.Key {
		return types.ChangeOther
	}

	nextOffset := nextAnchor.Offset
	prevOffset := prevAnchor.Offset
	diff := nextDirty.TextSize() - prevDirty.TextSize()

	switch {
	case diff == 1 && prevOffset == nextOffset-1:
		return types.ChangeInsertCharacterAfterSelection
	case diff == -1 && prevOffset == nextOffset+1:
		return types.ChangeDeleteCharacterBeforeSelection
	case diff == -1 && prevOffset == nextOffset:
		return types.ChangeDeleteCharacterAfterSelection
	default:
		return types.ChangeOther
	}
}

func isFirstChild(snap *types.Snapshot, n *types.Node) bool {
	parent := snap.Node(n.Parent)
	return parent != nil && len(parent.Children) > 0 && parent.Children[0] == n.Key
}
