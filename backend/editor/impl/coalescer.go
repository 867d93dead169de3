package impl

import (
	"Inkwell/backend/types"
	"time"
)

// mergeActionGetter decides what a published update does to the history.
type mergeActionGetter func(info types.UpdateInfo, current *types.HistoryEntry, owner types.Surface, composing bool) types.MergeAction

// createMergeActionGetter returns a getter remembering the time and kind of
// the previous change. Consecutive changes of the same kind closer than delay
// are merged.
func createMergeActionGetter(delay time.Duration, clock func() time.Time) mergeActionGetter {
	var prevChangeTime time.Time
	prevChangeType := types.ChangeOther

	return func(info types.UpdateInfo, current *types.HistoryEntry, owner types.Surface, composing bool) types.MergeAction {
		changeTime := clock()
		changeType := types.ChangeOther

		defer func() {
			prevChangeTime = changeTime
			prevChangeType = changeType
		}()

		if info.Tags.Contains(types.TagHistoric) {
			return types.DiscardHistoryCandidate
		}

		changeType = getChangeType(info.Prev, info.Next, info.DirtyLeaves, info.DirtyElements, composing)

		shouldPushHistory := info.Tags.Contains(types.TagHistoryPush)
		isSameEditor := current == nil || current.Owner.ID() == owner.ID()

		if !shouldPushHistory && isSameEditor && info.Tags.Contains(types.TagHistoryMerge) {
			return types.HistoryMerge
		}

		if info.Prev == nil {
			return types.HistoryPush
		}

		hasDirtyNodes := info.DirtyLeaves.Size() > 0 || len(info.DirtyElements) > 0
		if !hasDirtyNodes {
			if info.Next.Selection() != nil {
				return types.HistoryMerge
			}
			return types.DiscardHistoryCandidate
		}

		if !shouldPushHistory &&
			changeType != types.ChangeOther &&
			changeType == prevChangeType &&
			changeTime.Before(prevChangeTime.Add(delay)) &&
			isSameEditor {
			return types.HistoryMerge
		}

		if info.DirtyLeaves.Size() == 1 {
			key := info.DirtyLeaves.Values()[0]
			if isTextNodeUnchanged(key, info.Prev, info.Next) {
				return types.HistoryMerge
			}
		}

		return types.HistoryPush
	}
}

// isTextNodeUnchanged reports whether the text node at key exports the same
// value in both snapshots, under the same parent.
func isTextNodeUnchanged(key types.NodeKey, prev, next *types.Snapshot) bool {
	prevNode := prev.Node(key)
	nextNode := next.Node(key)

	prevSelection, prevOK := types.AsRange(prev.Selection())
	nextSelection, nextOK := types.AsRange(next.Selection())

	// Deleting a line moves the caret from an element point into text.
	isDeletingLine := prevOK && nextOK &&
		prevSelection.Anchor.Type == types.ElementPoint &&
		prevSelection.Focus.Type == types.ElementPoint &&
		nextSelection.Anchor.Type == types.TextPoint &&
		nextSelection.Focus.Type == types.TextPoint

	if isDeletingLine || !prevNode.IsText() || !nextNode.IsText() || prevNode.Parent != nextNode.Parent {
		return false
	}

	prevExport, _ := types.Export(prev.Node, key)
	nextExport, _ := types.Export(next.Node, key)
	return prevExport.Equal(nextExport)
}
