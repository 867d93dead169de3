package types

// ---------------------ChangeKind------------------------

func (k ChangeKind) String() string {
	switch k {
	case ChangeComposingCharacter:
		return "composing_character"
	case ChangeInsertCharacterAfterSelection:
		return "insert_character_after_selection"
	case ChangeDeleteCharacterBeforeSelection:
		return "delete_character_before_selection"
	case ChangeDeleteCharacterAfterSelection:
		return "delete_character_after_selection"
	default:
		return "other"
	}
}

func (a MergeAction) String() string {
	switch a {
	case HistoryMerge:
		return "merge"
	case HistoryPush:
		return "push"
	default:
		return "discard"
	}
}

// ---------------------HistoryState------------------------

// NewHistoryState returns an empty history.
func NewHistoryState() *HistoryState {
	return &HistoryState{
		Current:   nil,
		UndoStack: []*HistoryEntry{},
		RedoStack: []*HistoryEntry{},
	}
}

// Clear empties both stacks and forgets the current entry.
func (h *HistoryState) Clear() {
	h.Current = nil
	h.UndoStack = h.UndoStack[:0]
	h.RedoStack = h.RedoStack[:0]
}

func (h *HistoryState) CanUndo() bool { return len(h.UndoStack) > 0 }

func (h *HistoryState) CanRedo() bool { return len(h.RedoStack) > 0 }

func (h *HistoryState) UndoCount() int { return len(h.UndoStack) }

func (h *HistoryState) RedoCount() int { return len(h.RedoStack) }

// PushUndo pushes entry and evicts the oldest entries beyond max. A max of 0
// keeps every entry.
func (h *HistoryState) PushUndo(entry *HistoryEntry, max int) {
	h.UndoStack = append(h.UndoStack, entry)
	if max > 0 && len(h.UndoStack) > max {
		h.UndoStack = append(h.UndoStack[:0], h.UndoStack[len(h.UndoStack)-max:]...)
	}
}

// PopUndo removes and returns the top of the undo stack, or nil.
func (h *HistoryState) PopUndo() *HistoryEntry {
	if len(h.UndoStack) == 0 {
		return nil
	}
	top := h.UndoStack[len(h.UndoStack)-1]
	h.UndoStack = h.UndoStack[:len(h.UndoStack)-1]
	return top
}

func (h *HistoryState) PushRedo(entry *HistoryEntry) {
	h.RedoStack = append(h.RedoStack, entry)
}

// PopRedo removes and returns the top of the redo stack, or nil.
func (h *HistoryState) PopRedo() *HistoryEntry {
	if len(h.RedoStack) == 0 {
		return nil
	}
	top := h.RedoStack[len(h.RedoStack)-1]
	h.RedoStack = h.RedoStack[:len(h.RedoStack)-1]
	return top
}
