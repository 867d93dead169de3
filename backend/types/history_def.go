package types

// ChangeKind labels the transition between two consecutive snapshots. It only
// feeds the merge window heuristic of the history.
type ChangeKind int

const (
	ChangeOther ChangeKind = iota
	ChangeComposingCharacter
	ChangeInsertCharacterAfterSelection
	ChangeDeleteCharacterBeforeSelection
	ChangeDeleteCharacterAfterSelection
)

// MergeAction is the history decision for one published snapshot.
type MergeAction int

const (
	HistoryMerge MergeAction = iota
	HistoryPush
	DiscardHistoryCandidate
)

// Update tags understood by the history.
const (
	// TagHistoric marks the replay of an undo or redo.
	TagHistoric = "historic"
	// TagHistoryPush forces the update to start a new undo step.
	TagHistoryPush = "history-push"
	// TagHistoryMerge asks for the update to extend the current undo step.
	TagHistoryMerge = "history-merge"
)

// Surface is an editing surface that can be the owner of history entries.
type Surface interface {
	// ID identifies the surface for its whole lifetime.
	ID() string
	// SetSnapshot publishes snap as the surface's document.
	SetSnapshot(snap *Snapshot, tags ...string) error
}

// HistoryEntry is one undo step: the snapshot and the surface that produced it.
type HistoryEntry struct {
	Owner    Surface
	Snapshot *Snapshot
}

// HistoryState holds the undo and redo stacks shared by every surface bound to
// it. The top of each stack is its last element. It is only ever mutated from
// a surface's update listener or command handlers.
type HistoryState struct {
	Current   *HistoryEntry
	UndoStack []*HistoryEntry
	RedoStack []*HistoryEntry
}

// UpdateInfo describes one published transaction to update listeners.
type UpdateInfo struct {
	Prev *Snapshot
	Next *Snapshot

	DirtyLeaves *Set[NodeKey]
	// DirtyElements maps each dirty element to whether it was changed
	// intentionally (true) or only marked because a descendant changed.
	DirtyElements map[NodeKey]bool

	Tags *Set[string]
}
