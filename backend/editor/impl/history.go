package impl

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
	"time"
)

// history records the snapshots of one surface into a shared history state.
type history struct {
	s              *surface
	state          *types.HistoryState
	maxHistory     int
	getMergeAction mergeActionGetter
}

// registerHistory binds state to the surface and returns a function removing
// every listener and command it installed.
func (s *surface) registerHistory(state *types.HistoryState, delay time.Duration) func() {
	h := &history{
		s:              s,
		state:          state,
		maxHistory:     s.conf.MaxHistory,
		getMergeAction: createMergeActionGetter(delay, s.conf.Clock),
	}

	unregister := []func(){
		s.RegisterCommand(types.CommandUndo, editor.PriorityEditor, func(any) bool {
			h.undo()
			return true
		}),
		s.RegisterCommand(types.CommandRedo, editor.PriorityEditor, func(any) bool {
			h.redo()
			return true
		}),
		s.RegisterCommand(types.CommandClearEditor, editor.PriorityEditor, func(any) bool {
			h.clear()
			return false
		}),
		s.RegisterCommand(types.CommandClearHistory, editor.PriorityEditor, func(any) bool {
			h.clear()
			s.Dispatch(types.CommandCanRedo, false)
			s.Dispatch(types.CommandCanUndo, false)
			return true
		}),
		s.RegisterUpdateListener(h.applyChange),
	}

	return func() {
		for _, fn := range unregister {
			fn()
		}
	}
}

func (h *history) applyChange(info types.UpdateInfo) {
	current := h.state.Current
	if current != nil && info.Next == current.Snapshot {
		// A replay still resets the merge window.
		if info.Tags.Contains(types.TagHistoric) {
			h.getMergeAction(info, current, h.s, h.s.IsComposing())
		}
		return
	}

	action := h.getMergeAction(info, current, h.s, h.s.IsComposing())
	historyDecisions.WithLabelValues(action.String()).Inc()

	h.s.logHistory.Debug().
		Str("action", action.String()).
		Int("undo", h.state.UndoCount()).
		Int("redo", h.state.RedoCount()).
		Msg("history decision")

	switch action {
	case types.HistoryPush:
		if h.state.CanRedo() {
			h.state.RedoStack = h.state.RedoStack[:0]
			h.s.Dispatch(types.CommandCanRedo, false)
		}
		if current != nil {
			entry := *current
			h.state.PushUndo(&entry, h.maxHistory)
			h.s.Dispatch(types.CommandCanUndo, true)
		}
	case types.DiscardHistoryCandidate:
		return
	}

	h.state.Current = &types.HistoryEntry{Owner: h.s, Snapshot: info.Next}
	undoDepth.Set(float64(h.state.UndoCount()))
}

func (h *history) undo() {
	if !h.state.CanUndo() {
		h.s.logHistory.Debug().Msg("nothing to undo")
		return
	}

	current := h.state.Current
	entry := h.state.PopUndo()

	if current != nil {
		h.state.PushRedo(current)
		h.s.Dispatch(types.CommandCanRedo, true)
	}
	if !h.state.CanUndo() {
		h.s.Dispatch(types.CommandCanUndo, false)
	}

	h.state.Current = entry
	undoDepth.Set(float64(h.state.UndoCount()))
	historyReplays.WithLabelValues("undo").Inc()

	h.replay(entry)
}

func (h *history) redo() {
	if !h.state.CanRedo() {
		h.s.logHistory.Debug().Msg("nothing to redo")
		return
	}

	current := h.state.Current
	if current != nil {
		h.state.PushUndo(current, h.maxHistory)
		h.s.Dispatch(types.CommandCanUndo, true)
	}

	entry := h.state.PopRedo()
	if !h.state.CanRedo() {
		h.s.Dispatch(types.CommandCanRedo, false)
	}

	h.state.Current = entry
	undoDepth.Set(float64(h.state.UndoCount()))
	historyReplays.WithLabelValues("redo").Inc()

	h.replay(entry)
}

func (h *history) replay(entry *types.HistoryEntry) {
	err := entry.Owner.SetSnapshot(entry.Snapshot, types.TagHistoric)
	if err != nil {
		h.s.logHistory.Error().Err(err).Str("owner", entry.Owner.ID()).Msg("failed to replay history entry")
	}
}

func (h *history) clear() {
	h.state.Clear()
	undoDepth.Set(0)
	h.s.logHistory.Debug().Msg("history cleared")
}
