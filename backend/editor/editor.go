package editor

import (
	"Inkwell/backend/types"

	"github.com/rs/zerolog"
)

// Editor is an editing surface: it owns a document, publishes one snapshot
// per update transaction, and routes commands through its dispatch table.
type Editor interface {
	types.Surface

	// Snapshot returns the last published snapshot.
	Snapshot() *types.Snapshot

	// Update runs fn against a working copy of the document and publishes the
	// result as one snapshot. If fn returns an error nothing is published and
	// the error is returned. Update called from inside fn joins the running
	// transaction; called from an update listener it runs once the current
	// publish completes.
	Update(fn func(Tree) error, tags ...string) error

	// Dispatch runs the handlers registered for cmd from the highest priority
	// down and stops at the first one returning true. It reports whether any
	// handler handled the command.
	Dispatch(cmd types.Command, payload any) bool

	// RegisterCommand adds handler for cmd and returns a function removing it.
	RegisterCommand(cmd types.Command, priority Priority, handler CommandHandler) func()

	// RegisterUpdateListener calls listener after every publish and returns a
	// function removing it.
	RegisterUpdateListener(listener UpdateListener) func()

	// SetComposing opens or closes an input method composition.
	SetComposing(composing bool)

	IsComposing() bool

	// History returns the history state the surface records into.
	History() *types.HistoryState

	Logger() zerolog.Logger

	Configuration() Configuration
}

// CommandHandler handles a dispatched command and reports whether it did.
type CommandHandler func(payload any) bool

// UpdateListener observes published transactions.
type UpdateListener func(info types.UpdateInfo)

// Priority orders handlers of the same command. Higher priorities run first;
// handlers with equal priority run most recently registered first.
type Priority int

const (
	PriorityEditor Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityCritical
)
