package types

// Command names a request dispatched on an editing surface.
type Command string

const (
	// CommandUndo restores the previous undo step. No payload.
	CommandUndo Command = "undo"
	// CommandRedo restores the last undone step. No payload.
	CommandRedo Command = "redo"
	// CommandClearHistory empties the undo and redo stacks. No payload.
	CommandClearHistory Command = "clear-history"
	// CommandClearEditor empties the history; the host clears the document.
	CommandClearEditor Command = "clear-editor"
	// CommandCanUndo signals undo availability. Payload: bool.
	CommandCanUndo Command = "can-undo"
	// CommandCanRedo signals redo availability. Payload: bool.
	CommandCanRedo Command = "can-redo"

	// CommandSelectAll selects the whole enclosing document. No payload.
	CommandSelectAll Command = "select-all"
	// CommandFormatElement aligns the selected blocks. Payload: TextAlignment.
	CommandFormatElement Command = "format-element"
	// CommandIndentContent indents the selected blocks. No payload.
	CommandIndentContent Command = "indent-content"
	// CommandOutdentContent outdents the selected blocks. No payload.
	CommandOutdentContent Command = "outdent-content"
	// CommandInsertText types text at the caret. Payload: string.
	CommandInsertText Command = "insert-text"
	// CommandDeleteCharacter deletes one character. Payload: bool, true for
	// backward deletion.
	CommandDeleteCharacter Command = "delete-character"
	// CommandPatchStyle patches the style of the selection. Payload: StylePatch.
	CommandPatchStyle Command = "patch-style"
	// CommandSetBlocksType retypes the selected blocks. Payload: BlockSpec.
	CommandSetBlocksType Command = "set-blocks-type"
	// CommandWrapNodes wraps the selected leaves in new blocks. Payload:
	// BlockSpec.
	CommandWrapNodes Command = "wrap-nodes"
)

// BlockSpec describes the element created by retyping and wrapping commands.
type BlockSpec struct {
	Type    BlockTypeName
	Options ElementOptions
}
