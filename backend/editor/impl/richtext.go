package impl

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/selection"
	"Inkwell/backend/types"
)

// registerRichText installs the selection driven editing commands.
func (s *surface) registerRichText() func() {
	unregister := []func(){
		s.RegisterCommand(types.CommandSelectAll, editor.PriorityEditor, func(any) bool {
			return s.runCommand(types.CommandSelectAll, func(tree editor.Tree) (bool, error) {
				selection.SelectAll(tree)
				return true, nil
			})
		}),
		s.RegisterCommand(types.CommandFormatElement, editor.PriorityEditor, func(payload any) bool {
			align, ok := payload.(types.TextAlignment)
			if !ok {
				return false
			}
			return s.runCommand(types.CommandFormatElement, func(tree editor.Tree) (bool, error) {
				return selection.FormatElement(tree, align)
			})
		}),
		s.RegisterCommand(types.CommandIndentContent, editor.PriorityEditor, func(any) bool {
			return s.runCommand(types.CommandIndentContent, selection.Indent)
		}),
		s.RegisterCommand(types.CommandOutdentContent, editor.PriorityEditor, func(any) bool {
			return s.runCommand(types.CommandOutdentContent, selection.Outdent)
		}),
		s.RegisterCommand(types.CommandInsertText, editor.PriorityEditor, func(payload any) bool {
			text, ok := payload.(string)
			if !ok {
				return false
			}
			return s.runCommand(types.CommandInsertText, func(tree editor.Tree) (bool, error) {
				return selection.InsertText(tree, text)
			})
		}),
		s.RegisterCommand(types.CommandDeleteCharacter, editor.PriorityEditor, func(payload any) bool {
			backward, ok := payload.(bool)
			if !ok {
				return false
			}
			return s.runCommand(types.CommandDeleteCharacter, func(tree editor.Tree) (bool, error) {
				return selection.DeleteCharacter(tree, backward)
			})
		}),
		s.RegisterCommand(types.CommandPatchStyle, editor.PriorityEditor, func(payload any) bool {
			patch, ok := payload.(types.StylePatch)
			if !ok {
				return false
			}
			return s.runCommand(types.CommandPatchStyle, func(tree editor.Tree) (bool, error) {
				return true, selection.PatchStyleText(tree, patch)
			})
		}),
		s.RegisterCommand(types.CommandSetBlocksType, editor.PriorityEditor, func(payload any) bool {
			spec, ok := payload.(types.BlockSpec)
			if !ok {
				return false
			}
			return s.runCommand(types.CommandSetBlocksType, func(tree editor.Tree) (bool, error) {
				return true, selection.SetBlocksType(tree, spec)
			})
		}),
		s.RegisterCommand(types.CommandWrapNodes, editor.PriorityEditor, func(payload any) bool {
			spec, ok := payload.(types.BlockSpec)
			if !ok {
				return false
			}
			return s.runCommand(types.CommandWrapNodes, func(tree editor.Tree) (bool, error) {
				return true, selection.WrapNodes(tree, spec, nil)
			})
		}),
	}

	return func() {
		for _, fn := range unregister {
			fn()
		}
	}
}

// runCommand runs fn in an update and reports whether it handled the command.
// A failing command publishes nothing and is reported as not handled.
func (s *surface) runCommand(cmd types.Command, fn func(editor.Tree) (bool, error)) bool {
	handled := false
	err := s.Update(func(tree editor.Tree) error {
		var err error
		handled, err = fn(tree)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("command", string(cmd)).Msg("command failed")
		return false
	}
	return handled
}
