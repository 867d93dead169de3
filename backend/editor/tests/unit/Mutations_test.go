package unit

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/editor/tests"
	"Inkwell/backend/types"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Commands_Priority_Order(t *testing.T) {
	ed, _ := newTestEditor()
	const cmd types.Command = "custom"

	order := []string{}
	record := func(name string, handled bool) editor.CommandHandler {
		return func(any) bool {
			order = append(order, name)
			return handled
		}
	}

	ed.RegisterCommand(cmd, editor.PriorityLow, record("low", false))
	ed.RegisterCommand(cmd, editor.PriorityCritical, record("critical", false))
	ed.RegisterCommand(cmd, editor.PriorityLow, record("low-recent", false))
	remove := ed.RegisterCommand(cmd, editor.PriorityHigh, record("high", true))

	require.True(t, ed.Dispatch(cmd, nil))
	require.Equal(t, []string{"critical", "high"}, order)

	remove()
	order = order[:0]
	require.False(t, ed.Dispatch(cmd, nil))
	require.Equal(t, []string{"critical", "low-recent", "low"}, order)
}

func Test_Commands_Wrong_Payload_Not_Handled(t *testing.T) {
	ed, _ := newTestEditor()

	require.False(t, ed.Dispatch(types.CommandInsertText, 42))
	require.False(t, ed.Dispatch(types.CommandFormatElement, "center"))
	require.False(t, ed.Dispatch(types.CommandPatchStyle, nil))
}

func Test_Select_All(t *testing.T) {
	ed, _ := newTestEditor()
	keys := tests.BuildParagraphs(t, ed, []string{"a", "b"}, []string{"cd"})

	require.True(t, ed.Dispatch(types.CommandSelectAll, nil))

	rs, ok := types.AsRange(ed.Snapshot().Selection())
	require.True(t, ok)
	require.Equal(t, tests.TextPoint(keys[0][0], 0), rs.Anchor)
	require.Equal(t, tests.TextPoint(keys[1][0], 2), rs.Focus)
}

// Patching a style twice publishes nothing the second time.
func Test_Style_Patch_Idempotent(t *testing.T) {
	ed, _ := newTestEditor()
	keys := tests.BuildParagraphs(t, ed, []string{"hello world"})
	tests.Select(t, ed, tests.TextPoint(keys[0][0], 0), tests.TextPoint(keys[0][0], 5))

	patch := types.StylePatch{{Property: "color", Value: types.Literal("red")}}

	require.True(t, ed.Dispatch(types.CommandPatchStyle, patch))
	first := ed.Snapshot()

	require.Equal(t, []string{"hello", " world"}, tests.Leaves(first))
	exported := first.Export().Children[0].Children
	require.Equal(t, "color: red;", exported[0].Style)
	require.Equal(t, "", exported[1].Style)
	tests.RequireConsistentTree(t, first)

	require.True(t, ed.Dispatch(types.CommandPatchStyle, patch))
	require.Same(t, first, ed.Snapshot())
}

func Test_Style_Patch_Across_Nodes(t *testing.T) {
	ed, _ := newTestEditor()
	keys := tests.BuildParagraphs(t, ed, []string{"abc", "def"}, []string{"ghi"})
	tests.Select(t, ed, tests.TextPoint(keys[0][0], 1), tests.TextPoint(keys[1][0], 2))

	patch := types.StylePatch{
		{Property: "font-size", Value: types.Literal("12px")},
	}
	require.True(t, ed.Dispatch(types.CommandPatchStyle, patch))

	snap := ed.Snapshot()
	tests.RequireConsistentTree(t, snap)
	require.Equal(t, []string{"a", "bc", "def", "gh", "i"}, tests.Leaves(snap))

	styles := []string{}
	for _, p := range snap.Export().Children {
		for _, c := range p.Children {
			styles = append(styles, c.Style)
		}
	}
	require.Equal(t, []string{"", "font-size: 12px;", "font-size: 12px;", "font-size: 12px;", ""}, styles)
}

// Wrapping in quotes then retyping to paragraphs keeps every leaf.
func Test_Wrap_Round_Trip(t *testing.T) {
	ed, _ := newTestEditor()
	tests.BuildParagraphs(t, ed, []string{"a", "b"}, []string{"c"})
	before := tests.Leaves(ed.Snapshot())

	require.True(t, ed.Dispatch(types.CommandSelectAll, nil))
	require.True(t, ed.Dispatch(types.CommandWrapNodes, types.BlockSpec{Type: types.QuoteType}))

	wrapped := ed.Snapshot()
	tests.RequireConsistentTree(t, wrapped)
	require.Equal(t, before, tests.Leaves(wrapped))
	for _, child := range wrapped.Export().Children {
		require.Equal(t, types.QuoteType, child.Type)
	}

	require.True(t, ed.Dispatch(types.CommandSelectAll, nil))
	require.True(t, ed.Dispatch(types.CommandSetBlocksType, types.BlockSpec{Type: types.ParagraphType}))

	retyped := ed.Snapshot()
	tests.RequireConsistentTree(t, retyped)
	require.Equal(t, before, tests.Leaves(retyped))
	require.Len(t, retyped.Export().Children, 2)
	for _, child := range retyped.Export().Children {
		require.Equal(t, types.ParagraphType, child.Type)
	}
}

func Test_Set_Blocks_Type_Keeps_Alignment(t *testing.T) {
	ed, _ := newTestEditor()
	keys := tests.BuildParagraphs(t, ed, []string{"title"}, []string{"body"})
	tests.Caret(t, ed, keys[0][0], 2)

	require.True(t, ed.Dispatch(types.CommandFormatElement, types.Center))
	require.True(t, ed.Dispatch(types.CommandSetBlocksType, types.BlockSpec{
		Type:    types.HeadingType,
		Options: types.ElementOptions{Level: types.H1},
	}))

	exported := ed.Snapshot().Export().Children
	require.Equal(t, types.HeadingType, exported[0].Type)
	require.Equal(t, types.H1, exported[0].Level)
	require.Equal(t, types.Center, exported[0].Align)
	require.Equal(t, types.ParagraphType, exported[1].Type)

	// the caret followed its text node
	rs, ok := types.AsRange(ed.Snapshot().Selection())
	require.True(t, ok)
	require.Equal(t, tests.TextPoint(keys[0][0], 2), rs.Anchor)
}

func Test_Indent_Outdent(t *testing.T) {
	ed, _ := newTestEditor()
	tests.BuildParagraphs(t, ed, []string{"a"}, []string{"b"})
	require.True(t, ed.Dispatch(types.CommandSelectAll, nil))

	require.True(t, ed.Dispatch(types.CommandIndentContent, nil))
	require.True(t, ed.Dispatch(types.CommandIndentContent, nil))
	for _, child := range ed.Snapshot().Export().Children {
		require.Equal(t, 2, child.Indent)
	}

	for i := 0; i < 3; i++ {
		require.True(t, ed.Dispatch(types.CommandOutdentContent, nil))
	}
	for _, child := range ed.Snapshot().Export().Children {
		require.Equal(t, 0, child.Indent)
	}
}

func Test_Delete_Character_Merges_Blocks(t *testing.T) {
	ed, _ := newTestEditor()
	keys := tests.BuildParagraphs(t, ed, []string{"ab"}, []string{"cd"})
	tests.Caret(t, ed, keys[1][0], 0)

	require.True(t, ed.Dispatch(types.CommandDeleteCharacter, true))

	snap := ed.Snapshot()
	tests.RequireConsistentTree(t, snap)
	require.Len(t, snap.Export().Children, 1)
	require.Equal(t, "abcd", snap.TextContent())

	rs, ok := types.AsRange(snap.Selection())
	require.True(t, ok)
	require.Equal(t, tests.TextPoint(keys[0][0], 2), rs.Anchor)
}

func Test_Insert_Text_With_Selection_Format(t *testing.T) {
	ed, _ := newTestEditor()
	keys := tests.BuildParagraphs(t, ed, []string{"plain"})

	err := ed.Update(func(tree editor.Tree) error {
		sel := types.NewCaret(keys[0][0], 5, types.TextPoint)
		sel.ToggleFormat(types.FormatBold)
		tree.SetSelection(sel)
		return nil
	})
	require.NoError(t, err)

	require.True(t, ed.Dispatch(types.CommandInsertText, "!"))

	exported := ed.Snapshot().Export().Children[0].Children
	require.Len(t, exported, 2)
	require.Equal(t, "!", exported[1].Text)
	require.Equal(t, types.FormatBold, exported[1].Format)
}
