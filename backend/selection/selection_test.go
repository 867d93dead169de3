package selection_test

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/editor/impl"
	"Inkwell/backend/selection"
	"Inkwell/backend/types"
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newEditor() editor.Editor {
	conf := editor.DefaultConfiguration()
	conf.LogLevel = zerolog.Disabled
	return impl.NewEditor(conf)
}

// update runs fn in an update and fails the test on error.
func update(t *testing.T, ed editor.Editor, fn func(tree editor.Tree) error) {
	require.NoError(t, ed.Update(fn))
}

// block appends an element of typ to parent holding one text node per string
// and returns the keys of the element and its texts.
func block(tree editor.Tree, parent types.NodeKey, typ types.BlockTypeName, texts ...string) (types.NodeKey, []types.NodeKey) {
	e := tree.CreateElement(typ, types.ElementOptions{})
	if err := tree.Append(parent, e.Key); err != nil {
		panic(err)
	}
	keys := []types.NodeKey{}
	for _, text := range texts {
		n := tree.CreateText(text)
		if err := tree.Append(e.Key, n.Key); err != nil {
			panic(err)
		}
		keys = append(keys, n.Key)
	}
	return e.Key, keys
}

func text(key types.NodeKey, offset int) types.Point {
	return types.Point{Key: key, Offset: offset, Type: types.TextPoint}
}

func element(key types.NodeKey, offset int) types.Point {
	return types.Point{Key: key, Offset: offset, Type: types.ElementPoint}
}

func nodeKeys(nodes []*types.Node) []types.NodeKey {
	out := make([]types.NodeKey, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func Test_Selection_Get_Nodes(t *testing.T) {
	ed := newEditor()

	var p1, p2 types.NodeKey
	var t1, t2 []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		p1, t1 = block(tree, types.RootKey, types.ParagraphType, "ab", "cd")
		p2, t2 = block(tree, types.RootKey, types.ParagraphType, "ef")
		return nil
	})

	update(t, ed, func(tree editor.Tree) error {
		caret := types.NewCaret(t1[0], 1, types.TextPoint)
		require.Equal(t, []types.NodeKey{t1[0]}, nodeKeys(selection.GetNodes(tree, caret)))

		forward := types.NewRangeSelection(text(t1[0], 1), text(t2[0], 1))
		want := []types.NodeKey{t1[0], t1[1], p1, p2, t2[0]}
		require.Equal(t, want, nodeKeys(selection.GetNodes(tree, forward)))
		require.False(t, selection.IsBackward(tree, forward))

		backward := types.NewRangeSelection(text(t2[0], 1), text(t1[0], 1))
		require.Equal(t, want, nodeKeys(selection.GetNodes(tree, backward)))
		require.True(t, selection.IsBackward(tree, backward))

		// an element point before the second child designates it
		inside := types.NewRangeSelection(element(p1, 1), element(p1, 1))
		require.Equal(t, []types.NodeKey{t1[1]}, nodeKeys(selection.GetNodes(tree, inside)))

		whole := types.NewRangeSelection(element(types.RootKey, 0), element(types.RootKey, 2))
		require.Equal(t, t1[0], selection.GetNodes(tree, whole)[0].Key)
		require.Equal(t, t2[0], selection.GetNodes(tree, whole)[4].Key)
		return nil
	})
}

func Test_Selection_Document_Order(t *testing.T) {
	ed := newEditor()

	update(t, ed, func(tree editor.Tree) error {
		p1, t1 := block(tree, types.RootKey, types.ParagraphType, "ab", "cd")
		p2, t2 := block(tree, types.RootKey, types.ParagraphType)

		require.True(t, selection.NodeIsBefore(tree, p1, t1[0]))
		require.True(t, selection.NodeIsBefore(tree, t1[1], p2))
		require.False(t, selection.NodeIsBefore(tree, p2, t1[0]))
		require.Empty(t, t2)

		require.Equal(t, t1[0], selection.FirstDescendant(tree, types.RootKey).Key)
		require.Equal(t, p2, selection.LastDescendant(tree, types.RootKey).Key)
		require.Equal(t, t1[1], selection.DescendantByIndex(tree, p1, 5).Key)
		require.Nil(t, selection.DescendantByIndex(tree, p2, 0))

		require.True(t, selection.IsAtNodeEnd(tree, text(t1[1], 2)))
		require.True(t, selection.IsAtNodeEnd(tree, element(p1, 2)))
		require.False(t, selection.IsAtNodeEnd(tree, text(t1[1], 1)))
		return nil
	})
}

// Select all stays inside the shadow root holding the caret.
func Test_Selection_Select_All_Shadow_Root(t *testing.T) {
	ed := newEditor()

	var inner []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		block(tree, types.RootKey, types.ParagraphType, "outside")
		cell := tree.CreateElement(types.TableCellType, types.ElementOptions{ShadowRoot: true})
		if err := tree.Append(types.RootKey, cell.Key); err != nil {
			return err
		}
		_, inner = block(tree, cell.Key, types.ParagraphType, "in", "side")
		tree.SetSelection(types.NewCaret(inner[0], 1, types.TextPoint))
		return nil
	})

	update(t, ed, func(tree editor.Tree) error {
		selection.SelectAll(tree)
		return nil
	})

	rs, ok := types.AsRange(ed.Snapshot().Selection())
	require.True(t, ok)
	require.Equal(t, text(inner[0], 0), rs.Anchor)
	require.Equal(t, text(inner[1], 4), rs.Focus)
}

func Test_Selection_Select_All_Empty_Document(t *testing.T) {
	ed := newEditor()
	before := ed.Snapshot()

	update(t, ed, func(tree editor.Tree) error {
		selection.SelectAll(tree)
		return nil
	})

	require.Same(t, before, ed.Snapshot())
}

func Test_Selection_Set_Blocks_Type_On_Root(t *testing.T) {
	ed := newEditor()
	heading := types.BlockSpec{Type: types.HeadingType, Options: types.ElementOptions{Level: types.H2}}

	update(t, ed, func(tree editor.Tree) error {
		tree.SetSelection(types.NewCaret(types.RootKey, 0, types.ElementPoint))
		return selection.SetBlocksType(tree, heading)
	})

	children := ed.Snapshot().Export().Children
	require.Len(t, children, 1)
	require.Equal(t, types.HeadingType, children[0].Type)
	require.Equal(t, types.H2, children[0].Level)

	var leaf types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		n := tree.CreateText("body")
		leaf = n.Key
		if err := tree.Append(tree.FirstChild(types.RootKey).Key, n.Key); err != nil {
			return err
		}
		tree.SetSelection(types.NewCaret(types.RootKey, 0, types.ElementPoint))
		return selection.SetBlocksType(tree, types.BlockSpec{Type: types.QuoteType})
	})

	children = ed.Snapshot().Export().Children
	require.Len(t, children, 1)
	require.Equal(t, types.QuoteType, children[0].Type)
	require.Equal(t, "body", children[0].Children[0].Text)
	require.True(t, ed.Snapshot().Has(leaf))
}

func Test_Selection_Wrap_With_Outer(t *testing.T) {
	ed := newEditor()

	var t1, t2 []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		_, t1 = block(tree, types.RootKey, types.ParagraphType, "a")
		_, t2 = block(tree, types.RootKey, types.ParagraphType, "b")
		tree.SetSelection(types.NewRangeSelection(text(t1[0], 0), text(t2[0], 1)))
		return nil
	})

	outer := types.BlockSpec{Type: types.BulletedListType}
	update(t, ed, func(tree editor.Tree) error {
		return selection.WrapNodes(tree, types.BlockSpec{Type: types.ListItemType}, &outer)
	})

	root := ed.Snapshot().Export()
	require.Len(t, root.Children, 1)
	list := root.Children[0]
	require.Equal(t, types.BulletedListType, list.Type)
	require.Len(t, list.Children, 2)
	for _, item := range list.Children {
		require.Equal(t, types.ListItemType, item.Type)
	}
	require.Equal(t, []string{"a", "b"}, root.Leaves())

	// the selection survives the move
	rs, _ := types.AsRange(ed.Snapshot().Selection())
	require.Equal(t, text(t1[0], 0), rs.Anchor)
	require.Equal(t, text(t2[0], 1), rs.Focus)
}

func Test_Selection_Wrap_Empty_Block(t *testing.T) {
	ed := newEditor()

	update(t, ed, func(tree editor.Tree) error {
		p, _ := block(tree, types.RootKey, types.ParagraphType)
		tree.SetSelection(types.NewCaret(p, 0, types.ElementPoint))
		return nil
	})
	update(t, ed, func(tree editor.Tree) error {
		return selection.WrapNodes(tree, types.BlockSpec{Type: types.QuoteType}, nil)
	})

	root := ed.Snapshot().Root()
	require.Len(t, root.Children, 1)
	quote := ed.Snapshot().Node(root.Children[0])
	require.Equal(t, types.QuoteType, quote.Type)

	rs, _ := types.AsRange(ed.Snapshot().Selection())
	require.Equal(t, element(quote.Key, 0), rs.Anchor)
}

func Test_Selection_Style_Value_For_Property(t *testing.T) {
	ed := newEditor()

	var keys []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		_, keys = block(tree, types.RootKey, types.ParagraphType, "ab", "cd", "ef")
		for i, style := range []string{"color: red;", "color: red;font-size: 2px;", "color: blue;"} {
			w, err := tree.Writable(keys[i])
			if err != nil {
				return err
			}
			w.Style = style
		}
		return nil
	})

	update(t, ed, func(tree editor.Tree) error {
		tree.SetSelection(types.NewRangeSelection(text(keys[0], 0), text(keys[1], 1)))
		require.Equal(t, "red", selection.StyleValueForProperty(tree, "color", "black"))
		require.Equal(t, "", selection.StyleValueForProperty(tree, "font-size", "1px"))

		tree.SetSelection(types.NewRangeSelection(text(keys[0], 0), text(keys[2], 2)))
		require.Equal(t, "", selection.StyleValueForProperty(tree, "color", "black"))

		// the end node contributes nothing at offset 0
		tree.SetSelection(types.NewRangeSelection(text(keys[0], 0), text(keys[2], 0)))
		require.Equal(t, "red", selection.StyleValueForProperty(tree, "color", "black"))

		caret := types.NewCaret(keys[2], 1, types.TextPoint)
		caret.Style = "color: green;"
		tree.SetSelection(caret)
		require.Equal(t, "green", selection.StyleValueForProperty(tree, "color", "black"))

		tree.SetSelection(nil)
		require.Equal(t, "black", selection.StyleValueForProperty(tree, "color", "black"))
		return nil
	})
}

func Test_Selection_Patch_Collapsed_Records_Style(t *testing.T) {
	ed := newEditor()

	var keys []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		_, keys = block(tree, types.RootKey, types.ParagraphType, "ab")
		tree.SetSelection(types.NewCaret(keys[0], 1, types.TextPoint))
		return nil
	})

	patch := types.StylePatch{{Property: "color", Value: types.Literal("red")}}
	update(t, ed, func(tree editor.Tree) error {
		return selection.PatchStyleText(tree, patch)
	})

	rs, _ := types.AsRange(ed.Snapshot().Selection())
	require.Equal(t, "color: red;", rs.Style)
	require.Equal(t, "", ed.Snapshot().Node(keys[0]).Style)
}

func Test_Selection_Patch_Token_Styled_Whole(t *testing.T) {
	ed := newEditor()

	var keys []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		_, keys = block(tree, types.RootKey, types.ParagraphType, "@mention")
		w, err := tree.Writable(keys[0])
		if err != nil {
			return err
		}
		w.Mode = types.TokenMode
		tree.SetSelection(types.NewRangeSelection(text(keys[0], 1), text(keys[0], 3)))
		return nil
	})

	patch := types.StylePatch{{Property: "color", Value: types.Literal("red")}}
	update(t, ed, func(tree editor.Tree) error {
		return selection.PatchStyleText(tree, patch)
	})

	require.Equal(t, []string{"@mention"}, ed.Snapshot().Export().Leaves())
	require.Equal(t, "color: red;", ed.Snapshot().Node(keys[0]).Style)
}

func Test_Selection_Slice_Selected_Text(t *testing.T) {
	ed := newEditor()

	update(t, ed, func(tree editor.Tree) error {
		_, keys := block(tree, types.RootKey, types.ParagraphType, "hello", "world")

		tree.SetSelection(types.NewRangeSelection(text(keys[0], 3), text(keys[0], 1)))
		require.Equal(t, "el", selection.SliceSelectedTextContent(tree, keys[0]).Text)

		tree.SetSelection(types.NewRangeSelection(text(keys[0], 3), text(keys[1], 2)))
		require.Equal(t, "lo", selection.SliceSelectedTextContent(tree, keys[0]).Text)
		require.Equal(t, "wo", selection.SliceSelectedTextContent(tree, keys[1]).Text)

		// the live node is left alone
		require.Equal(t, "hello", tree.Get(keys[0]).Text)
		return nil
	})
}

func Test_Selection_Format_Element_Node_Selection(t *testing.T) {
	ed := newEditor()

	var p types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		var keys []types.NodeKey
		p, keys = block(tree, types.RootKey, types.ParagraphType, "a")
		tree.SetSelection(types.NewNodeSelection(keys[0]))
		return nil
	})

	update(t, ed, func(tree editor.Tree) error {
		ok, err := selection.FormatElement(tree, types.Right)
		require.True(t, ok)
		return err
	})
	require.Equal(t, types.Right, ed.Snapshot().Node(p).Align)

	// indentation needs a range selection
	update(t, ed, func(tree editor.Tree) error {
		ok, err := selection.Indent(tree)
		require.False(t, ok)
		return err
	})
	require.Equal(t, 0, ed.Snapshot().Node(p).Indent)
}

func Test_Selection_Insert_Text(t *testing.T) {
	ed := newEditor()

	var keys []types.NodeKey
	var p types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		p, keys = block(tree, types.RootKey, types.ParagraphType, "hello")
		tree.SetSelection(types.NewRangeSelection(text(keys[0], 4), text(keys[0], 1)))
		return nil
	})

	update(t, ed, func(tree editor.Tree) error {
		ok, err := selection.InsertText(tree, "ipp")
		require.True(t, ok)
		return err
	})
	require.Equal(t, "hippo", ed.Snapshot().Node(keys[0]).Text)
	rs, _ := types.AsRange(ed.Snapshot().Selection())
	require.Equal(t, text(keys[0], 4), rs.Anchor)
	require.True(t, rs.IsCollapsed())

	// a caret on an element inserts a new text node at the child index
	update(t, ed, func(tree editor.Tree) error {
		tree.SetSelection(types.NewCaret(p, 0, types.ElementPoint))
		ok, err := selection.InsertText(tree, ">")
		require.True(t, ok)
		return err
	})
	require.Equal(t, []string{">", "hippo"}, ed.Snapshot().Export().Leaves())
}

func Test_Selection_Delete_Character(t *testing.T) {
	ed := newEditor()

	var keys []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		_, keys = block(tree, types.RootKey, types.ParagraphType, "ab", "#tag", "c")
		w, err := tree.Writable(keys[1])
		if err != nil {
			return err
		}
		w.Mode = types.TokenMode
		tree.SetSelection(types.NewCaret(keys[0], 2, types.TextPoint))
		return nil
	})

	// forward at the end of a node reaches the token and removes it whole
	update(t, ed, func(tree editor.Tree) error {
		ok, err := selection.DeleteCharacter(tree, false)
		require.True(t, ok)
		return err
	})
	require.Equal(t, []string{"ab", "c"}, ed.Snapshot().Export().Leaves())

	update(t, ed, func(tree editor.Tree) error {
		ok, err := selection.DeleteCharacter(tree, true)
		require.True(t, ok)
		return err
	})
	require.Equal(t, []string{"a", "c"}, ed.Snapshot().Export().Leaves())

	// at the start of the document nothing happens
	update(t, ed, func(tree editor.Tree) error {
		tree.SetSelection(types.NewCaret(keys[0], 0, types.TextPoint))
		ok, err := selection.DeleteCharacter(tree, true)
		require.False(t, ok)
		return err
	})
	require.Equal(t, []string{"a", "c"}, ed.Snapshot().Export().Leaves())
}

// The algorithms log through the logger of the running update.
func Test_Selection_Debug_Logs(t *testing.T) {
	var out bytes.Buffer
	conf := editor.DefaultConfiguration()
	conf.LogLevel = zerolog.DebugLevel
	conf.LogOutput = &out
	ed := impl.NewEditor(conf)

	var texts []types.NodeKey
	update(t, ed, func(tree editor.Tree) error {
		_, texts = block(tree, types.RootKey, types.ParagraphType, "abc")
		return nil
	})

	update(t, ed, func(tree editor.Tree) error {
		tree.SetSelection(types.NewRangeSelection(text(texts[0], 0), text(texts[0], 3)))
		if err := selection.PatchStyleText(tree, types.StylePatch{{Property: "color", Value: types.Literal("red")}}); err != nil {
			return err
		}
		if err := selection.WrapNodes(tree, types.BlockSpec{Type: types.QuoteType}, nil); err != nil {
			return err
		}
		return selection.TrimTextContentFromAnchor(tree, text(texts[0], 3), 1)
	})

	require.Contains(t, out.String(), "patching style")
	require.Contains(t, out.String(), "wrapping nodes")
	require.Contains(t, out.String(), "trimming")
}
