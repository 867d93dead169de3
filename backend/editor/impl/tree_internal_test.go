package impl

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func newTestSurface() *surface {
	conf := editor.DefaultConfiguration()
	conf.LogLevel = zerolog.Disabled
	return newSurface(conf)
}

// setup creates root > p > texts and returns the keys of p and its texts.
func setup(t *testing.T, s *surface, texts ...string) (types.NodeKey, []types.NodeKey) {
	var p types.NodeKey
	keys := []types.NodeKey{}
	err := s.Update(func(tree editor.Tree) error {
		p = tree.CreateElement(types.ParagraphType, types.ElementOptions{}).Key
		if err := tree.Append(types.RootKey, p); err != nil {
			return err
		}
		for _, text := range texts {
			n := tree.CreateText(text)
			keys = append(keys, n.Key)
			if err := tree.Append(p, n.Key); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return p, keys
}

func Test_Tree_Split_Text_Moves_Points(t *testing.T) {
	s := newTestSurface()
	p, keys := setup(t, s, "abcdef")

	var parts []*types.Node
	err := s.Update(func(tree editor.Tree) error {
		tree.SetSelection(types.NewRangeSelection(
			types.Point{Key: keys[0], Offset: 2, Type: types.TextPoint},
			types.Point{Key: keys[0], Offset: 5, Type: types.TextPoint},
		))
		var err error
		parts, err = tree.SplitText(keys[0], 4, 2, 6)
		return err
	})
	require.NoError(t, err)

	require.Len(t, parts, 3)
	require.Equal(t, keys[0], parts[0].Key)

	snap := s.Snapshot()
	require.Equal(t, []string{"ab", "cd", "ef"}, snap.Export().Leaves())
	require.Equal(t, []types.NodeKey{parts[0].Key, parts[1].Key, parts[2].Key}, snap.Node(p).Children)

	rs, ok := types.AsRange(snap.Selection())
	require.True(t, ok)
	// a point on a boundary stays at the end of the earlier fragment
	require.Equal(t, types.Point{Key: keys[0], Offset: 2, Type: types.TextPoint}, rs.Anchor)
	require.Equal(t, types.Point{Key: parts[2].Key, Offset: 1, Type: types.TextPoint}, rs.Focus)
}

func Test_Tree_Split_Text_Edges(t *testing.T) {
	s := newTestSurface()
	_, keys := setup(t, s, "abc")

	err := s.Update(func(tree editor.Tree) error {
		parts, err := tree.SplitText(keys[0], 0, 3)
		require.NoError(t, err)
		require.Len(t, parts, 1)

		_, err = tree.SplitText(keys[0], 4)
		require.True(t, xerrors.Is(err, types.ErrOffsetOutOfRange))

		_, err = tree.SplitText(tree.Parent(keys[0]).Key, 1)
		require.True(t, xerrors.Is(err, types.ErrExpectedText))
		return nil
	})
	require.NoError(t, err)
}

func Test_Tree_Remove_Moves_Selection(t *testing.T) {
	s := newTestSurface()
	p, keys := setup(t, s, "ab", "cd")

	err := s.Update(func(tree editor.Tree) error {
		tree.SetSelection(types.NewCaret(keys[1], 1, types.TextPoint))
		return tree.Remove(keys[1], false)
	})
	require.NoError(t, err)

	rs, _ := types.AsRange(s.Snapshot().Selection())
	require.Equal(t, types.Point{Key: keys[0], Offset: 2, Type: types.TextPoint}, rs.Anchor)
	require.False(t, s.Snapshot().Has(keys[1]))

	err = s.Update(func(tree editor.Tree) error {
		return tree.Remove(keys[0], false)
	})
	require.NoError(t, err)

	rs, _ = types.AsRange(s.Snapshot().Selection())
	require.Equal(t, types.Point{Key: p, Offset: 0, Type: types.ElementPoint}, rs.Anchor)
}

func Test_Tree_Remove_Restore_Children(t *testing.T) {
	s := newTestSurface()
	p, keys := setup(t, s, "a", "b")

	err := s.Update(func(tree editor.Tree) error {
		tree.SetSelection(types.NewCaret(p, 1, types.ElementPoint))
		return tree.Remove(p, true)
	})
	require.NoError(t, err)

	root := s.Snapshot().Root()
	require.Equal(t, keys, root.Children)
	rs, _ := types.AsRange(s.Snapshot().Selection())
	require.Equal(t, types.Point{Key: types.RootKey, Offset: 1, Type: types.ElementPoint}, rs.Anchor)
}

func Test_Tree_Invalid_Moves(t *testing.T) {
	s := newTestSurface()
	p, keys := setup(t, s, "a")

	err := s.Update(func(tree editor.Tree) error {
		require.True(t, xerrors.Is(tree.Append(keys[0], p), types.ErrExpectedElement))
		require.True(t, xerrors.Is(tree.InsertBefore(keys[0], p), types.ErrInvalidMove))
		require.True(t, xerrors.Is(tree.Remove(types.RootKey, false), types.ErrInvalidMove))

		orphan := tree.CreateText("x")
		require.True(t, xerrors.Is(tree.InsertAfter(orphan.Key, keys[0]), types.ErrDetached))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, s.Snapshot().Export().Leaves())
}

func Test_Tree_Failed_Update_Publishes_Nothing(t *testing.T) {
	s := newTestSurface()
	_, keys := setup(t, s, "a")
	before := s.Snapshot()

	published := 0
	s.RegisterUpdateListener(func(types.UpdateInfo) { published++ })

	err := s.Update(func(tree editor.Tree) error {
		w, err := tree.Writable(keys[0])
		require.NoError(t, err)
		w.Text = "changed"
		return xerrors.New("boom")
	})
	require.Error(t, err)
	require.Same(t, before, s.Snapshot())
	require.Equal(t, 0, published)
	require.Equal(t, "a", before.Node(keys[0]).Text)

	// a selection left on a missing node fails the commit
	err = s.Update(func(tree editor.Tree) error {
		tree.SetSelection(types.NewCaret("missing", 0, types.TextPoint))
		return nil
	})
	require.True(t, xerrors.Is(err, types.ErrStalePoint))
	require.Same(t, before, s.Snapshot())
}

func Test_Tree_Detached_Nodes_Collected(t *testing.T) {
	s := newTestSurface()
	_, keys := setup(t, s, "a")
	size := s.Snapshot().Len()

	var info types.UpdateInfo
	s.RegisterUpdateListener(func(i types.UpdateInfo) { info = i })

	err := s.Update(func(tree editor.Tree) error {
		tree.CreateText("never attached")
		return tree.Remove(keys[0], false)
	})
	require.NoError(t, err)

	require.Equal(t, size-1, s.Snapshot().Len())
	require.True(t, info.DirtyLeaves.Contains(keys[0]))
	require.Equal(t, 1, info.DirtyLeaves.Size())
}

func Test_Tree_Unchanged_Update_Not_Published(t *testing.T) {
	s := newTestSurface()
	setup(t, s, "a")
	before := s.Snapshot()

	err := s.Update(func(tree editor.Tree) error {
		tree.Get(types.RootKey)
		return nil
	})
	require.NoError(t, err)
	require.Same(t, before, s.Snapshot())
}

func Test_Tree_Nested_And_Queued_Updates(t *testing.T) {
	s := newTestSurface()
	_, keys := setup(t, s, "a")

	published := []string{}
	s.RegisterUpdateListener(func(info types.UpdateInfo) {
		text := info.Next.Node(keys[0]).Text
		published = append(published, text)
		if text == "ab" {
			// queued until listeners are done
			err := s.Update(func(tree editor.Tree) error {
				w, err := tree.Writable(keys[0])
				if err != nil {
					return err
				}
				w.Text += "c"
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, "ab", s.Snapshot().Node(keys[0]).Text)
		}
	})

	err := s.Update(func(tree editor.Tree) error {
		return s.Update(func(inner editor.Tree) error {
			w, err := inner.Writable(keys[0])
			if err != nil {
				return err
			}
			w.Text = "ab"
			return nil
		}, types.TagHistoryPush)
	})
	require.NoError(t, err)

	require.Equal(t, []string{"ab", "abc"}, published)
	require.Equal(t, "abc", s.Snapshot().Node(keys[0]).Text)
}

func Test_Tree_Closed_Transaction_Rejects_Writes(t *testing.T) {
	s := newTestSurface()
	_, keys := setup(t, s, "a")

	var leaked editor.Tree
	err := s.Update(func(tree editor.Tree) error {
		leaked = tree
		return nil
	})
	require.NoError(t, err)

	_, err = leaked.Writable(keys[0])
	require.True(t, xerrors.Is(err, types.ErrNoTransaction))
}

func Test_Surface_Set_Snapshot(t *testing.T) {
	s := newTestSurface()
	setup(t, s, "a")
	old := s.Snapshot()
	setup(t, s, "b")

	var info types.UpdateInfo
	s.RegisterUpdateListener(func(i types.UpdateInfo) { info = i })

	require.NoError(t, s.SetSnapshot(old, types.TagHistoric))
	require.Same(t, old, s.Snapshot())
	require.Same(t, old, info.Next)
	require.True(t, info.Tags.Contains(types.TagHistoric))
	require.True(t, info.DirtyElements[types.RootKey])

	require.Error(t, s.SetSnapshot(nil))

	invalid := types.NewSnapshot(old.CopyNodes(), types.NewCaret("missing", 0, types.TextPoint))
	require.Error(t, s.SetSnapshot(invalid))
	require.Same(t, old, s.Snapshot())

	err := s.Update(func(editor.Tree) error {
		return s.SetSnapshot(old)
	})
	require.Error(t, err)
}
