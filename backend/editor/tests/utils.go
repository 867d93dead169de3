package tests

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// FakeClock is a manually advanced clock for merge window tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestConfiguration returns a quiet configuration driven by clock.
func TestConfiguration(clock *FakeClock) editor.Configuration {
	conf := editor.DefaultConfiguration()
	conf.LogLevel = zerolog.Disabled
	conf.Clock = clock.Now
	conf.MergeWindow = time.Second
	return conf
}

// Signals records the capability signals of a surface.
type Signals struct {
	CanUndo []bool
	CanRedo []bool
}

// RecordSignals registers handlers recording can-undo and can-redo.
func RecordSignals(ed editor.Editor) *Signals {
	s := &Signals{}
	ed.RegisterCommand(types.CommandCanUndo, editor.PriorityLow, func(payload any) bool {
		s.CanUndo = append(s.CanUndo, payload.(bool))
		return true
	})
	ed.RegisterCommand(types.CommandCanRedo, editor.PriorityLow, func(payload any) bool {
		s.CanRedo = append(s.CanRedo, payload.(bool))
		return true
	})
	return s
}

// BuildParagraphs replaces the document with one paragraph per entry, each
// holding one text node per string, and returns the text node keys.
func BuildParagraphs(t *testing.T, ed editor.Editor, paragraphs ...[]string) [][]types.NodeKey {
	keys := make([][]types.NodeKey, len(paragraphs))

	err := ed.Update(func(tree editor.Tree) error {
		for _, child := range tree.Children(types.RootKey) {
			if err := tree.Remove(child.Key, false); err != nil {
				return err
			}
		}
		for i, texts := range paragraphs {
			p := tree.CreateElement(types.ParagraphType, types.ElementOptions{})
			if err := tree.Append(types.RootKey, p.Key); err != nil {
				return err
			}
			for _, text := range texts {
				n := tree.CreateText(text)
				if err := tree.Append(p.Key, n.Key); err != nil {
					return err
				}
				keys[i] = append(keys[i], n.Key)
			}
		}
		return nil
	})
	require.NoError(t, err)

	return keys
}

// Select publishes a range selection.
func Select(t *testing.T, ed editor.Editor, anchor, focus types.Point) {
	err := ed.Update(func(tree editor.Tree) error {
		tree.SetSelection(types.NewRangeSelection(anchor, focus))
		return nil
	})
	require.NoError(t, err)
}

// Caret publishes a collapsed selection in a text node.
func Caret(t *testing.T, ed editor.Editor, key types.NodeKey, offset int) {
	p := TextPoint(key, offset)
	Select(t, ed, p, p)
}

func TextPoint(key types.NodeKey, offset int) types.Point {
	return types.Point{Key: key, Offset: offset, Type: types.TextPoint}
}

func ElementPoint(key types.NodeKey, offset int) types.Point {
	return types.Point{Key: key, Offset: offset, Type: types.ElementPoint}
}

// Type dispatches one insert-text command per character, advancing clock by
// step before each.
func Type(t *testing.T, ed editor.Editor, clock *FakeClock, step time.Duration, text string) {
	for _, r := range text {
		clock.Advance(step)
		require.True(t, ed.Dispatch(types.CommandInsertText, string(r)))
	}
}

// Leaves returns the text of every text node of the document in order.
func Leaves(snap *types.Snapshot) []string {
	return snap.Export().Leaves()
}

// RequireConsistentTree checks the parent and child links of every node.
func RequireConsistentTree(t *testing.T, snap *types.Snapshot) {
	for _, key := range snap.Keys() {
		n := snap.Node(key)
		require.Equal(t, key, n.Key)

		for _, child := range n.Children {
			c := snap.Node(child)
			require.NotNil(t, c, "missing child %s of %s\n%s", child, key, spew.Sdump(snap.Export()))
			require.Equal(t, key, c.Parent, "child %s of %s points to %s", child, key, c.Parent)
		}

		if key == types.RootKey {
			require.Empty(t, n.Parent)
			continue
		}
		parent := snap.Node(n.Parent)
		require.NotNil(t, parent, "dangling parent of %s\n%s", key, spew.Sdump(snap.Export()))
		require.Contains(t, parent.Children, key)
	}
}
