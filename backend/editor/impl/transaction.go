package impl

import (
	"Inkwell/backend/types"

	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// transaction is the working copy of the document during one update. Nodes of
// the previous snapshot are shared until written, then cloned once.
//
// - implements editor.Tree
type transaction struct {
	s    *surface
	log  zerolog.Logger
	prev *types.Snapshot

	nodes     map[types.NodeKey]*types.Node
	cloned    *types.Set[types.NodeKey]
	selection types.Selection

	dirtyLeaves   *types.Set[types.NodeKey]
	dirtyElements map[types.NodeKey]bool
	tags          *types.Set[string]

	closed bool
}

func newTransaction(s *surface, prev *types.Snapshot, tags []string) *transaction {
	return &transaction{
		s:             s,
		log:           s.log,
		prev:          prev,
		nodes:         prev.CopyNodes(),
		cloned:        types.NewSet[types.NodeKey](),
		selection:     prev.Selection(),
		dirtyLeaves:   types.NewSet[types.NodeKey](),
		dirtyElements: make(map[types.NodeKey]bool),
		tags:          types.NewSet(tags...),
	}
}

func (t *transaction) close() {
	t.closed = true
}

// commit collects detached nodes, validates the selection and builds the
// published update. changed is false when neither the document nor the
// selection moved.
func (t *transaction) commit() (info types.UpdateInfo, changed bool, err error) {
	defer t.close()

	t.collectGarbage()

	err = types.ValidateSelection(t.get, t.selection)
	if err != nil {
		return info, false, xerrors.Errorf("failed to commit update: %w", err)
	}

	prevSelection := t.prev.Selection()
	if t.dirtyLeaves.Size() == 0 && len(t.dirtyElements) == 0 && types.SelectionsEqual(prevSelection, t.selection) {
		return info, false, nil
	}

	next := types.NewSnapshot(t.nodes, t.selection)
	info = types.UpdateInfo{
		Prev:          t.prev,
		Next:          next,
		DirtyLeaves:   t.dirtyLeaves,
		DirtyElements: t.dirtyElements,
		Tags:          t.tags,
	}
	return info, true, nil
}

// collectGarbage drops every node that is not reachable from the root. Dirty
// marks are kept for removed nodes that existed before the update.
func (t *transaction) collectGarbage() {
	reachable := types.NewSet[types.NodeKey]()
	stack := []types.NodeKey{types.RootKey}
	for len(stack) > 0 {
		key := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reachable.Add(key)
		if n := t.nodes[key]; n != nil {
			stack = append(stack, n.Children...)
		}
	}

	removed := 0
	for key := range t.nodes {
		if reachable.Contains(key) {
			continue
		}
		delete(t.nodes, key)
		removed++
		if !t.prev.Has(key) {
			t.dirtyLeaves.Remove(key)
			delete(t.dirtyElements, key)
		}
	}

	if removed > 0 {
		t.log.Debug().Int("nodes", removed).Msg("collected detached nodes")
	}
}

// ---------------------Dirty tracking------------------------

func (t *transaction) get(key types.NodeKey) *types.Node {
	return t.nodes[key]
}

// writable clones the node at key on first write and marks it dirty.
func (t *transaction) writable(key types.NodeKey) (*types.Node, error) {
	if t.closed {
		return nil, errClosed(key)
	}
	n := t.nodes[key]
	if n == nil {
		return nil, xerrors.Errorf("writable %s: %w", key, types.ErrNodeNotFound)
	}
	if !t.cloned.Contains(key) {
		n = n.Clone()
		t.nodes[key] = n
		t.cloned.Add(key)
	}
	t.markDirty(n)
	return n, nil
}

func (t *transaction) markDirty(n *types.Node) {
	if n.IsElement() {
		t.dirtyElements[n.Key] = true
	} else {
		t.dirtyLeaves.Add(n.Key)
	}

	parent := n.Parent
	for parent != "" {
		if _, ok := t.dirtyElements[parent]; ok {
			break
		}
		t.dirtyElements[parent] = false
		p := t.nodes[parent]
		if p == nil {
			break
		}
		parent = p.Parent
	}
}

// add registers a newly created node.
func (t *transaction) add(n *types.Node) *types.Node {
	t.nodes[n.Key] = n
	t.cloned.Add(n.Key)
	t.markDirty(n)
	return n
}

// errClosed wraps types.ErrNoTransaction for key.
func errClosed(key types.NodeKey) error {
	return xerrors.Errorf("write to %s: %w", key, types.ErrNoTransaction)
}
