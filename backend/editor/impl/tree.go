package impl

import (
	"Inkwell/backend/types"
	"sort"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// ---------------------Navigation------------------------

// Get implements editor.Tree
func (t *transaction) Get(key types.NodeKey) *types.Node {
	return t.nodes[key]
}

// Root implements editor.Tree
func (t *transaction) Root() *types.Node {
	return t.nodes[types.RootKey]
}

// Parent implements editor.Tree
func (t *transaction) Parent(key types.NodeKey) *types.Node {
	n := t.nodes[key]
	if n == nil || n.Parent == "" {
		return nil
	}
	return t.nodes[n.Parent]
}

// PreviousSibling implements editor.Tree
func (t *transaction) PreviousSibling(key types.NodeKey) *types.Node {
	return t.sibling(key, -1)
}

// NextSibling implements editor.Tree
func (t *transaction) NextSibling(key types.NodeKey) *types.Node {
	return t.sibling(key, 1)
}

func (t *transaction) sibling(key types.NodeKey, delta int) *types.Node {
	parent := t.Parent(key)
	if parent == nil {
		return nil
	}
	i := parent.ChildIndex(key) + delta
	if i < 0 || i >= len(parent.Children) {
		return nil
	}
	return t.nodes[parent.Children[i]]
}

// FirstChild implements editor.Tree
func (t *transaction) FirstChild(key types.NodeKey) *types.Node {
	n := t.nodes[key]
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return t.nodes[n.Children[0]]
}

// LastChild implements editor.Tree
func (t *transaction) LastChild(key types.NodeKey) *types.Node {
	n := t.nodes[key]
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return t.nodes[n.Children[len(n.Children)-1]]
}

// Children implements editor.Tree
func (t *transaction) Children(key types.NodeKey) []*types.Node {
	n := t.nodes[key]
	if n == nil {
		return nil
	}
	out := make([]*types.Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, t.nodes[c])
	}
	return out
}

// ChildrenSize implements editor.Tree
func (t *transaction) ChildrenSize(key types.NodeKey) int {
	n := t.nodes[key]
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// IndexWithinParent implements editor.Tree
func (t *transaction) IndexWithinParent(key types.NodeKey) int {
	parent := t.Parent(key)
	if parent == nil {
		return -1
	}
	return parent.ChildIndex(key)
}

// IsAttached implements editor.Tree
func (t *transaction) IsAttached(key types.NodeKey) bool {
	for key != "" {
		if key == types.RootKey {
			return true
		}
		n := t.nodes[key]
		if n == nil {
			return false
		}
		key = n.Parent
	}
	return false
}

// TextContent implements editor.Tree
func (t *transaction) TextContent(key types.NodeKey) string {
	return types.TextContent(t.get, key)
}

// Export implements editor.Tree
func (t *transaction) Export(key types.NodeKey) (types.ExportedNode, bool) {
	return types.Export(t.get, key)
}

// Selection implements editor.Tree
func (t *transaction) Selection() types.Selection {
	return t.selection
}

// SetSelection implements editor.Tree
func (t *transaction) SetSelection(sel types.Selection) {
	t.selection = sel
}

// PreviousSnapshot implements editor.Tree
func (t *transaction) PreviousSnapshot() *types.Snapshot {
	return t.prev
}

// Logger implements editor.Tree
func (t *transaction) Logger() *zerolog.Logger {
	return &t.log
}

// isAncestor reports whether ancestor is key or one of its ancestors.
func (t *transaction) isAncestor(ancestor, key types.NodeKey) bool {
	for key != "" {
		if key == ancestor {
			return true
		}
		n := t.nodes[key]
		if n == nil {
			return false
		}
		key = n.Parent
	}
	return false
}

// ---------------------Creation------------------------

func newKey() types.NodeKey {
	return types.NodeKey(xid.New().String())
}

// CreateText implements editor.Tree
func (t *transaction) CreateText(text string) *types.Node {
	return t.add(&types.Node{
		Key:  newKey(),
		Kind: types.TextKind,
		Type: types.TextType,
		Text: text,
		Mode: types.NormalMode,
	})
}

// CreateElement implements editor.Tree
func (t *transaction) CreateElement(typ types.BlockTypeName, opts types.ElementOptions) *types.Node {
	return t.add(&types.Node{
		Key:        newKey(),
		Kind:       types.ElementKind,
		Type:       typ,
		Children:   []types.NodeKey{},
		Align:      opts.Align,
		Indent:     opts.Indent,
		Inline:     opts.Inline,
		ShadowRoot: opts.ShadowRoot,
		Level:      opts.Level,
	})
}

// CreateLineBreak implements editor.Tree
func (t *transaction) CreateLineBreak() *types.Node {
	return t.add(&types.Node{
		Key:  newKey(),
		Kind: types.LineBreakKind,
		Type: types.LineBreakType,
	})
}

// CreateDecorator implements editor.Tree
func (t *transaction) CreateDecorator(typ types.BlockTypeName, inline bool) *types.Node {
	return t.add(&types.Node{
		Key:    newKey(),
		Kind:   types.DecoratorKind,
		Type:   typ,
		Inline: inline,
	})
}

// Writable implements editor.Tree
func (t *transaction) Writable(key types.NodeKey) (*types.Node, error) {
	return t.writable(key)
}

// ---------------------Splicing------------------------

// SplitText implements editor.Tree
func (t *transaction) SplitText(key types.NodeKey, offsets ...int) ([]*types.Node, error) {
	n := t.nodes[key]
	if n == nil {
		return nil, xerrors.Errorf("split %s: %w", key, types.ErrNodeNotFound)
	}
	if !n.IsText() {
		return nil, xerrors.Errorf("split %s: %w", key, types.ErrExpectedText)
	}

	runes := []rune(n.Text)
	cuts := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if off < 0 || off > len(runes) {
			return nil, xerrors.Errorf("split %s at %d: %w", key, off, types.ErrOffsetOutOfRange)
		}
		if off > 0 && off < len(runes) {
			cuts = append(cuts, off)
		}
	}
	sort.Ints(cuts)

	parts := make([]string, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		if cut == start {
			continue
		}
		parts = append(parts, string(runes[start:cut]))
		start = cut
	}
	parts = append(parts, string(runes[start:]))

	if len(parts) == 1 {
		return []*types.Node{n}, nil
	}

	first, err := t.writable(key)
	if err != nil {
		return nil, err
	}
	first.Text = parts[0]

	fragments := []*types.Node{first}
	prev := first
	boundary := types.TextLength(parts[0])
	for _, part := range parts[1:] {
		frag := t.add(&types.Node{
			Key:    newKey(),
			Kind:   types.TextKind,
			Type:   first.Type,
			Format: first.Format,
			Style:  first.Style,
			Mode:   first.Mode,
			Text:   part,
		})
		if first.Parent != "" {
			if err := t.InsertAfter(prev.Key, frag.Key); err != nil {
				return nil, err
			}
		}

		size := types.TextLength(part)
		for _, p := range t.points() {
			if p.Key == key && p.Type == types.TextPoint && p.Offset > boundary && p.Offset <= boundary+size {
				p.Key = frag.Key
				p.Offset -= boundary
			}
		}
		boundary += size
		prev = frag
		fragments = append(fragments, t.nodes[frag.Key])
	}

	return fragments, nil
}

// InsertBefore implements editor.Tree
func (t *transaction) InsertBefore(target, node types.NodeKey) error {
	parent, err := t.checkMove(target, node)
	if err != nil {
		return xerrors.Errorf("insert %s before %s: %w", node, target, err)
	}
	t.detach(node)
	return t.insertAt(parent, t.nodes[parent].ChildIndex(target), node)
}

// InsertAfter implements editor.Tree
func (t *transaction) InsertAfter(target, node types.NodeKey) error {
	parent, err := t.checkMove(target, node)
	if err != nil {
		return xerrors.Errorf("insert %s after %s: %w", node, target, err)
	}
	t.detach(node)
	return t.insertAt(parent, t.nodes[parent].ChildIndex(target)+1, node)
}

// Append implements editor.Tree
func (t *transaction) Append(parent types.NodeKey, children ...types.NodeKey) error {
	p := t.nodes[parent]
	if p == nil {
		return xerrors.Errorf("append to %s: %w", parent, types.ErrNodeNotFound)
	}
	if !p.IsElement() {
		return xerrors.Errorf("append to %s: %w", parent, types.ErrExpectedElement)
	}
	for _, child := range children {
		if t.nodes[child] == nil {
			return xerrors.Errorf("append %s: %w", child, types.ErrNodeNotFound)
		}
		if child == types.RootKey || t.isAncestor(child, parent) {
			return xerrors.Errorf("append %s to %s: %w", child, parent, types.ErrInvalidMove)
		}
		t.detach(child)
		if err := t.insertAt(parent, len(t.nodes[parent].Children), child); err != nil {
			return err
		}
	}
	return nil
}

// Replace implements editor.Tree
func (t *transaction) Replace(target, with types.NodeKey, includeChildren bool) error {
	if _, err := t.checkMove(target, with); err != nil {
		return xerrors.Errorf("replace %s with %s: %w", target, with, err)
	}
	if includeChildren && !t.nodes[with].IsElement() {
		return xerrors.Errorf("replace %s with %s: %w", target, with, types.ErrExpectedElement)
	}

	if err := t.InsertBefore(target, with); err != nil {
		return err
	}

	// Element points inside target follow its children.
	inside := map[*types.Point]int{}
	if includeChildren {
		for _, p := range t.points() {
			if p.Key == target && p.Type == types.ElementPoint {
				inside[p] = p.Offset
			}
		}
		children := append([]types.NodeKey{}, t.nodes[target].Children...)
		if err := t.Append(with, children...); err != nil {
			return err
		}
	}

	for _, p := range t.points() {
		if offset, ok := inside[p]; ok {
			p.Set(with, min(offset, len(t.nodes[with].Children)), types.ElementPoint)
			continue
		}
		if p.Key == target {
			t.moveToEnd(p, with)
		}
	}

	return t.Remove(target, false)
}

// Remove implements editor.Tree
func (t *transaction) Remove(key types.NodeKey, restoreChildren bool) error {
	n := t.nodes[key]
	if n == nil {
		return xerrors.Errorf("remove %s: %w", key, types.ErrNodeNotFound)
	}
	if key == types.RootKey {
		return xerrors.Errorf("remove root: %w", types.ErrInvalidMove)
	}
	if n.Parent == "" {
		// already detached
		return nil
	}

	if restoreChildren && n.IsElement() {
		children := append([]types.NodeKey{}, n.Children...)
		inside := map[*types.Point]int{}
		for _, p := range t.points() {
			if p.Key == key && p.Type == types.ElementPoint {
				inside[p] = min(p.Offset, len(children))
			}
		}
		for _, child := range children {
			if err := t.InsertBefore(key, child); err != nil {
				return err
			}
		}
		first := t.IndexWithinParent(key) - len(children)
		for p, offset := range inside {
			p.Set(t.nodes[key].Parent, first+offset, types.ElementPoint)
		}
	}

	parent := t.nodes[key].Parent
	index := t.IndexWithinParent(key)
	prev := t.PreviousSibling(key)

	t.detach(key)

	for _, p := range t.points() {
		if !t.isAncestor(key, p.Key) {
			continue
		}
		if prev != nil {
			t.moveToEnd(p, prev.Key)
		} else {
			p.Set(parent, index, types.ElementPoint)
		}
	}

	if ns, ok := t.selection.(*types.NodeSelection); ok && ns != nil {
		for _, k := range append([]types.NodeKey{}, ns.Keys...) {
			if t.isAncestor(key, k) {
				ns.Delete(k)
			}
		}
	}

	return nil
}

// checkMove validates moving node next to target and returns target's parent.
func (t *transaction) checkMove(target, node types.NodeKey) (types.NodeKey, error) {
	tn := t.nodes[target]
	if tn == nil || t.nodes[node] == nil {
		return "", types.ErrNodeNotFound
	}
	if tn.Parent == "" {
		return "", types.ErrDetached
	}
	if node == types.RootKey || node == target || t.isAncestor(node, target) {
		return "", types.ErrInvalidMove
	}
	return tn.Parent, nil
}

// detach unlinks key from its parent, shifting element points of the parent.
func (t *transaction) detach(key types.NodeKey) {
	n := t.nodes[key]
	if n == nil || n.Parent == "" {
		return
	}
	parentKey := n.Parent
	parent, err := t.writable(parentKey)
	if err != nil {
		return
	}
	index := parent.ChildIndex(key)
	if index >= 0 {
		parent.Children = append(parent.Children[:index:index], parent.Children[index+1:]...)
	}

	w, _ := t.writable(key)
	w.Parent = ""

	for _, p := range t.points() {
		if p.Key == parentKey && p.Type == types.ElementPoint && p.Offset > index {
			p.Offset--
		}
	}
}

// insertAt links the detached node into parent at index.
func (t *transaction) insertAt(parentKey types.NodeKey, index int, key types.NodeKey) error {
	parent, err := t.writable(parentKey)
	if err != nil {
		return err
	}
	if index < 0 || index > len(parent.Children) {
		return xerrors.Errorf("insert into %s at %d: %w", parentKey, index, types.ErrOffsetOutOfRange)
	}

	children := make([]types.NodeKey, 0, len(parent.Children)+1)
	children = append(children, parent.Children[:index]...)
	children = append(children, key)
	children = append(children, parent.Children[index:]...)
	parent.Children = children

	w, err := t.writable(key)
	if err != nil {
		return err
	}
	w.Parent = parentKey
	t.markDirty(w)

	for _, p := range t.points() {
		if p.Key == parentKey && p.Type == types.ElementPoint && p.Offset > index {
			p.Offset++
		}
	}
	return nil
}

// ---------------------Selection fixups------------------------

// points returns the live points of a range selection.
func (t *transaction) points() []*types.Point {
	rs, ok := types.AsRange(t.selection)
	if !ok {
		return nil
	}
	return []*types.Point{&rs.Anchor, &rs.Focus}
}

// moveToEnd places p at the end of the node at key.
func (t *transaction) moveToEnd(p *types.Point, key types.NodeKey) {
	n := t.nodes[key]
	switch {
	case n.IsText():
		p.Set(key, n.TextSize(), types.TextPoint)
	case n.IsElement():
		p.Set(key, len(n.Children), types.ElementPoint)
	default:
		parent := n.Parent
		p.Set(parent, t.nodes[parent].ChildIndex(key)+1, types.ElementPoint)
	}
}
