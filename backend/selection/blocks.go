package selection

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
)

// IsBlock reports whether n is a block holding inline content: a non-inline,
// non root-like element whose first child, if any, is inline.
func IsBlock(tree editor.Tree, n *types.Node) bool {
	if !n.IsElement() || n.IsRootLike() || n.Inline {
		return false
	}
	first := tree.FirstChild(n.Key)
	return first == nil || first.IsInline()
}

// SetBlocksType replaces every selected block with a new element built from
// spec. Alignment, indentation and children move to the new element. A
// selection anchored on a root-like container retypes its first child, or
// appends a new block when the container is empty.
func SetBlocksType(tree editor.Tree, spec types.BlockSpec) error {
	sel := tree.Selection()
	if sel == nil {
		return nil
	}

	rs, isRange := types.AsRange(sel)
	if isRange {
		if container := tree.Get(rs.Anchor.Key); container.IsRootLike() {
			element := tree.CreateElement(spec.Type, spec.Options)
			first := tree.FirstChild(container.Key)
			if first != nil {
				return tree.Replace(first.Key, element.Key, true)
			}
			return tree.Append(container.Key, element.Key)
		}
	}

	blocks := []*types.Node{}
	seen := types.NewSet[types.NodeKey]()
	add := func(n *types.Node) {
		if n != nil && !seen.Contains(n.Key) {
			seen.Add(n.Key)
			blocks = append(blocks, n)
		}
	}

	for _, n := range SelectedNodes(tree, sel) {
		add(ancestorMatching(tree, n.Key, func(a *types.Node) bool { return IsBlock(tree, a) }))
	}
	if isRange {
		add(ancestorMatching(tree, rs.Anchor.Key, func(a *types.Node) bool { return IsBlock(tree, a) }))
	}

	for _, block := range blocks {
		current := tree.Get(block.Key)
		opts := spec.Options
		opts.Align = current.Align
		opts.Indent = current.Indent

		element := tree.CreateElement(spec.Type, opts)
		if err := tree.Replace(current.Key, element.Key, true); err != nil {
			return err
		}
	}

	tree.Logger().Debug().
		Str("type", string(spec.Type)).
		Int("blocks", len(blocks)).
		Msg("retyped blocks")
	return nil
}

// selectedBlocks returns the nearest non-inline element of every selected
// node, once each, in selection order. Root-like containers are excluded.
func selectedBlocks(tree editor.Tree) []types.NodeKey {
	sel := tree.Selection()
	seen := types.NewSet[types.NodeKey]()
	keys := []types.NodeKey{}

	for _, n := range SelectedNodes(tree, sel) {
		block := ancestorMatching(tree, n.Key, func(a *types.Node) bool {
			return a.IsElement() && !a.Inline
		})
		if block == nil || block.IsRootLike() || seen.Contains(block.Key) {
			continue
		}
		seen.Add(block.Key)
		keys = append(keys, block.Key)
	}
	return keys
}

// FormatElement aligns every selected block. It reports whether a block was
// found.
func FormatElement(tree editor.Tree, align types.TextAlignment) (bool, error) {
	keys := selectedBlocks(tree)
	for _, key := range keys {
		if tree.Get(key).Align == align {
			continue
		}
		w, err := tree.Writable(key)
		if err != nil {
			return false, err
		}
		w.Align = align
	}
	return len(keys) > 0, nil
}

// Indent increments the indentation of every selected block once.
func Indent(tree editor.Tree) (bool, error) {
	return changeIndent(tree, 1)
}

// Outdent decrements the indentation of every selected block, never below 0.
func Outdent(tree editor.Tree) (bool, error) {
	return changeIndent(tree, -1)
}

func changeIndent(tree editor.Tree, delta int) (bool, error) {
	if _, ok := Range(tree); !ok {
		return false, nil
	}
	keys := selectedBlocks(tree)
	for _, key := range keys {
		indent := tree.Get(key).Indent + delta
		if indent < 0 {
			continue
		}
		w, err := tree.Writable(key)
		if err != nil {
			return false, err
		}
		w.Indent = indent
	}
	return len(keys) > 0, nil
}
