package types

// ---------------------Point------------------------

// Set moves the point.
func (p *Point) Set(key NodeKey, offset int, typ PointType) {
	p.Key = key
	p.Offset = offset
	p.Type = typ
}

func (p Point) Is(o Point) bool {
	return p.Key == o.Key && p.Offset == o.Offset && p.Type == o.Type
}

// ---------------------RangeSelection------------------------

// NewRangeSelection builds a range selection with both points given.
func NewRangeSelection(anchor, focus Point) *RangeSelection {
	return &RangeSelection{Anchor: anchor, Focus: focus}
}

// NewCaret builds a collapsed range selection.
func NewCaret(key NodeKey, offset int, typ PointType) *RangeSelection {
	p := Point{Key: key, Offset: offset, Type: typ}
	return &RangeSelection{Anchor: p, Focus: p}
}

// IsCollapsed reports whether anchor and focus are the same point.
func (s *RangeSelection) IsCollapsed() bool {
	return s.Anchor.Is(s.Focus)
}

func (s *RangeSelection) Clone() Selection {
	c := *s
	return &c
}

func (s *RangeSelection) Is(other Selection) bool {
	o, ok := other.(*RangeSelection)
	if !ok || o == nil {
		return false
	}
	return s.Anchor.Is(o.Anchor) && s.Focus.Is(o.Focus) && s.Format == o.Format && s.Style == o.Style
}

// HasFormat reports whether the pending format contains every bit of f.
func (s *RangeSelection) HasFormat(f TextFormat) bool { return s.Format&f == f }

// ToggleFormat flips the pending format bits in f.
func (s *RangeSelection) ToggleFormat(f TextFormat) { s.Format ^= f }

func (s *RangeSelection) selection() {}

// ---------------------NodeSelection------------------------

// NewNodeSelection builds a node selection over keys, dropping duplicates.
func NewNodeSelection(keys ...NodeKey) *NodeSelection {
	s := &NodeSelection{}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add selects key if it is not selected yet.
func (s *NodeSelection) Add(key NodeKey) {
	if !s.Has(key) {
		s.Keys = append(s.Keys, key)
	}
}

// Delete deselects key.
func (s *NodeSelection) Delete(key NodeKey) {
	for i, k := range s.Keys {
		if k == key {
			s.Keys = append(s.Keys[:i], s.Keys[i+1:]...)
			return
		}
	}
}

func (s *NodeSelection) Has(key NodeKey) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *NodeSelection) Clone() Selection {
	keys := make([]NodeKey, len(s.Keys))
	copy(keys, s.Keys)
	return &NodeSelection{Keys: keys}
}

func (s *NodeSelection) Is(other Selection) bool {
	o, ok := other.(*NodeSelection)
	if !ok || o == nil || len(o.Keys) != len(s.Keys) {
		return false
	}
	for _, k := range s.Keys {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

func (s *NodeSelection) selection() {}

// ---------------------Helpers------------------------

// CloneSelection clones sel, keeping nil as nil.
func CloneSelection(sel Selection) Selection {
	if sel == nil {
		return nil
	}
	return sel.Clone()
}

// SelectionsEqual compares two possibly nil selections.
func SelectionsEqual(a, b Selection) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Is(b)
}

// AsRange returns sel as a range selection when it is one.
func AsRange(sel Selection) (*RangeSelection, bool) {
	rs, ok := sel.(*RangeSelection)
	return rs, ok && rs != nil
}
