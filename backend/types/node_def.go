package types

// NodeKey identifies a node for its whole lifetime. Keys are never reused.
type NodeKey string

// RootKey is the key of the document root.
const RootKey NodeKey = "root"

// NodeKind is the closed set of node variants.
type NodeKind int

const (
	RootKind NodeKind = iota
	ElementKind
	TextKind
	LineBreakKind
	DecoratorKind
)

// TextMode tells how a text node reacts to partial edits.
type TextMode int

const (
	// NormalMode text can be split and edited character by character.
	NormalMode TextMode = iota
	// TokenMode text is edited and styled as a single unit.
	TokenMode
	// SegmentedMode text is deleted segment by segment.
	SegmentedMode
)

// TextFormat is a bitmask of inline formats.
type TextFormat uint32

const (
	FormatBold TextFormat = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
	FormatHighlight
)

type TextAlignment string
type HeadingLevel int
type BlockTypeName string

const (
	RootType         BlockTypeName = "root"
	TextType         BlockTypeName = "text"
	LineBreakType    BlockTypeName = "linebreak"
	ParagraphType    BlockTypeName = "paragraph"
	HeadingType      BlockTypeName = "heading"
	QuoteType        BlockTypeName = "quote"
	BulletedListType BlockTypeName = "bulleted_list"
	NumberedListType BlockTypeName = "numbered_list"
	ListItemType     BlockTypeName = "list_item"
	LinkType         BlockTypeName = "link"
	TableCellType    BlockTypeName = "table_cell"
	ImageType        BlockTypeName = "image"
)

const (
	H1 HeadingLevel = 1
	H2 HeadingLevel = 2
	H3 HeadingLevel = 3
	H4 HeadingLevel = 4
)

const (
	AlignNone TextAlignment = ""
	Left      TextAlignment = "left"
	Center    TextAlignment = "center"
	Right     TextAlignment = "right"
	Justify   TextAlignment = "justify"
)

// Node is one entry of a document node map. Which fields are meaningful
// depends on Kind:
//
//   - TextKind: Text, Format, Style, Mode
//   - ElementKind and RootKind: Children, Align, Indent, Inline, ShadowRoot, Level
//   - DecoratorKind: Inline
//
// A node reachable from a published Snapshot is never modified; transactions
// clone before writing.
type Node struct {
	Key    NodeKey
	Kind   NodeKind
	Type   BlockTypeName
	Parent NodeKey

	Text   string
	Format TextFormat
	Style  string
	Mode   TextMode

	Children   []NodeKey
	Align      TextAlignment
	Indent     int
	Inline     bool
	ShadowRoot bool
	Level      HeadingLevel
}

// NodeLookup resolves a key to its current node, or nil.
type NodeLookup func(NodeKey) *Node

// ElementOptions describes a new element node.
type ElementOptions struct {
	Inline     bool
	ShadowRoot bool
	Level      HeadingLevel
	Align      TextAlignment
	Indent     int
}

// ExportedNode is the structural value of a node used for content equality.
// Keys and parent references are deliberately absent.
type ExportedNode struct {
	Kind       NodeKind
	Type       BlockTypeName
	Text       string
	Format     TextFormat
	Style      string
	Mode       TextMode
	Align      TextAlignment
	Indent     int
	Inline     bool
	ShadowRoot bool
	Level      HeadingLevel
	Children   []ExportedNode
}
