// Package script replays scripted editing sessions against an editing surface.
// Scripts are TOML or YAML documents listing the initial paragraphs and the
// steps to run.
package script

import (
	"Inkwell/backend/types"
)

const (
	StepSelect         = "select"
	StepSelectAll      = "select-all"
	StepType           = "type"
	StepInsertText     = "insert-text"
	StepDeleteBackward = "delete-backward"
	StepDeleteForward  = "delete-forward"
	StepUndo           = "undo"
	StepRedo           = "redo"
	StepClearHistory   = "clear-history"
	StepFormatElement  = "format-element"
	StepIndent         = "indent"
	StepOutdent        = "outdent"
	StepPatchStyle     = "patch-style"
	StepSetBlocksType  = "set-blocks-type"
	StepWrapNodes      = "wrap-nodes"
	StepTrim           = "trim"
)

// Script is a scripted editing session.
type Script struct {
	// Paragraphs holds the text nodes of each initial paragraph.
	Paragraphs [][]string `toml:"paragraphs" yaml:"paragraphs"`
	Steps      []Step     `toml:"steps" yaml:"steps"`
}

// Step is one action of a script. Which fields are read depends on Command.
type Step struct {
	Command string `toml:"command" yaml:"command"`

	// WaitMS advances the script clock before the step. For "type" it is the
	// delay before every character.
	WaitMS int64 `toml:"wait_ms" yaml:"wait_ms"`

	Text string `toml:"text" yaml:"text"`

	// Anchor and Focus locate a point as [paragraph, text, offset] for a text
	// point, or [paragraph, offset] for an element point on the paragraph.
	Anchor []int `toml:"anchor" yaml:"anchor"`
	Focus  []int `toml:"focus" yaml:"focus"`

	Align    string `toml:"align" yaml:"align"`
	Property string `toml:"property" yaml:"property"`
	Value    string `toml:"value" yaml:"value"`
	Type     string `toml:"type" yaml:"type"`
	Level    int    `toml:"level" yaml:"level"`
	Count    int    `toml:"count" yaml:"count"`
}

// Result is the state of the surface once a script has run.
type Result struct {
	Leaves    []string
	Text      string
	Document  types.ExportedNode
	UndoDepth int
	RedoDepth int
	// Handled counts the steps a command handler accepted.
	Handled int
}
