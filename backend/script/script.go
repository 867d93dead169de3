package script

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/editor/impl"
	"Inkwell/backend/selection"
	"Inkwell/backend/types"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Load reads the script at path. Files ending in .yaml or .yml are decoded as
// YAML, anything else as TOML.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, xerrors.Errorf("failed to read script %s: %v", path, err)
	}

	format := "toml"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	s, err := Decode(data, format)
	if err != nil {
		return Script{}, xerrors.Errorf("failed to decode script %s: %w", path, err)
	}
	return s, nil
}

// Decode parses data in the given format, "toml" or "yaml".
func Decode(data []byte, format string) (Script, error) {
	var s Script
	var err error

	switch format {
	case "toml":
		err = toml.Unmarshal(data, &s)
	case "yaml":
		err = yaml.Unmarshal(data, &s)
	default:
		return s, xerrors.Errorf("unknown script format %q", format)
	}
	if err != nil {
		return s, err
	}
	return s, nil
}

// clock is the time source of a run. It only moves when a step waits.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Duration(ms) * time.Millisecond)
}

// Runner replays scripts on a fresh surface each.
type Runner struct {
	conf editor.Configuration
	log  zerolog.Logger
}

// NewRunner returns a runner creating its surfaces from conf. The clock of
// conf is replaced by the script clock.
func NewRunner(conf editor.Configuration, log zerolog.Logger) *Runner {
	return &Runner{conf: conf, log: log}
}

// Run replays s and returns the final state of the surface. It stops at the
// first invalid step.
func (r *Runner) Run(s Script) (Result, error) {
	c := &clock{now: time.Unix(0, 0).UTC()}
	conf := r.conf
	conf.Clock = c.Now
	conf.History = nil
	ed := impl.NewEditor(conf)

	if err := ed.Update(func(tree editor.Tree) error {
		return buildParagraphs(tree, s.Paragraphs)
	}); err != nil {
		return Result{}, xerrors.Errorf("failed to build document: %w", err)
	}

	handled := 0
	for i, step := range s.Steps {
		ok, err := r.runStep(ed, c, step)
		if err != nil {
			return Result{}, xerrors.Errorf("step %d (%s): %w", i+1, step.Command, err)
		}
		if ok {
			handled++
		}
		r.log.Debug().
			Int("step", i+1).
			Str("command", step.Command).
			Bool("handled", ok).
			Msg("step done")
	}

	snap := ed.Snapshot()
	return Result{
		Leaves:    snap.Export().Leaves(),
		Text:      snap.TextContent(),
		Document:  snap.Export(),
		UndoDepth: ed.History().UndoCount(),
		RedoDepth: ed.History().RedoCount(),
		Handled:   handled,
	}, nil
}

func buildParagraphs(tree editor.Tree, paragraphs [][]string) error {
	for _, texts := range paragraphs {
		p := tree.CreateElement(types.ParagraphType, types.ElementOptions{})
		if err := tree.Append(types.RootKey, p.Key); err != nil {
			return err
		}
		for _, text := range texts {
			n := tree.CreateText(text)
			if err := tree.Append(p.Key, n.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) runStep(ed editor.Editor, c *clock, step Step) (bool, error) {
	if step.Command != StepType {
		c.advance(step.WaitMS)
	}

	switch step.Command {
	case StepSelect:
		return r.selectRange(ed, step)
	case StepSelectAll:
		return ed.Dispatch(types.CommandSelectAll, nil), nil
	case StepType:
		ok := true
		for _, ch := range step.Text {
			c.advance(step.WaitMS)
			ok = ed.Dispatch(types.CommandInsertText, string(ch)) && ok
		}
		return ok, nil
	case StepInsertText:
		return ed.Dispatch(types.CommandInsertText, step.Text), nil
	case StepDeleteBackward:
		return ed.Dispatch(types.CommandDeleteCharacter, true), nil
	case StepDeleteForward:
		return ed.Dispatch(types.CommandDeleteCharacter, false), nil
	case StepUndo:
		return ed.Dispatch(types.CommandUndo, nil), nil
	case StepRedo:
		return ed.Dispatch(types.CommandRedo, nil), nil
	case StepClearHistory:
		return ed.Dispatch(types.CommandClearHistory, nil), nil
	case StepFormatElement:
		return ed.Dispatch(types.CommandFormatElement, types.TextAlignment(step.Align)), nil
	case StepIndent:
		return ed.Dispatch(types.CommandIndentContent, nil), nil
	case StepOutdent:
		return ed.Dispatch(types.CommandOutdentContent, nil), nil
	case StepPatchStyle:
		if step.Property == "" {
			return false, xerrors.Errorf("patch-style needs a property")
		}
		patch := types.StylePatch{{Property: step.Property, Value: types.Literal(step.Value)}}
		return ed.Dispatch(types.CommandPatchStyle, patch), nil
	case StepSetBlocksType, StepWrapNodes:
		if step.Type == "" {
			return false, xerrors.Errorf("%s needs a block type", step.Command)
		}
		spec := types.BlockSpec{
			Type:    types.BlockTypeName(step.Type),
			Options: types.ElementOptions{Level: types.HeadingLevel(step.Level)},
		}
		cmd := types.CommandSetBlocksType
		if step.Command == StepWrapNodes {
			cmd = types.CommandWrapNodes
		}
		return ed.Dispatch(cmd, spec), nil
	case StepTrim:
		return r.trim(ed, step.Count)
	default:
		return false, xerrors.Errorf("unknown command %q", step.Command)
	}
}

func (r *Runner) selectRange(ed editor.Editor, step Step) (bool, error) {
	err := ed.Update(func(tree editor.Tree) error {
		anchor, err := resolvePoint(tree, step.Anchor)
		if err != nil {
			return xerrors.Errorf("anchor: %w", err)
		}
		focus := anchor
		if step.Focus != nil {
			focus, err = resolvePoint(tree, step.Focus)
			if err != nil {
				return xerrors.Errorf("focus: %w", err)
			}
		}
		tree.SetSelection(types.NewRangeSelection(anchor, focus))
		return nil
	})
	return err == nil, err
}

// trim deletes count characters backward from the selection anchor.
func (r *Runner) trim(ed editor.Editor, count int) (bool, error) {
	rs, ok := types.AsRange(ed.Snapshot().Selection())
	if !ok {
		return false, xerrors.Errorf("trim needs a range selection")
	}
	err := ed.Update(func(tree editor.Tree) error {
		return selection.TrimTextContentFromAnchor(tree, rs.Anchor, count)
	})
	return err == nil, err
}

// resolvePoint turns [paragraph, text, offset] or [paragraph, offset] into a
// point of the current document.
func resolvePoint(tree editor.Tree, loc []int) (types.Point, error) {
	if len(loc) != 2 && len(loc) != 3 {
		return types.Point{}, xerrors.Errorf("point %v: want [paragraph, text, offset] or [paragraph, offset]", loc)
	}

	blocks := tree.Children(types.RootKey)
	if loc[0] < 0 || loc[0] >= len(blocks) {
		return types.Point{}, xerrors.Errorf("paragraph %d: %w", loc[0], types.ErrOffsetOutOfRange)
	}
	block := blocks[loc[0]]

	if len(loc) == 2 {
		if loc[1] < 0 || loc[1] > tree.ChildrenSize(block.Key) {
			return types.Point{}, xerrors.Errorf("child offset %d: %w", loc[1], types.ErrOffsetOutOfRange)
		}
		return types.Point{Key: block.Key, Offset: loc[1], Type: types.ElementPoint}, nil
	}

	children := tree.Children(block.Key)
	if loc[1] < 0 || loc[1] >= len(children) {
		return types.Point{}, xerrors.Errorf("text %d: %w", loc[1], types.ErrOffsetOutOfRange)
	}
	n := children[loc[1]]
	if !n.IsText() {
		return types.Point{}, xerrors.Errorf("child %d of paragraph %d: %w", loc[1], loc[0], types.ErrExpectedText)
	}
	if loc[2] < 0 || loc[2] > n.TextSize() {
		return types.Point{}, xerrors.Errorf("text offset %d: %w", loc[2], types.ErrOffsetOutOfRange)
	}
	return types.Point{Key: n.Key, Offset: loc[2], Type: types.TextPoint}, nil
}
