package impl

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
	"io"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// NewEditor creates an editing surface holding an empty document, with the
// history and the rich text commands registered.
func NewEditor(conf editor.Configuration) editor.Editor {
	return newSurface(conf)
}

func newSurface(conf editor.Configuration) *surface {
	if conf.Clock == nil {
		conf.Clock = time.Now
	}
	if conf.LogOutput == nil {
		conf.LogOutput = os.Stdout
	}

	logIO := zerolog.ConsoleWriter{
		Out:        conf.LogOutput,
		TimeFormat: time.RFC3339,
	}

	id := xid.New().String()
	logger := newLogger(logIO, conf.LogLevel).With().Str("surface", id).Logger()
	loggerHistory := newLogger(logIO, conf.LogLevel).With().Str("surface", id).Str("concern", "history").Logger()

	state := conf.History
	if state == nil {
		state = types.NewHistoryState()
	}

	s := &surface{
		id:         id,
		conf:       conf,
		log:        logger,
		logHistory: loggerHistory,
		snapshot:   types.EmptySnapshot(),
		commands:   newCommandTable(),
		listeners:  newListeners(),
		history:    state,
		pending:    []pendingUpdate{},
	}

	s.registerHistory(state, conf.MergeWindow)
	s.registerRichText()

	return s
}

// Helper functions

func newLogger(io io.Writer, level zerolog.Level) zerolog.Logger {
	logger := zerolog.New(io).With().Timestamp().Logger()
	return logger.Level(level)
}

// surface implements an editing surface
//
// - implements editor.Editor
type surface struct {
	id         string
	conf       editor.Configuration
	log        zerolog.Logger
	logHistory zerolog.Logger

	snapshot  *types.Snapshot
	commands  *CommandTable
	listeners *Listeners
	history   *types.HistoryState
	composing bool

	// tx is the running transaction, if any.
	tx *transaction
	// publishing is set while update listeners run.
	publishing bool
	pending    []pendingUpdate
}

// pendingUpdate is an update requested while listeners were running. Exactly
// one of fn and snap is set.
type pendingUpdate struct {
	fn   func(editor.Tree) error
	snap *types.Snapshot
	tags []string
}

// ID implements types.Surface
func (s *surface) ID() string {
	return s.id
}

// Snapshot implements editor.Editor
func (s *surface) Snapshot() *types.Snapshot {
	return s.snapshot
}

// History implements editor.Editor
func (s *surface) History() *types.HistoryState {
	return s.history
}

// Logger implements editor.Editor
func (s *surface) Logger() zerolog.Logger {
	return s.log
}

// Configuration implements editor.Editor
func (s *surface) Configuration() editor.Configuration {
	return s.conf
}

// SetComposing implements editor.Editor
func (s *surface) SetComposing(composing bool) {
	s.composing = composing
}

// IsComposing implements editor.Editor
func (s *surface) IsComposing() bool {
	return s.composing
}

// Update implements editor.Editor
func (s *surface) Update(fn func(editor.Tree) error, tags ...string) error {
	if s.tx != nil {
		for _, tag := range tags {
			s.tx.tags.Add(tag)
		}
		return fn(s.tx)
	}

	if s.publishing {
		s.pending = append(s.pending, pendingUpdate{fn: fn, tags: tags})
		return nil
	}

	err := s.runUpdate(fn, tags)
	s.flush()
	return err
}

// SetSnapshot implements types.Surface. The snapshot is published as is, so
// listeners observe the very same pointer.
func (s *surface) SetSnapshot(snap *types.Snapshot, tags ...string) error {
	if snap == nil {
		return xerrors.Errorf("cannot publish a nil snapshot")
	}
	if s.tx != nil {
		return xerrors.Errorf("cannot replace the document inside an update")
	}
	if err := snap.Validate(); err != nil {
		return xerrors.Errorf("invalid snapshot: %w", err)
	}

	if s.publishing {
		s.pending = append(s.pending, pendingUpdate{snap: snap, tags: tags})
		return nil
	}

	s.publishSnapshot(snap, tags)
	s.flush()
	return nil
}

func (s *surface) runUpdate(fn func(editor.Tree) error, tags []string) error {
	tx := newTransaction(s, s.snapshot, tags)

	s.tx = tx
	err := fn(tx)
	s.tx = nil

	if err != nil {
		tx.close()
		updatesDiscarded.Inc()
		s.log.Warn().Err(err).Msg("update discarded")
		return err
	}

	info, changed, err := tx.commit()
	if err != nil {
		updatesDiscarded.Inc()
		s.log.Warn().Err(err).Msg("update discarded")
		return err
	}
	if !changed {
		s.log.Debug().Msg("update left the document unchanged")
		return nil
	}

	s.publish(info)
	return nil
}

func (s *surface) publishSnapshot(snap *types.Snapshot, tags []string) {
	leaves, elements := diffSnapshots(s.snapshot, snap)
	s.publish(types.UpdateInfo{
		Prev:          s.snapshot,
		Next:          snap,
		DirtyLeaves:   leaves,
		DirtyElements: elements,
		Tags:          types.NewSet(tags...),
	})
}

func (s *surface) publish(info types.UpdateInfo) {
	s.snapshot = info.Next
	updatesPublished.Inc()

	s.log.Debug().
		Int("dirtyLeaves", info.DirtyLeaves.Size()).
		Int("dirtyElements", len(info.DirtyElements)).
		Strs("tags", info.Tags.Values()).
		Msg("snapshot published")

	s.publishing = true
	defer func() { s.publishing = false }()

	for _, listener := range s.listeners.values() {
		listener(info)
	}
}

// flush runs the updates queued by listeners, in order.
func (s *surface) flush() {
	for len(s.pending) > 0 && !s.publishing && s.tx == nil {
		next := s.pending[0]
		s.pending = s.pending[1:]

		if next.snap != nil {
			s.publishSnapshot(next.snap, next.tags)
			continue
		}
		err := s.runUpdate(next.fn, next.tags)
		if err != nil {
			s.log.Error().Err(err).Msg("queued update failed")
		}
	}
}

// diffSnapshots marks every node whose value changed between prev and next.
func diffSnapshots(prev, next *types.Snapshot) (*types.Set[types.NodeKey], map[types.NodeKey]bool) {
	leaves := types.NewSet[types.NodeKey]()
	elements := make(map[types.NodeKey]bool)

	for _, key := range next.Keys() {
		n := next.Node(key)
		if prev.Node(key) == n {
			continue
		}
		if n.IsElement() {
			elements[key] = true
		} else {
			leaves.Add(key)
		}
	}
	for _, key := range prev.Keys() {
		if next.Has(key) {
			continue
		}
		if prev.Node(key).IsElement() {
			elements[key] = true
		} else {
			leaves.Add(key)
		}
	}

	return leaves, elements
}
