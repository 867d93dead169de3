package impl

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/types"
	"sort"
	"sync"
)

// CommandTable maps every command to its handlers ordered by descending
// priority.
type CommandTable struct {
	mu       sync.Mutex
	seq      uint64
	handlers map[types.Command][]commandEntry
}

type commandEntry struct {
	id       uint64
	priority editor.Priority
	handler  editor.CommandHandler
}

func newCommandTable() *CommandTable {
	return &CommandTable{
		mu:       sync.Mutex{},
		handlers: make(map[types.Command][]commandEntry),
	}
}

// register adds handler and returns the function removing it.
func (c *CommandTable) register(cmd types.Command, priority editor.Priority, handler editor.CommandHandler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	id := c.seq

	entries := append(c.handlers[cmd], commandEntry{id: id, priority: priority, handler: handler})
	// most recent first within a priority
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].id > entries[j].id
	})
	c.handlers[cmd] = entries

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		list := c.handlers[cmd]
		for i, e := range list {
			if e.id == id {
				c.handlers[cmd] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// ordered returns a copy of the handlers of cmd, in dispatch order.
func (c *CommandTable) ordered(cmd types.Command) []editor.CommandHandler {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.handlers[cmd]
	out := make([]editor.CommandHandler, len(list))
	for i, e := range list {
		out[i] = e.handler
	}
	return out
}

// Listeners holds the update listeners of a surface in registration order.
type Listeners struct {
	mu        sync.Mutex
	seq       uint64
	listeners map[uint64]editor.UpdateListener
}

func newListeners() *Listeners {
	return &Listeners{
		mu:        sync.Mutex{},
		listeners: make(map[uint64]editor.UpdateListener),
	}
}

func (l *Listeners) add(listener editor.UpdateListener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	id := l.seq
	l.listeners[id] = listener

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.listeners, id)
	}
}

func (l *Listeners) values() []editor.UpdateListener {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, 0, len(l.listeners))
	for id := range l.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]editor.UpdateListener, len(ids))
	for i, id := range ids {
		out[i] = l.listeners[id]
	}
	return out
}

// RegisterCommand implements editor.Editor
func (s *surface) RegisterCommand(cmd types.Command, priority editor.Priority, handler editor.CommandHandler) func() {
	return s.commands.register(cmd, priority, handler)
}

// RegisterUpdateListener implements editor.Editor
func (s *surface) RegisterUpdateListener(listener editor.UpdateListener) func() {
	return s.listeners.add(listener)
}

// Dispatch implements editor.Editor
func (s *surface) Dispatch(cmd types.Command, payload any) bool {
	for _, handler := range s.commands.ordered(cmd) {
		if handler(payload) {
			s.log.Debug().Str("command", string(cmd)).Msg("command handled")
			return true
		}
	}
	s.log.Debug().Str("command", string(cmd)).Msg("command not handled")
	return false
}
