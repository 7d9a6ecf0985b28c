package picker

import (
	"sort"
)

// EventKind names a global event a picker can listen for while open
type EventKind string

const (
	EventOutsideClick EventKind = "outside-click"
	EventResize       EventKind = "resize"
	EventScroll       EventKind = "scroll"
	EventClick        EventKind = "click"
)

// Event is a global UI event routed to open pickers
type Event struct {
	Kind EventKind

	// Target is the ID of the picker whose trigger or panel was hit, or "" for
	// anything else. Pointer events only.
	Target string
}

// Handler receives events for one picker
type Handler func(Event)

type subscription struct {
	kinds   map[EventKind]bool
	handler Handler
}

// Listeners is the registry of global listeners held by open pickers.
// A picker registers when it opens and releases on close, so repeated
// open/close cycles never accumulate listeners.
type Listeners struct {
	subs map[string]*subscription
}

// NewListeners creates an empty registry
func NewListeners() *Listeners {
	return &Listeners{subs: make(map[string]*subscription)}
}

// Register installs handler for id on the given event kinds, replacing any
// previous registration for the same id.
func (l *Listeners) Register(id string, kinds []EventKind, handler Handler) {
	sub := &subscription{
		kinds:   make(map[EventKind]bool, len(kinds)),
		handler: handler,
	}
	for _, k := range kinds {
		sub.kinds[k] = true
	}
	l.subs[id] = sub
}

// Release removes every listener held by id
func (l *Listeners) Release(id string) {
	delete(l.subs, id)
}

// Registered reports whether id currently holds listeners
func (l *Listeners) Registered(id string) bool {
	_, ok := l.subs[id]
	return ok
}

// Active returns the total number of registered listeners across all ids
func (l *Listeners) Active() int {
	n := 0
	for _, sub := range l.subs {
		n += len(sub.kinds)
	}
	return n
}

// Dispatch delivers ev to every subscriber of its kind, in id order.
// Handlers may release themselves (or others) while being dispatched.
func (l *Listeners) Dispatch(ev Event) {
	ids := make([]string, 0, len(l.subs))
	for id, sub := range l.subs {
		if sub.kinds[ev.Kind] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		sub, ok := l.subs[id]
		if !ok {
			continue
		}
		sub.handler(ev)
	}
}
