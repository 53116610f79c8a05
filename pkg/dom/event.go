package dom

import (
	"errors"
	"time"
)

// ErrInvalidEventType is returned by AddEventListener for malformed names.
// Valid names are non-empty and use lowercase ASCII letters, digits, '-',
// '_', ':' or '.'.
var ErrInvalidEventType = errors.New("dom: invalid event type")

// EventInit configures NewEvent.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Detail     any
}

// Event is a dispatched event.
type Event struct {
	typ        string
	bubbles    bool
	cancelable bool
	detail     any
	timeStamp  time.Time

	target        Node
	currentTarget Node

	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
	inPassive        bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, init EventInit) *Event {
	return &Event{
		typ:        typ,
		bubbles:    init.Bubbles,
		cancelable: init.Cancelable,
		detail:     init.Detail,
		timeStamp:  time.Now(),
	}
}

// NewCustomEvent creates a non-bubbling, non-cancelable event carrying detail.
func NewCustomEvent(typ string, detail any) *Event {
	return NewEvent(typ, EventInit{Detail: detail})
}

// Type returns the event name.
func (e *Event) Type() string { return e.typ }

// Target returns the node the event was dispatched on.
func (e *Event) Target() Node { return e.target }

// CurrentTarget returns the node whose listeners are running.
func (e *Event) CurrentTarget() Node { return e.currentTarget }

// Bubbles reports whether the event propagates to ancestors.
func (e *Event) Bubbles() bool { return e.bubbles }

// Cancelable reports whether PreventDefault has an effect.
func (e *Event) Cancelable() bool { return e.cancelable }

// Detail returns the custom payload.
func (e *Event) Detail() any { return e.detail }

// TimeStamp returns the creation time.
func (e *Event) TimeStamp() time.Time { return e.timeStamp }

// PreventDefault cancels the event. It is ignored for non-cancelable events
// and inside passive listeners.
func (e *Event) PreventDefault() {
	if e.cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event after the current node's listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation stops the event before the next listener.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// EventListener handles a dispatched event.
type EventListener func(ev *Event)

// ListenerOptions configures a listener registration.
type ListenerOptions struct {
	// Passive listeners cannot cancel the event.
	Passive bool

	// Once removes the listener after its first invocation.
	Once bool
}

// Registration is a handle to an attached listener.
type Registration struct {
	node    *nodeCore
	typ     string
	fn      EventListener
	opts    ListenerOptions
	removed bool
}

// Type returns the event type the listener is attached for.
func (r *Registration) Type() string { return r.typ }

// Passive reports whether the listener was registered as passive.
func (r *Registration) Passive() bool { return r.opts.Passive }

// Remove detaches the listener. Idempotent.
func (r *Registration) Remove() {
	if r == nil || r.removed {
		return
	}
	r.removed = true
	list := r.node.listeners[r.typ]
	for i, x := range list {
		if x == r {
			r.node.listeners[r.typ] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

// ValidEventType reports whether name is accepted by AddEventListener.
func ValidEventType(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == ':', r == '.':
		default:
			return false
		}
	}
	return true
}

// AddEventListener attaches fn for events of type typ on this node.
func (c *nodeCore) AddEventListener(typ string, fn EventListener, opts ...ListenerOptions) (*Registration, error) {
	if !ValidEventType(typ) {
		return nil, ErrInvalidEventType
	}
	if fn == nil {
		return nil, errors.New("dom: nil listener")
	}
	r := &Registration{node: c, typ: typ, fn: fn}
	if len(opts) > 0 {
		r.opts = opts[0]
	}
	if c.listeners == nil {
		c.listeners = make(map[string][]*Registration)
	}
	c.listeners[typ] = append(c.listeners[typ], r)
	return r, nil
}

// ListenerCount returns the number of listeners attached for typ.
func ListenerCount(n Node, typ string) int {
	return len(n.core().listeners[typ])
}

// DispatchEvent runs the node's listeners for ev, then its ancestors'
// when the event bubbles. It returns false if the event was canceled.
func (c *nodeCore) DispatchEvent(ev *Event) bool {
	ev.target = c.self
	ev.stopped = false
	ev.stoppedNow = false

	path := []Node{c.self}
	if ev.bubbles {
		for p := c.parent; p != nil; p = p.ParentNode() {
			path = append(path, p)
		}
	}

	for _, n := range path {
		ev.currentTarget = n
		n.core().invoke(ev)
		if ev.stopped {
			break
		}
	}
	ev.currentTarget = nil
	return !ev.defaultPrevented
}

func (c *nodeCore) invoke(ev *Event) {
	list := append([]*Registration(nil), c.listeners[ev.typ]...)
	for _, r := range list {
		if r.removed {
			continue
		}
		if r.opts.Once {
			r.Remove()
		}
		ev.inPassive = r.opts.Passive
		r.fn(ev)
		ev.inPassive = false
		if ev.stoppedNow {
			return
		}
	}
}
