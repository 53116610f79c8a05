package reactive

import "reflect"

// source provides type-erased subscriber management.
// It is embedded in Signal[T] and Memo[T] to share subscription logic.
type source struct {
	id   uint64
	subs []Listener
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *source) subscribe(l Listener) {
	if l == nil {
		return
	}
	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener. Order of the remaining subscribers is kept
// so effects re-run in subscription order.
func (s *source) unsubscribe(l Listener) {
	if l == nil {
		return
	}
	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// track subscribes the runtime's current observer, if any.
func (s *source) track(rt *Runtime) {
	if o := rt.current(); o != nil {
		s.subscribe(o)
		o.addSource(s)
	}
}

// notify runs in two phases. Downstream memos are invalidated first,
// collecting the effects that depend on them; the effects then run (or are
// queued inside a batch) once each, so none of them reads a stale memo.
func (s *source) notify(rt *Runtime) {
	var effects []Listener
	s.invalidate(&effects)

	if rt.batchDepth > 0 {
		rt.pending = append(rt.pending, effects...)
		return
	}
	seen := make(map[uint64]bool, len(effects))
	for _, l := range effects {
		if seen[l.ID()] {
			continue
		}
		seen[l.ID()] = true
		l.MarkDirty()
	}
}

// invalidate marks subscribing memos stale, transitively, and appends every
// other subscriber to out. Subscribers are copied first: a re-running
// effect resubscribes while its caller may still be iterating.
func (s *source) invalidate(out *[]Listener) {
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		if st, ok := sub.(staler); ok {
			st.markStale(out)
			continue
		}
		*out = append(*out, sub)
	}
}

// Readable is implemented by every reactive value container. AnyGet reads
// the value with tracking, like Get, but without the type parameter.
type Readable interface {
	AnyGet() any
}

// Signal is a reactive value container.
// Reading a Signal's value while an effect or memo runs subscribes it to
// the signal's changes.
type Signal[T any] struct {
	base  source
	rt    *Runtime
	value T

	// equal decides whether a Set changed the value.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{
		base:  source{id: rt.newID()},
		rt:    rt,
		value: initial,
	}
}

// Get returns the current value and subscribes the running listener.
func (s *Signal[T]) Get() T {
	s.base.track(s.rt)
	return s.value
}

// AnyGet implements Readable.
func (s *Signal[T]) AnyGet() any {
	return s.Get()
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	if s.equals(s.value, value) {
		return
	}
	s.value = value
	s.rt.stats.SignalWrites++
	s.base.notify(s.rt)
}

// Update reads, transforms and writes the value in one step.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// WithEquals returns the signal configured with a custom equality function.
// Use it where reflect.DeepEqual is too expensive or has the wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// equals checks if two values are equal using the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for basic types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
