package reactive

// Memo is a cached derived computation. It recomputes lazily: a dependency
// change only marks it stale and notifies its own subscribers.
type Memo[T any] struct {
	base source
	rt   *Runtime
	fn   func() T

	value   T
	valid   bool
	sources []*source
}

// NewMemo creates a memo over fn. fn does not run until the first Get.
func NewMemo[T any](rt *Runtime, fn func() T) *Memo[T] {
	return &Memo[T]{
		base: source{id: rt.newID()},
		rt:   rt,
		fn:   fn,
	}
}

// Get returns the cached value, recomputing it if a dependency changed,
// and subscribes the running listener.
func (m *Memo[T]) Get() T {
	if !m.valid {
		m.recompute()
	}
	m.base.track(m.rt)
	return m.value
}

// AnyGet implements Readable.
func (m *Memo[T]) AnyGet() any {
	return m.Get()
}

// Peek returns the value without subscribing. A stale memo is recomputed.
func (m *Memo[T]) Peek() T {
	if !m.valid {
		m.recompute()
	}
	return m.value
}

// MarkDirty invalidates the cached value. Implements the Listener interface.
func (m *Memo[T]) MarkDirty() {
	if !m.valid {
		return
	}
	m.valid = false
	m.base.notify(m.rt)
}

func (m *Memo[T]) markStale(out *[]Listener) {
	if !m.valid {
		return
	}
	m.valid = false
	m.base.invalidate(out)
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

func (m *Memo[T]) addSource(s *source) {
	for _, existing := range m.sources {
		if existing == s {
			return
		}
	}
	m.sources = append(m.sources, s)
}

func (m *Memo[T]) recompute() {
	for _, s := range m.sources {
		s.unsubscribe(m)
	}
	m.sources = m.sources[:0]

	m.rt.push(m)
	defer m.rt.pop()
	m.value = m.fn()
	m.valid = true
}
