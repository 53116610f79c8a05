package reactive

// Listener is anything that can be notified when a dependency changes.
// Effects and memos implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For memos, this invalidates the cached value.
	// For effects, this re-runs the effect (or queues it inside a batch).
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// observer is a listener that records the sources it reads.
type observer interface {
	Listener
	addSource(s *source)
}

// staler is a listener that caches a derived value. It is invalidated
// before any effect is run.
type staler interface {
	markStale(out *[]Listener)
}
