package reactive

// maxReruns bounds how many times an effect may invalidate itself during
// one run before the loop is cut.
const maxReruns = 100

// Effect represents a reactive side effect that runs when its dependencies
// change. Effects run immediately when created and re-run synchronously
// whenever a signal or memo they read during their last run changes.
type Effect struct {
	id uint64
	rt *Runtime

	fn      func() Cleanup
	cleanup Cleanup

	// cleanups are registered through Runtime.OnCleanup during a run.
	cleanups []func()

	// sources are the signals/memos read during the last run.
	sources []*source

	parent   *Effect
	children []*Effect

	running  bool
	dirty    bool
	disposed bool
}

// Effect creates and runs a new effect. When called while another effect
// runs, the new effect is owned by it.
func (rt *Runtime) Effect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:     rt.newID(),
		rt:     rt,
		fn:     fn,
		parent: rt.owner,
	}
	if e.parent != nil {
		e.parent.children = append(e.parent.children, e)
	}
	rt.stats.EffectsCreated++
	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed {
		return
	}
	if e.rt.batchDepth > 0 {
		e.rt.pending = append(e.rt.pending, e)
		return
	}
	if e.running {
		e.dirty = true
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Disposed reports whether Dispose has been called.
func (e *Effect) Disposed() bool {
	return e.disposed
}

func (e *Effect) addSource(s *source) {
	for _, existing := range e.sources {
		if existing == s {
			return
		}
	}
	e.sources = append(e.sources, s)
}

// run executes the effect function, re-running while it invalidated itself.
func (e *Effect) run() {
	for i := 0; i < maxReruns; i++ {
		if e.disposed {
			return
		}
		e.dirty = false
		e.reset()

		rt := e.rt
		rt.push(e)
		prevOwner := rt.owner
		rt.owner = e
		e.running = true
		rt.stats.EffectRuns++

		func() {
			defer func() {
				e.running = false
				rt.owner = prevOwner
				rt.pop()
			}()
			e.cleanup = e.fn()
		}()

		if !e.dirty {
			return
		}
	}
}

// reset tears down everything the previous run produced: owned effects,
// cleanups and subscriptions.
func (e *Effect) reset() {
	children := e.children
	e.children = nil
	for _, c := range children {
		c.dispose(false)
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	cleanups := e.cleanups
	e.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}

	for _, s := range e.sources {
		s.unsubscribe(e)
	}
	e.sources = e.sources[:0]
}

// Dispose stops the effect and every effect it owns. Idempotent.
func (e *Effect) Dispose() {
	e.dispose(true)
}

func (e *Effect) dispose(detach bool) {
	if e.disposed {
		return
	}
	e.disposed = true
	e.reset()
	e.rt.stats.EffectsDisposed++

	if detach && e.parent != nil {
		siblings := e.parent.children
		for i, c := range siblings {
			if c == e {
				e.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
}
