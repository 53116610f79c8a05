package reactive

// Stats counts reactive activity on a Runtime.
type Stats struct {
	EffectsCreated  uint64
	EffectRuns      uint64
	EffectsDisposed uint64
	SignalWrites    uint64
}

// Runtime holds the tracking state shared by signals and effects:
// the stack of running observers and the batch queue.
type Runtime struct {
	// observers is the stack of listeners currently tracking reads.
	// A nil entry means reads are untracked (see Untracked).
	observers []observer

	// owner is the effect whose run is in progress; effects created now
	// become its children.
	owner *Effect

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pending accumulates listeners to notify when the batch completes.
	pending []Listener

	nextID uint64
	stats  Stats
}

// NewRuntime creates an empty Runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Stats returns a snapshot of the runtime counters.
func (rt *Runtime) Stats() Stats {
	return rt.stats
}

func (rt *Runtime) newID() uint64 {
	rt.nextID++
	return rt.nextID
}

// current returns the observer that should record a read, or nil.
func (rt *Runtime) current() observer {
	if len(rt.observers) == 0 {
		return nil
	}
	return rt.observers[len(rt.observers)-1]
}

func (rt *Runtime) push(o observer) {
	rt.observers = append(rt.observers, o)
}

func (rt *Runtime) pop() {
	rt.observers = rt.observers[:len(rt.observers)-1]
}

// Batch groups multiple signal updates into a single notification phase.
// Listeners notified during fn are deduplicated and run once when the
// outermost batch completes.
func (rt *Runtime) Batch(fn func()) {
	rt.batchDepth++
	defer func() {
		rt.batchDepth--
		if rt.batchDepth == 0 {
			rt.flush()
		}
	}()
	fn()
}

// flush drains the pending queue until no listener is left.
func (rt *Runtime) flush() {
	for len(rt.pending) > 0 {
		updates := rt.pending
		rt.pending = nil

		seen := make(map[uint64]bool, len(updates))
		for _, l := range updates {
			if seen[l.ID()] {
				continue
			}
			seen[l.ID()] = true
			l.MarkDirty()
		}
	}
}

// Untracked runs fn without tracking signal reads as dependencies.
func (rt *Runtime) Untracked(fn func()) {
	rt.push(nil)
	defer rt.pop()
	fn()
}

// OnCleanup registers fn on the running effect. It runs before that effect
// re-runs and when it is disposed. Outside an effect it is a no-op and
// reports false.
func (rt *Runtime) OnCleanup(fn func()) bool {
	if rt.owner == nil || fn == nil {
		return false
	}
	rt.owner.cleanups = append(rt.owner.cleanups, fn)
	return true
}

// Owner returns the effect whose run is in progress, or nil.
func (rt *Runtime) Owner() *Effect {
	return rt.owner
}
