package dom

// MutationRecord describes one child-list change on Target.
type MutationRecord struct {
	Target       Node
	AddedNodes   []Node
	RemovedNodes []Node
}

// ObserveOptions selects what an observer watches.
type ObserveOptions struct {
	// ChildList watches additions and removals of children.
	ChildList bool

	// Subtree extends the watch to every descendant of the target.
	Subtree bool
}

// MutationCallback receives a batch of records at the document's
// notification checkpoint.
type MutationCallback func(records []MutationRecord, o *MutationObserver)

type observation struct {
	target Node
	opts   ObserveOptions
}

// MutationObserver queues child-list records for observed nodes and delivers
// them in order on Document.Flush.
type MutationObserver struct {
	doc      *Document
	callback MutationCallback
	targets  []observation
	queue    []MutationRecord
}

// NewMutationObserver creates an observer bound to doc. It watches nothing
// until Observe is called.
func NewMutationObserver(doc *Document, cb MutationCallback) *MutationObserver {
	return &MutationObserver{doc: doc, callback: cb}
}

// Observe starts watching target. Observing the same target again replaces
// its options.
func (o *MutationObserver) Observe(target Node, opts ObserveOptions) {
	for i := range o.targets {
		if o.targets[i].target == target {
			o.targets[i].opts = opts
			return
		}
	}
	if len(o.targets) == 0 {
		o.doc.observers = append(o.doc.observers, o)
	}
	o.targets = append(o.targets, observation{target: target, opts: opts})
}

// Disconnect stops all watching and drops queued records.
func (o *MutationObserver) Disconnect() {
	o.targets = nil
	o.queue = nil
	obs := o.doc.observers
	for i, x := range obs {
		if x == o {
			o.doc.observers = append(obs[:i:i], obs[i+1:]...)
			return
		}
	}
}

// TakeRecords returns and clears the queued records.
func (o *MutationObserver) TakeRecords() []MutationRecord {
	q := o.queue
	o.queue = nil
	return q
}

func (o *MutationObserver) watches(n Node) bool {
	for _, t := range o.targets {
		if !t.opts.ChildList {
			continue
		}
		if t.target == n {
			return true
		}
		if t.opts.Subtree && Contains(t.target, n) {
			return true
		}
	}
	return false
}
