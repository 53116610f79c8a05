package element

import (
	"github.com/vango-dev/livetree/pkg/dom"
)

// watcher is the state of one WatchRoot call.
type watcher struct {
	g        *Group
	root     dom.Node
	callback func(Event)

	listeners []*dom.Registration
	observer  *dom.MutationObserver
	disposed  bool
}

// WatchRoot listens on root for every event of the group's event table and
// watches root's subtree for added and removed nodes. Each native event and
// each lifecycle event is first re-dispatched as a receive event on its
// target, then handed to callback. callback may be nil. Lifecycle events
// are delivered when the document flushes its mutation records.
func (g *Group) WatchRoot(root dom.Node, callback func(Event)) dom.Node {
	if root == nil {
		return root
	}

	w := &watcher{g: g, root: root, callback: callback}
	for _, spec := range g.events {
		if spec.Name == ReceiveEvent {
			continue
		}
		reg, err := root.AddEventListener(spec.Name, w.native, dom.ListenerOptions{Passive: spec.Passive})
		if err != nil {
			g.logger.Debug("event listener rejected", "event", spec.Name, "error", err)
			continue
		}
		w.listeners = append(w.listeners, reg)
	}

	w.observer = dom.NewMutationObserver(g.doc, w.mutations)
	w.observer.Observe(root, dom.ObserveOptions{ChildList: true, Subtree: true})

	g.track(root, w)
	return root
}

// Dispose removes the root listeners and stops the subtree watch.
func (w *watcher) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	for _, reg := range w.listeners {
		reg.Remove()
	}
	w.listeners = nil
	w.observer.Disconnect()
	w.g.forget(w.root, w)
}

func (w *watcher) native(ev *dom.Event) {
	w.deliver(ev)
}

func (w *watcher) mutations(records []dom.MutationRecord, _ *dom.MutationObserver) {
	for _, rec := range records {
		for _, n := range rec.AddedNodes {
			w.deliver(LifecycleEvent{Op: Add, Node: n})
		}
		for _, n := range rec.RemovedNodes {
			w.deliver(LifecycleEvent{Op: Remove, Node: n})
			if w.g.disposeOnRemove && !dom.Contains(w.root, n) {
				w.g.Dispose(n)
			}
		}
	}
}

func (w *watcher) deliver(ev Event) {
	if w.disposed {
		return
	}
	w.g.recorder.Event(ev.Type())
	if target := ev.Target(); target != nil {
		target.DispatchEvent(dom.NewCustomEvent(ReceiveEvent, ev))
	}
	if w.callback != nil {
		w.callback(ev)
	}
}
