package inspect

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/element"
)

// Observe returns a WatchRoot callback that publishes every event to h and
// refreshes the snapshot from root after lifecycle events. It runs on the
// tree's goroutine.
func Observe(h *Hub, root dom.Node) func(element.Event) {
	h.SetSnapshot(dom.OuterHTML(root))
	return func(ev element.Event) {
		kind := KindNative
		if _, ok := ev.(element.LifecycleEvent); ok {
			kind = KindLifecycle
		}
		h.Publish(Record{
			Type:   ev.Type(),
			Kind:   kind,
			Target: dom.Describe(ev.Target()),
		})
		if kind == KindLifecycle {
			h.SetSnapshot(dom.OuterHTML(root))
		}
	}
}
