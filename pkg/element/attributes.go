package element

import (
	"sort"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Reserved keys of an Attributes bag.
const (
	StylesKey = "styles"
	EventsKey = "events"
)

// Attributes maps attribute names to static or reactive values. The
// StylesKey entry holds Styles and the EventsKey entry a func(Event).
type Attributes map[string]any

// Styles maps style properties to static or reactive values.
type Styles map[string]any

// attrBinding is the state of one SetAttributes call.
type attrBinding struct {
	g    *Group
	node dom.Node

	effect   *reactive.Effect
	listener *dom.Registration

	// events is the callback of the bag applied last.
	events func(Event)

	// applied holds the ordinary keys written by the current bag.
	applied  map[string]bool
	disposed bool
}

// SetAttributes binds attrs onto node and returns node. attrs is an
// Attributes value or a reactive value yielding one. Every ordinary key
// runs in its own effect, so a change to one key's value rewrites only that
// attribute. When the bag itself is replaced, keys the new bag no longer
// holds are removed. Styles merge onto the node's style surface and are
// ignored for nodes without one.
func (g *Group) SetAttributes(node dom.Node, attrs any) dom.Node {
	if node == nil || attrs == nil {
		return node
	}

	b := &attrBinding{g: g, node: node, applied: make(map[string]bool)}

	reg, err := node.AddEventListener(ReceiveEvent, b.receive)
	if err != nil {
		g.fail(errors.New("E104").Wrap(err).WithField("node", dom.Describe(node)))
	} else {
		b.listener = reg
	}

	b.effect = g.rt.Effect(func() reactive.Cleanup {
		b.apply(toAttributes(reactive.Resolve(attrs)))
		return nil
	})
	g.track(node, b)
	return node
}

// Dispose stops the binding and removes its receive listener.
func (b *attrBinding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.effect.Dispose()
	if b.listener != nil {
		b.listener.Remove()
	}
	b.g.forget(b.node, b)
}

func (b *attrBinding) receive(ev *dom.Event) {
	if b.disposed || b.events == nil {
		return
	}
	inner, ok := ev.Detail().(Event)
	if !ok {
		inner = ev
	}
	b.events(inner)
}

// apply runs inside the bag effect; the effects it creates are owned by it
// and replaced when the bag changes.
func (b *attrBinding) apply(bag Attributes) {
	b.events = nil
	if fn, ok := reactive.Resolve(bag[EventsKey]).(func(Event)); ok {
		b.events = fn
	}

	if el, ok := b.node.(dom.Attributed); ok {
		for key := range b.applied {
			if _, still := bag[key]; !still {
				el.RemoveAttribute(key)
				b.g.recorder.AttributeWrite()
			}
		}
		b.applied = make(map[string]bool, len(bag))

		for _, key := range sortedKeys(bag) {
			if key == StylesKey || key == EventsKey {
				continue
			}
			b.applied[key] = true
			key, value := key, bag[key]
			b.g.rt.Effect(func() reactive.Cleanup {
				b.g.writeAttribute(el, key, reactive.Resolve(value))
				return nil
			})
		}
	}

	styles, ok := bag[StylesKey]
	if !ok {
		return
	}
	styled, ok := b.node.(dom.Styled)
	if !ok {
		return
	}
	b.g.rt.Effect(func() reactive.Cleanup {
		props := toStyles(reactive.Resolve(styles))
		for _, prop := range sortedKeys(props) {
			prop, value := prop, props[prop]
			b.g.rt.Effect(func() reactive.Cleanup {
				b.g.writeStyle(styled.Style(), prop, reactive.Resolve(value))
				return nil
			})
		}
		return nil
	})
}

// writeAttribute applies one converted value: nil and false remove the
// attribute, true sets it empty.
func (g *Group) writeAttribute(el dom.Attributed, key string, v any) {
	switch val := v.(type) {
	case bool:
		if val {
			el.SetAttribute(key, "")
		} else {
			el.RemoveAttribute(key)
		}
	default:
		if reactive.IsNil(v) {
			el.RemoveAttribute(key)
		} else {
			el.SetAttribute(key, Stringify(v))
		}
	}
	g.recorder.AttributeWrite()
}

func (g *Group) writeStyle(style *dom.Style, prop string, v any) {
	if reactive.IsNil(v) {
		style.Remove(prop)
	} else {
		style.Set(prop, Stringify(v))
	}
	g.recorder.AttributeWrite()
}

func toAttributes(v any) Attributes {
	switch bag := v.(type) {
	case Attributes:
		return bag
	case map[string]any:
		return Attributes(bag)
	case map[string]string:
		out := make(Attributes, len(bag))
		for k, s := range bag {
			out[k] = s
		}
		return out
	default:
		return nil
	}
}

func toStyles(v any) Styles {
	switch props := v.(type) {
	case Styles:
		return props
	case map[string]any:
		return Styles(props)
	case map[string]string:
		out := make(Styles, len(props))
		for k, s := range props {
			out[k] = s
		}
		return out
	default:
		return nil
	}
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
