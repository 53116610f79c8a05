package element

import "github.com/vango-dev/livetree/pkg/dom"

// ReceiveEvent is the per-node channel every observed event is re-dispatched on.
const ReceiveEvent = "receive"

// Event is what observers and events callbacks receive: a native *dom.Event
// or a LifecycleEvent.
type Event interface {
	Type() string
	Target() dom.Node
}

var (
	_ Event = (*dom.Event)(nil)
	_ Event = LifecycleEvent{}
)

// LifecycleOp says whether a node entered or left the observed subtree.
type LifecycleOp uint8

const (
	Add LifecycleOp = iota + 1
	Remove
)

// String returns "add" or "remove".
func (op LifecycleOp) String() string {
	switch op {
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// LifecycleEvent reports a structural change under a watched root.
type LifecycleEvent struct {
	Op   LifecycleOp
	Node dom.Node
}

// Type returns the op name.
func (e LifecycleEvent) Type() string { return e.Op.String() }

// Target returns the added or removed node.
func (e LifecycleEvent) Target() dom.Node { return e.Node }

// EventSpec is one row of the native event table.
type EventSpec struct {
	Name    string `json:"name" yaml:"name"`
	Passive bool   `json:"passive,omitempty" yaml:"passive,omitempty"`
}

// passiveEvents are registered as passive by default.
var passiveEvents = map[string]bool{
	"wheel":      true,
	"mousewheel": true,
	"touchstart": true,
	"touchmove":  true,
}

// IsPassiveByDefault reports whether name is in the default passive set.
func IsPassiveByDefault(name string) bool {
	return passiveEvents[name]
}

var defaultEventNames = []string{
	// Mouse
	"click", "dblclick", "mousedown", "mouseup", "mousemove", "mouseenter",
	"mouseleave", "mouseover", "mouseout", "contextmenu", "wheel", "mousewheel",
	// Keyboard
	"keydown", "keyup", "keypress",
	// Form
	"input", "change", "submit", "reset", "invalid", "select",
	// Focus
	"focus", "blur", "focusin", "focusout",
	// Drag
	"dragstart", "drag", "dragend", "dragenter", "dragover", "dragleave", "drop",
	// Touch
	"touchstart", "touchmove", "touchend", "touchcancel",
	// Pointer
	"pointerdown", "pointerup", "pointermove", "pointerenter", "pointerleave", "pointercancel",
	// Scroll
	"scroll", "scrollend",
	// Media
	"play", "pause", "ended", "timeupdate", "volumechange", "loadeddata", "canplay",
	// Resource
	"load", "error", "abort",
	// Animation and transition
	"animationstart", "animationend", "animationiteration", "animationcancel",
	"transitionstart", "transitionend", "transitionrun", "transitioncancel",
	// Clipboard
	"copy", "cut", "paste",
	// Misc
	"toggle",
}

// DefaultEventTable returns the standard native event table. Each call
// returns a fresh slice.
func DefaultEventTable() []EventSpec {
	table := make([]EventSpec, len(defaultEventNames))
	for i, name := range defaultEventNames {
		table[i] = EventSpec{Name: name, Passive: passiveEvents[name]}
	}
	return table
}
