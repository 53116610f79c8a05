package element

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// TracerName is the instrumentation name of the default tracer.
const TracerName = "livetree/element"

// Group binds reactive values to nodes of one document. A Group and
// everything it touches run on a single goroutine.
type Group struct {
	doc *dom.Document
	rt  *reactive.Runtime

	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
	events   []EventSpec
	onError  func(error)

	disposeOnRemove bool

	// bindings are the disposable bindings registered per node.
	bindings map[dom.Node][]binding
}

// binding is anything a Group can tear down for a node.
type binding interface {
	Dispose()
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Group) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(g *Group) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithTracer sets the tracer used for reconcile spans.
func WithTracer(t trace.Tracer) Option {
	return func(g *Group) {
		if t != nil {
			g.tracer = t
		}
	}
}

// WithEventTable replaces the native event table used by WatchRoot.
func WithEventTable(table []EventSpec) Option {
	return func(g *Group) {
		g.events = append([]EventSpec(nil), table...)
	}
}

// WithErrorHandler receives precondition violations and rejected listeners.
func WithErrorHandler(fn func(error)) Option {
	return func(g *Group) {
		g.onError = fn
	}
}

// WithDisposeOnRemove disposes the bindings of nodes that leave a watched
// root for good.
func WithDisposeOnRemove() Option {
	return func(g *Group) {
		g.disposeOnRemove = true
	}
}

// NewGroup creates a Group for doc driven by rt.
func NewGroup(doc *dom.Document, rt *reactive.Runtime, opts ...Option) *Group {
	g := &Group{
		doc:      doc,
		rt:       rt,
		logger:   slog.Default(),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(TracerName),
		events:   DefaultEventTable(),
		bindings: make(map[dom.Node][]binding),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Document returns the document the Group creates nodes in.
func (g *Group) Document() *dom.Document { return g.doc }

// Runtime returns the reactive runtime.
func (g *Group) Runtime() *reactive.Runtime { return g.rt }

// EventTable returns a copy of the native event table.
func (g *Group) EventTable() []EventSpec {
	return append([]EventSpec(nil), g.events...)
}

// BindingCount returns how many live bindings are registered on n.
func (g *Group) BindingCount(n dom.Node) int {
	return len(g.bindings[n])
}

// Dispose tears down every binding registered on n and its descendants:
// attribute effects, receive listeners, regions and root watches.
func (g *Group) Dispose(n dom.Node) {
	if n == nil {
		return
	}
	var found []binding
	dom.Walk(n, func(x dom.Node) {
		found = append(found, g.bindings[x]...)
	})
	for _, b := range found {
		b.Dispose()
	}
}

// track registers b on n. When the running effect owns the binding, the
// binding is disposed with it.
func (g *Group) track(n dom.Node, b binding) {
	g.bindings[n] = append(g.bindings[n], b)
	g.rt.OnCleanup(b.Dispose)
}

func (g *Group) forget(n dom.Node, b binding) {
	list := g.bindings[n]
	for i, x := range list {
		if x == b {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(g.bindings, n)
		return
	}
	g.bindings[n] = list
}

// fail reports a coded error through the logger, recorder and error handler.
func (g *Group) fail(err *errors.Error) {
	g.logger.Error(err.Message, err.LogAttrs()...)
	g.recorder.Violation(err.Code)
	if g.onError != nil {
		g.onError(err)
	}
}
