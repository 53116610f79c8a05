package element

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/diff"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Region is a managed slice of a parent's children delimited by two
// comment sentinels.
type Region struct {
	g        *Group
	parent   dom.Container
	start    *dom.Comment
	end      *dom.Comment
	tag      string
	children []any

	// cache maps a stringified scalar to the text nodes created for it,
	// one per occurrence within a pass.
	cache map[string][]*dom.Text

	effect   *reactive.Effect
	passes   int
	disposed bool
}

// AddChildren attaches a managed region holding children to parent and
// returns parent.
func (g *Group) AddChildren(parent dom.Container, children ...any) dom.Container {
	g.Attach(parent, children...)
	return parent
}

// Attach appends a sentinel pair to parent and keeps the nodes between them
// equal to the flattened children. It returns nil when parent is nil.
func (g *Group) Attach(parent dom.Container, children ...any) *Region {
	if reactive.IsNil(parent) {
		return nil
	}

	tag := uuid.Must(uuid.NewV7()).String()
	r := &Region{
		g:        g,
		parent:   parent,
		start:    g.doc.CreateComment("s-" + tag),
		end:      g.doc.CreateComment("e-" + tag),
		tag:      tag,
		children: children,
		cache:    make(map[string][]*dom.Text),
	}
	if err := parent.Append(r.start, r.end); err != nil {
		g.fail(errors.New("E103").Wrap(err).WithField("region", tag))
		return r
	}

	r.effect = g.rt.Effect(func() reactive.Cleanup {
		r.pass()
		return nil
	})
	g.track(parent, r)
	return r
}

// Tag returns the sentinel tag.
func (r *Region) Tag() string { return r.tag }

// Parent returns the container the region lives in.
func (r *Region) Parent() dom.Container { return r.parent }

// Start returns the start sentinel.
func (r *Region) Start() *dom.Comment { return r.start }

// End returns the end sentinel.
func (r *Region) End() *dom.Comment { return r.end }

// Passes returns how many reconciliation passes have completed.
func (r *Region) Passes() int { return r.passes }

// Nodes returns the nodes currently between the sentinels.
func (r *Region) Nodes() []dom.Node {
	nodes := r.parent.ChildNodes()
	si, ei := indexIn(nodes, r.start), indexIn(nodes, r.end)
	if si < 0 || ei < si {
		return nil
	}
	return append([]dom.Node(nil), nodes[si+1:ei]...)
}

// CacheKeys returns the cached strings in sorted order.
func (r *Region) CacheKeys() []string {
	keys := make([]string, 0, len(r.cache))
	for k := range r.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispose stops reconciling. The nodes stay where they are.
func (r *Region) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.effect != nil {
		r.effect.Dispose()
	}
	r.g.forget(r.parent, r)
}

// pass runs one reconciliation. Reads made while flattening are tracked by
// the region effect.
func (r *Region) pass() {
	began := time.Now()
	g := r.g

	target, created, evicted := r.resolve(reactive.Flatten(r.children...))
	g.recorder.TextNodesCreated(created)
	g.recorder.CacheEvictions(evicted)

	nodes := r.parent.ChildNodes()
	si, ei := indexIn(nodes, r.start), indexIn(nodes, r.end)
	switch {
	case si < 0 || ei < 0:
		g.fail(errors.New("E101").WithField("region", r.tag))
		return
	case ei < si:
		g.fail(errors.New("E102").WithField("region", r.tag))
		return
	}
	current := nodes[si : ei+1]

	_, span := g.tracer.Start(context.Background(), "element.reconcile",
		trace.WithAttributes(
			attribute.String("region.tag", r.tag),
			attribute.Int("region.size", len(target)-2),
		))
	defer span.End()

	stats, err := diff.Apply(r.parent, current, target, func(n dom.Node, op diff.Op) dom.Node {
		g.recorder.DiffOp(op)
		return nil
	})
	span.SetAttributes(
		attribute.Int("diff.inserts", stats.Inserts),
		attribute.Int("diff.moves", stats.Moves),
		attribute.Int("diff.removes", stats.Removes),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "diff failed")
		g.fail(errors.New("E103").Wrap(err).WithField("region", r.tag))
		return
	}

	r.passes++
	g.recorder.ReconcilePass(time.Since(began))
}

// resolve turns flattened values into the target sequence, creating text
// nodes for scalars not yet cached and evicting cache entries the pass no
// longer uses. A fragment contributes the children it holds at pass time.
func (r *Region) resolve(values []any) (target []dom.Node, created, evicted int) {
	target = make([]dom.Node, 0, len(values)+2)
	target = append(target, r.start)
	seen := map[dom.Node]bool{r.start: true, r.end: true}
	occurrences := make(map[string]int)

	add := func(n dom.Node) {
		if seen[n] {
			r.g.logger.Debug("duplicate child node dropped", "region", r.tag, "node", dom.Describe(n))
			return
		}
		seen[n] = true
		target = append(target, n)
	}

	for _, v := range values {
		switch x := v.(type) {
		case *dom.Fragment:
			for _, child := range x.ChildNodes() {
				add(child)
			}
		case dom.Node:
			add(x)
		default:
			key := Stringify(v)
			k := occurrences[key]
			occurrences[key] = k + 1

			texts := r.cache[key]
			if k < len(texts) {
				add(texts[k])
				continue
			}
			text := r.g.doc.CreateTextNode(key)
			r.cache[key] = append(texts, text)
			created++
			add(text)
		}
	}
	target = append(target, r.end)

	for key, texts := range r.cache {
		n, ok := occurrences[key]
		if !ok {
			evicted += len(texts)
			delete(r.cache, key)
			continue
		}
		if n < len(texts) {
			evicted += len(texts) - n
			r.cache[key] = texts[:n]
		}
	}
	return target, created, evicted
}

func indexIn(nodes []dom.Node, n dom.Node) int {
	for i, x := range nodes {
		if x == n {
			return i
		}
	}
	return -1
}
