package element

import (
	"testing"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/diff"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// mutationCount counts child-list records produced under root.
func mutationCount(doc *dom.Document, root dom.Node) func() int {
	n := 0
	o := dom.NewMutationObserver(doc, func(records []dom.MutationRecord, _ *dom.MutationObserver) {
		n += len(records)
	})
	o.Observe(root, dom.ObserveOptions{ChildList: true, Subtree: true})
	return func() int {
		doc.Flush()
		return n
	}
}

func TestAttachInsertsSentinelsLast(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	before := f.doc.CreateElement("b")
	_ = parent.AppendChild(before)

	r := f.g.Attach(parent)

	kids := parent.ChildNodes()
	if len(kids) != 3 || kids[0] != dom.Node(before) {
		t.Fatalf("children = %v, want [b, start, end]", contents(kids))
	}
	if kids[1] != dom.Node(r.Start()) || kids[2] != dom.Node(r.End()) {
		t.Error("sentinels should be the last two children")
	}
	if r.Start().Data() != "s-"+r.Tag() || r.End().Data() != "e-"+r.Tag() {
		t.Errorf("sentinel data = %q/%q, want tagged pair", r.Start().Data(), r.End().Data())
	}
	if r.Parent() != dom.Container(parent) {
		t.Error("Parent() should return the container")
	}
	if r.Passes() != 1 {
		t.Errorf("Passes() = %d, want 1", r.Passes())
	}
}

func TestAttachTagsAreUnique(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tag := f.g.Attach(parent).Tag()
		if seen[tag] {
			t.Fatalf("tag %q reused", tag)
		}
		seen[tag] = true
	}
}

func TestAttachNilParent(t *testing.T) {
	f := newFixture()
	if r := f.g.Attach(nil, "a"); r != nil {
		t.Error("Attach(nil) should return nil")
	}
	var el *dom.Element
	if f.g.AddChildren(el, "a") != dom.Container(el) {
		t.Error("AddChildren should return its parent argument")
	}
}

func TestRepeatedScalarsGetOneNodePerOccurrence(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	items := reactive.NewSignal[[]any](f.rt, []any{1, "a", 1})

	r := f.g.Attach(parent, items)
	first := r.Nodes()
	if got := contents(first); !equalStrings(got, []string{"1", "a", "1"}) {
		t.Fatalf("Nodes() = %v, want [1 a 1]", got)
	}
	if got := r.CacheKeys(); !equalStrings(got, []string{"1", "a"}) {
		t.Errorf("CacheKeys() = %v, want [1 a]", got)
	}
	if first[0] == first[2] {
		t.Error("a node cannot hold two positions")
	}

	items.Set([]any{"a", 1, 1})
	second := r.Nodes()
	if got := contents(second); !equalStrings(got, []string{"a", "1", "1"}) {
		t.Fatalf("Nodes() = %v, want [a 1 1]", got)
	}
	if second[0] != first[1] || second[1] != first[0] || second[2] != first[2] {
		t.Error("every occurrence should reuse its cached node")
	}
	if f.rec.created != 3 {
		t.Errorf("text nodes created = %d, want 3", f.rec.created)
	}

	items.Set([]any{1, "a"})
	if f.rec.evicted != 1 {
		t.Errorf("evicted = %d, want the surplus \"1\" node", f.rec.evicted)
	}
	if first[2].ParentNode() != nil {
		t.Error("surplus occurrence should be removed")
	}
}

func TestReorderReusesNodes(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("ul")
	items := reactive.NewSignal[[]any](f.rt, []any{"a", "b"})

	r := f.g.Attach(parent, items)
	before := r.Nodes()

	items.Set([]any{"b", "a"})
	after := r.Nodes()

	if got := contents(after); !equalStrings(got, []string{"b", "a"}) {
		t.Fatalf("Nodes() = %v, want [b a]", got)
	}
	if after[0] != before[1] || after[1] != before[0] {
		t.Error("reorder must keep node identity")
	}
	if f.rec.created != 2 {
		t.Errorf("text nodes created = %d, want 2", f.rec.created)
	}
	if f.rec.ops[diff.OpMove] != 1 || f.rec.ops[diff.OpInsert] != 2 {
		t.Errorf("ops = %v, want 2 inserts then 1 move", f.rec.ops)
	}
}

func TestShrinkEvictsAndRemoves(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("ul")
	items := reactive.NewSignal[[]any](f.rt, []any{"a", "b"})

	r := f.g.Attach(parent, items)
	before := r.Nodes()

	items.Set([]any{"a"})

	after := r.Nodes()
	if len(after) != 1 || after[0] != before[0] {
		t.Fatalf("Nodes() = %v, want the original a node", contents(after))
	}
	if before[1].ParentNode() != nil {
		t.Error("b should be removed from the parent")
	}
	if got := r.CacheKeys(); !equalStrings(got, []string{"a"}) {
		t.Errorf("CacheKeys() = %v, want [a]", got)
	}
	if f.rec.ops[diff.OpRemove] != 1 {
		t.Errorf("removes = %d, want 1", f.rec.ops[diff.OpRemove])
	}
}

func TestUnchangedPassMutatesNothing(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("ul")
	tick := reactive.NewSignal(f.rt, 0)
	el := f.doc.CreateElement("li")

	r := f.g.Attach(parent, func() any {
		tick.Get()
		return []any{"a", el, 2, []any{"b", nil}}
	})
	count := mutationCount(f.doc, parent)

	tick.Set(1)
	tick.Set(2)

	if got := count(); got != 0 {
		t.Errorf("unchanged passes produced %d mutation records, want 0", got)
	}
	if r.Passes() != 3 {
		t.Errorf("Passes() = %d, want 3", r.Passes())
	}
}

func TestRegionLeavesSiblingsAlone(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	head := f.doc.CreateTextNode("head")
	_ = parent.AppendChild(head)

	items := reactive.NewSignal[[]any](f.rt, []any{"x", "y"})
	r := f.g.Attach(parent, items)
	tail := f.doc.CreateTextNode("tail")
	_ = parent.AppendChild(tail)

	steps := [][]any{
		{"y", "x", "z"},
		{},
		{"z"},
		{"a", "b", "c", "d"},
		{"d", "c", "b", "a"},
	}
	for _, step := range steps {
		items.Set(step)

		kids := parent.ChildNodes()
		if kids[0] != dom.Node(head) || kids[len(kids)-1] != dom.Node(tail) {
			t.Fatalf("siblings outside the region moved: %v", contents(kids))
		}
		si, ei := parent.IndexOf(r.Start()), parent.IndexOf(r.End())
		if si < 0 || ei < si {
			t.Fatalf("sentinel order broken: start=%d end=%d", si, ei)
		}
		want := make([]string, len(step))
		for i, v := range step {
			want[i] = Stringify(v)
		}
		if got := contents(r.Nodes()); !equalStrings(got, want) {
			t.Errorf("Nodes() = %v, want %v", got, want)
		}
		if got := r.CacheKeys(); len(got) != len(step) {
			t.Errorf("CacheKeys() = %v, want %d keys", got, len(step))
		}
	}
}

func TestNestedAndReactiveChildren(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("p")
	name := reactive.NewSignal(f.rt, "ada")
	count := reactive.NewSignal(f.rt, 1)
	double := reactive.NewMemo(f.rt, func() int { return count.Get() * 2 })
	var missing *dom.Element

	f.g.AddChildren(parent, "hi ", name, []any{" x", double, nil, missing}, []string{"!", "?"})
	if got := parent.TextContent(); got != "hi ada x2!?" {
		t.Fatalf("TextContent() = %q, want %q", got, "hi ada x2!?")
	}

	name.Set("bob")
	count.Set(5)
	if got := parent.TextContent(); got != "hi bob x10!?" {
		t.Errorf("TextContent() = %q, want %q", got, "hi bob x10!?")
	}
}

func TestNodeChildrenPassThrough(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("ul")
	a := f.doc.CreateElement("li")
	b := f.doc.CreateElement("li")
	items := reactive.NewSignal[[]any](f.rt, []any{a, b, a})

	r := f.g.Attach(parent, items)
	nodes := r.Nodes()
	if len(nodes) != 2 || nodes[0] != dom.Node(a) || nodes[1] != dom.Node(b) {
		t.Fatalf("duplicate node should keep its first position, got %d nodes", len(nodes))
	}

	items.Set([]any{b, a})
	nodes = r.Nodes()
	if nodes[0] != dom.Node(b) || nodes[1] != dom.Node(a) {
		t.Error("element children should be moved, not recreated")
	}
}

func TestFragmentChildrenAreSpliced(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	frag := f.doc.CreateDocumentFragment()
	_ = frag.Append(f.doc.CreateTextNode("x"), f.doc.CreateTextNode("y"))

	r := f.g.Attach(parent, "a", frag, "b")
	if got := contents(r.Nodes()); !equalStrings(got, []string{"a", "x", "y", "b"}) {
		t.Errorf("Nodes() = %v, want [a x y b]", got)
	}
}

func TestMissingSentinelSkipsPass(t *testing.T) {
	var handled []error
	f := newFixture(WithErrorHandler(func(err error) { handled = append(handled, err) }))
	parent := f.doc.CreateElement("div")
	items := reactive.NewSignal[[]any](f.rt, []any{"a"})

	r := f.g.Attach(parent, items)
	r.End().Remove()
	items.Set([]any{"b"})

	if len(handled) != 1 || errors.Code(handled[0]) != "E101" {
		t.Fatalf("handled = %v, want one E101", handled)
	}
	if len(f.rec.violations) != 1 || f.rec.violations[0] != "E101" {
		t.Errorf("violations = %v, want [E101]", f.rec.violations)
	}
	if parent.TextContent() != "a" {
		t.Errorf("TextContent() = %q, skipped pass must not mutate", parent.TextContent())
	}
	if r.Passes() != 1 {
		t.Errorf("Passes() = %d, want 1", r.Passes())
	}
}

func TestReversedSentinelsSkipPass(t *testing.T) {
	var handled []error
	f := newFixture(WithErrorHandler(func(err error) { handled = append(handled, err) }))
	parent := f.doc.CreateElement("div")
	items := reactive.NewSignal[[]any](f.rt, []any{"a"})

	r := f.g.Attach(parent, items)
	_ = parent.AppendChild(r.Start())
	items.Set([]any{"b"})

	if len(handled) != 1 || errors.Code(handled[0]) != "E102" {
		t.Fatalf("handled = %v, want one E102", handled)
	}
	if r.Nodes() != nil {
		t.Error("Nodes() should be nil while sentinels are reversed")
	}
}

func TestDiffFailureIsReported(t *testing.T) {
	var handled []error
	f := newFixture(WithErrorHandler(func(err error) { handled = append(handled, err) }))
	parent := f.doc.CreateElement("div")

	f.g.Attach(parent, parent)

	if len(handled) != 1 || errors.Code(handled[0]) != "E103" {
		t.Fatalf("handled = %v, want one E103", handled)
	}
}

func TestRegionDispose(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	items := reactive.NewSignal[[]any](f.rt, []any{"a"})

	r := f.g.Attach(parent, items)
	if f.g.BindingCount(parent) != 1 {
		t.Fatalf("BindingCount = %d, want 1", f.g.BindingCount(parent))
	}

	r.Dispose()
	r.Dispose()
	items.Set([]any{"b"})

	if parent.TextContent() != "a" {
		t.Errorf("TextContent() = %q after Dispose, want a", parent.TextContent())
	}
	if f.g.BindingCount(parent) != 0 {
		t.Errorf("BindingCount = %d after Dispose, want 0", f.g.BindingCount(parent))
	}
}

func TestNestedRegions(t *testing.T) {
	f := newFixture()
	root := f.doc.CreateElement("ul")
	rows := reactive.NewSignal[[]any](f.rt, []any{"a", "b"})
	suffix := reactive.NewSignal(f.rt, "!")

	f.g.AddChildren(root, func() any {
		var out []any
		for _, row := range rows.Get() {
			out = append(out, f.g.NewElement("li", nil, row, suffix))
		}
		return out
	})
	if got := dom.OuterHTML(root); got != "<ul><li>a!</li><li>b!</li></ul>" {
		t.Fatalf("OuterHTML() = %q", got)
	}

	first := root.ChildNodes()[1]
	suffix.Set("?")
	if got := dom.OuterHTML(root); got != "<ul><li>a?</li><li>b?</li></ul>" {
		t.Errorf("OuterHTML() = %q", got)
	}
	if root.ChildNodes()[1] != first {
		t.Error("inner change must not re-run the outer region")
	}

	rows.Set([]any{"c"})
	if got := dom.OuterHTML(root); got != "<ul><li>c?</li></ul>" {
		t.Errorf("OuterHTML() = %q", got)
	}
}
