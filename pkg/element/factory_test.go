package element

import (
	"testing"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func TestNewElement(t *testing.T) {
	f := newFixture()
	label := reactive.NewSignal(f.rt, "two")

	ul := f.g.NewElement("ul", Attributes{"class": "todo"},
		f.g.NewElement("li", nil, "one"),
		f.g.NewElement("li", Attributes{"data-done": true}, label),
	)

	if got := dom.OuterHTML(ul); got != `<ul class="todo"><li>one</li><li data-done>two</li></ul>` {
		t.Fatalf("OuterHTML() = %q", got)
	}

	label.Set("2")
	if got := dom.OuterHTML(ul); got != `<ul class="todo"><li>one</li><li data-done>2</li></ul>` {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestNewElementAndAddChildrenShareParent(t *testing.T) {
	f := newFixture()
	div := f.g.NewElement("div", nil, "a")
	f.g.AddChildren(div, "b")

	if div.TextContent() != "ab" {
		t.Errorf("TextContent() = %q, want ab", div.TextContent())
	}
	if f.g.BindingCount(div) != 2 {
		t.Errorf("BindingCount = %d, want one per region", f.g.BindingCount(div))
	}
}

func TestUpdateElement(t *testing.T) {
	f := newFixture()
	parent := f.doc.CreateElement("div")
	old := f.doc.CreateElement("span")
	next := f.doc.CreateElement("em")
	_ = parent.Append(f.doc.CreateTextNode("x"), old, f.doc.CreateTextNode("y"))

	if got := f.g.UpdateElement(old, next); got != dom.Node(next) {
		t.Error("UpdateElement should return the replacement")
	}
	if got := dom.OuterHTML(parent); got != "<div>x<em></em>y</div>" {
		t.Errorf("OuterHTML() = %q", got)
	}
	if old.ParentNode() != nil {
		t.Error("replaced node should be detached")
	}
}

func TestUpdateElementDetachedTarget(t *testing.T) {
	f := newFixture()
	old := f.doc.CreateElement("span")
	next := f.doc.CreateElement("em")

	if got := f.g.UpdateElement(old, next); got != dom.Node(next) {
		t.Error("UpdateElement should return the replacement")
	}
	if next.ParentNode() != nil {
		t.Error("detached target must be a no-op")
	}
	if got := f.g.UpdateElement(nil, next); got != dom.Node(next) {
		t.Error("nil target should return the replacement")
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{[]byte("b"), "b"},
		{true, "true"},
		{3, "3"},
		{int64(-4), "-4"},
		{2.50, "2.5"},
		{Add, "add"},
		{struct{ A int }{1}, "{1}"},
		{uint8(9), "9"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
