package main

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/element"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Filters understood by todoApp.
const (
	filterAll    = "all"
	filterActive = "active"
	filterDone   = "done"
)

// todoItem owns its row element; the row is built once and moved around
// by the list region.
type todoItem struct {
	title string
	done  *reactive.Signal[bool]
	row   *dom.Element
}

// todoApp is the tree driven by the demo and inspect commands.
type todoApp struct {
	g      *element.Group
	items  *reactive.Signal[[]*todoItem]
	filter *reactive.Signal[string]
	root   *dom.Element
}

func newTodoApp(g *element.Group) *todoApp {
	rt := g.Runtime()
	a := &todoApp{
		g: g,
		items: reactive.NewSignal[[]*todoItem](rt, nil).WithEquals(func(x, y []*todoItem) bool {
			if len(x) != len(y) {
				return false
			}
			for i := range x {
				if x[i] != y[i] {
					return false
				}
			}
			return true
		}),
		filter: reactive.NewSignal(rt, filterAll),
	}

	remaining := reactive.NewMemo(rt, func() int {
		n := 0
		for _, item := range a.items.Get() {
			if !item.done.Get() {
				n++
			}
		}
		return n
	})

	a.root = g.NewElement("section",
		element.Attributes{"class": "todo-app", "data-filter": a.filter},
		g.NewElement("h1", nil, "todos"),
		g.NewElement("ul", element.Attributes{"class": "todo-list"}, a.visibleRows),
		g.NewElement("footer",
			element.Attributes{element.StylesKey: element.Styles{
				"display": func() any {
					if len(a.items.Get()) == 0 {
						return "none"
					}
					return nil
				},
			}},
			remaining, " left",
		),
	)
	return a
}

// visibleRows is the child value of the list.
func (a *todoApp) visibleRows() any {
	filter := a.filter.Get()
	rows := make([]any, 0, len(a.items.Get()))
	for _, item := range a.items.Get() {
		done := item.done.Get()
		switch {
		case filter == filterActive && done, filter == filterDone && !done:
			continue
		}
		rows = append(rows, item.row)
	}
	return rows
}

// Add appends an item. Clicking its row toggles it.
func (a *todoApp) Add(title string) *todoItem {
	item := &todoItem{title: title, done: reactive.NewSignal(a.g.Runtime(), false)}
	item.row = a.g.NewElement("li",
		element.Attributes{
			"class": func() any {
				if item.done.Get() {
					return "done"
				}
				return nil
			},
			element.EventsKey: func(ev element.Event) {
				if ev.Type() == "click" {
					item.done.Update(func(d bool) bool { return !d })
				}
			},
		},
		title,
	)
	a.items.Update(func(list []*todoItem) []*todoItem {
		return append(append([]*todoItem(nil), list...), item)
	})
	return item
}

// Find returns the item with title, or nil.
func (a *todoApp) Find(title string) *todoItem {
	for _, item := range a.items.Peek() {
		if item.title == title {
			return item
		}
	}
	return nil
}

// Remove drops the item with title and disposes its row.
func (a *todoApp) Remove(title string) {
	var dropped []*todoItem
	a.items.Update(func(list []*todoItem) []*todoItem {
		out := make([]*todoItem, 0, len(list))
		for _, item := range list {
			if item.title == title {
				dropped = append(dropped, item)
				continue
			}
			out = append(out, item)
		}
		return out
	})
	a.dispose(dropped)
}

// dispose releases the bindings of rows that left the list for good.
// Rows hidden by the filter keep theirs.
func (a *todoApp) dispose(items []*todoItem) {
	for _, item := range items {
		a.g.Dispose(item.row)
	}
}

// MoveToFront moves the item with title to the top of the list.
func (a *todoApp) MoveToFront(title string) {
	item := a.Find(title)
	if item == nil {
		return
	}
	a.items.Update(func(list []*todoItem) []*todoItem {
		out := []*todoItem{item}
		for _, x := range list {
			if x != item {
				out = append(out, x)
			}
		}
		return out
	})
}

// Click dispatches a native click on the row of title.
func (a *todoApp) Click(title string) {
	if item := a.Find(title); item != nil {
		item.row.DispatchEvent(dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true}))
	}
}

// SetFilter switches the visible rows.
func (a *todoApp) SetFilter(f string) {
	a.filter.Set(f)
}

// Clear drops every item and shows all.
func (a *todoApp) Clear() {
	dropped := a.items.Peek()
	a.g.Runtime().Batch(func() {
		a.items.Set(nil)
		a.filter.Set(filterAll)
	})
	a.dispose(dropped)
}

// step is one scripted change.
type step struct {
	name string
	run  func(a *todoApp)
}

// script is the change sequence the demo plays.
var script = []step{
	{"add three items", func(a *todoApp) {
		a.g.Runtime().Batch(func() {
			a.Add("write docs")
			a.Add("build tree")
			a.Add("ship it")
		})
	}},
	{"click build tree", func(a *todoApp) { a.Click("build tree") }},
	{"show active", func(a *todoApp) { a.SetFilter(filterActive) }},
	{"move ship it up", func(a *todoApp) { a.MoveToFront("ship it") }},
	{"remove write docs", func(a *todoApp) { a.Remove("write docs") }},
	{"show all", func(a *todoApp) { a.SetFilter(filterAll) }},
}
