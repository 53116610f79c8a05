// Package element binds reactive values to a live dom tree.
//
// A Group ties a dom.Document to a reactive.Runtime and offers the
// operations applications build views with:
//
//	g := element.NewGroup(doc, rt)
//	items := reactive.NewSignal[[]any](rt, []any{"a", "b"})
//
//	list := g.NewElement("ul", element.Attributes{"class": "todo"}, items)
//	g.WatchRoot(doc.Body(), func(ev element.Event) { ... })
//	_ = doc.Body().AppendChild(list)
//
//	items.Set([]any{"b", "a"}) // the two text nodes swap, nothing is recreated
//
// # Managed regions
//
// AddChildren inserts a pair of comment sentinels into the parent and keeps
// the nodes between them equal to the flattened child values. Scalars become
// text nodes cached by their string; a string that stays in the list keeps
// its node across passes. Code outside the Group must not insert or remove
// nodes between a region's sentinels.
//
// # Events
//
// WatchRoot listens for the native event table on a root and watches its
// subtree for structural changes. Every native event and every add/remove
// lifecycle event is re-dispatched on its target as a "receive" event, which
// is how the "events" callback of an Attributes bag sees it.
package element
