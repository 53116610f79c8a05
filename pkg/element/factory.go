package element

import "github.com/vango-dev/livetree/pkg/dom"

// NewElement creates a tag element, binds attrs onto it and attaches
// children as a managed region. attrs may be nil.
func (g *Group) NewElement(tag string, attrs any, children ...any) *dom.Element {
	el := g.doc.CreateElement(tag)
	g.SetAttributes(el, attrs)
	g.Attach(el, children...)
	return el
}

// UpdateElement replaces target with source in target's parent and returns
// source. A detached target is left alone.
func (g *Group) UpdateElement(target, source dom.Node) dom.Node {
	if target == nil || source == nil || target == source {
		return source
	}
	if target.ParentNode() == nil {
		return source
	}
	if err := target.ReplaceWith(source); err != nil {
		g.logger.Debug("replace rejected",
			"target", dom.Describe(target),
			"source", dom.Describe(source),
			"error", err)
	}
	return source
}
