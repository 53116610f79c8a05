package dom

// Attr is a single attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a tagged container with attributes and an inline style.
type Element struct {
	nodeCore
	tag   string
	attrs []Attr
	style *Style
}

// Kind returns KindElement.
func (e *Element) Kind() NodeKind { return KindElement }

// TagName returns the element's tag.
func (e *Element) TagName() string { return e.tag }

// SetAttribute sets or replaces an attribute, keeping first-set order.
func (e *Element) SetAttribute(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// GetAttribute returns an attribute's value.
func (e *Element) GetAttribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// RemoveAttribute removes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns a copy of the attributes in insertion order.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.attrs...)
}

// Style returns the inline style surface.
func (e *Element) Style() *Style { return e.style }

// ChildNodes returns a copy of the child list.
func (e *Element) ChildNodes() []Node { return e.childNodes() }

// FirstChild returns the first child or nil.
func (e *Element) FirstChild() Node { return e.firstChild() }

// LastChild returns the last child or nil.
func (e *Element) LastChild() Node { return e.lastChild() }

// IndexOf returns the position of n among the children, or -1.
func (e *Element) IndexOf(n Node) int { return indexOf(e.children, n) }

// AppendChild appends n, moving it if it is attached elsewhere.
func (e *Element) AppendChild(n Node) error { return e.insertBefore(n, nil) }

// Append appends nodes in order.
func (e *Element) Append(nodes ...Node) error { return e.append(nodes) }

// InsertBefore inserts n before ref; a nil ref appends.
func (e *Element) InsertBefore(n, ref Node) error { return e.insertBefore(n, ref) }

// RemoveChild detaches n.
func (e *Element) RemoveChild(n Node) error { return e.removeChild(n) }

// Fragment is a parentless container whose children move on insertion.
type Fragment struct {
	nodeCore
}

// Kind returns KindFragment.
func (f *Fragment) Kind() NodeKind { return KindFragment }

// ChildNodes returns a copy of the child list.
func (f *Fragment) ChildNodes() []Node { return f.childNodes() }

// FirstChild returns the first child or nil.
func (f *Fragment) FirstChild() Node { return f.firstChild() }

// LastChild returns the last child or nil.
func (f *Fragment) LastChild() Node { return f.lastChild() }

// IndexOf returns the position of n among the children, or -1.
func (f *Fragment) IndexOf(n Node) int { return indexOf(f.children, n) }

// AppendChild appends n.
func (f *Fragment) AppendChild(n Node) error { return f.insertBefore(n, nil) }

// Append appends nodes in order.
func (f *Fragment) Append(nodes ...Node) error { return f.append(nodes) }

// InsertBefore inserts n before ref; a nil ref appends.
func (f *Fragment) InsertBefore(n, ref Node) error { return f.insertBefore(n, ref) }

// RemoveChild detaches n.
func (f *Fragment) RemoveChild(n Node) error { return f.removeChild(n) }

// Text is a character-data leaf.
type Text struct {
	nodeCore
	data string
}

// Kind returns KindText.
func (t *Text) Kind() NodeKind { return KindText }

// Data returns the text.
func (t *Text) Data() string { return t.data }

// SetData replaces the text.
func (t *Text) SetData(s string) { t.data = s }

// TextContent returns the text.
func (t *Text) TextContent() string { return t.data }

// Comment is a non-rendered marker leaf.
type Comment struct {
	nodeCore
	data string
}

// Kind returns KindComment.
func (c *Comment) Kind() NodeKind { return KindComment }

// Data returns the comment text.
func (c *Comment) Data() string { return c.data }

// TextContent returns the comment text.
func (c *Comment) TextContent() string { return c.data }
