package dom

import (
	"errors"
	"strings"
)

// NodeKind is the node type discriminator.
type NodeKind uint8

const (
	KindElement NodeKind = iota + 1
	KindText
	KindComment
	KindFragment
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

var (
	// ErrNotFound is returned when a reference node is not a child of the
	// container it was used with.
	ErrNotFound = errors.New("dom: node is not a child of this container")

	// ErrHierarchy is returned when an insertion would make a node its own
	// ancestor.
	ErrHierarchy = errors.New("dom: insertion would create a cycle")

	// ErrWrongDocument is returned when nodes of different documents are mixed.
	ErrWrongDocument = errors.New("dom: node belongs to another document")
)

// Node is a handle to an element, text leaf, comment marker or fragment.
type Node interface {
	// Kind returns the node variant.
	Kind() NodeKind

	// ID is unique per document and stable for the node's lifetime.
	ID() uint64

	OwnerDocument() *Document
	ParentNode() Container
	NextSibling() Node
	PreviousSibling() Node

	// IsConnected reports whether the node's root is the document root.
	IsConnected() bool

	// TextContent concatenates the text of the node and its descendants.
	TextContent() string

	// Remove detaches the node from its parent, if any.
	Remove()

	// ReplaceWith puts n at this node's position and detaches this node.
	ReplaceWith(n Node) error

	AddEventListener(typ string, fn EventListener, opts ...ListenerOptions) (*Registration, error)
	DispatchEvent(ev *Event) bool

	core() *nodeCore
}

// Container is a node that holds children: elements and fragments.
type Container interface {
	Node
	ChildNodes() []Node
	FirstChild() Node
	LastChild() Node
	IndexOf(n Node) int
	AppendChild(n Node) error
	Append(nodes ...Node) error
	InsertBefore(n, ref Node) error
	RemoveChild(n Node) error
}

// Attributed is implemented by nodes with an attribute surface.
type Attributed interface {
	Node
	SetAttribute(name, value string)
	GetAttribute(name string) (string, bool)
	RemoveAttribute(name string)
}

// Styled is implemented by nodes with an inline style surface.
type Styled interface {
	Node
	Style() *Style
}

// nodeCore is embedded in every node variant.
type nodeCore struct {
	id        uint64
	doc       *Document
	self      Node
	parent    Container
	children  []Node
	listeners map[string][]*Registration
}

func (c *nodeCore) core() *nodeCore { return c }

// ID returns the node's document-unique identifier.
func (c *nodeCore) ID() uint64 { return c.id }

// OwnerDocument returns the document that created the node.
func (c *nodeCore) OwnerDocument() *Document { return c.doc }

// ParentNode returns the parent container, or nil when detached.
func (c *nodeCore) ParentNode() Container { return c.parent }

// NextSibling returns the node following this one in its parent.
func (c *nodeCore) NextSibling() Node {
	if c.parent == nil {
		return nil
	}
	siblings := c.parent.core().children
	i := indexOf(siblings, c.self)
	if i < 0 || i+1 >= len(siblings) {
		return nil
	}
	return siblings[i+1]
}

// PreviousSibling returns the node preceding this one in its parent.
func (c *nodeCore) PreviousSibling() Node {
	if c.parent == nil {
		return nil
	}
	siblings := c.parent.core().children
	i := indexOf(siblings, c.self)
	if i <= 0 {
		return nil
	}
	return siblings[i-1]
}

// IsConnected reports whether the node is attached under the document root.
func (c *nodeCore) IsConnected() bool {
	var n Node = c.self
	for n.ParentNode() != nil {
		n = n.ParentNode()
	}
	return n == Node(c.doc.root)
}

// TextContent concatenates descendant text. Comments contribute nothing
// when they are descendants.
func (c *nodeCore) TextContent() string {
	var b strings.Builder
	for _, child := range c.children {
		switch n := child.(type) {
		case *Text:
			b.WriteString(n.data)
		case *Comment:
		default:
			b.WriteString(child.TextContent())
		}
	}
	return b.String()
}

// Remove detaches the node from its parent.
func (c *nodeCore) Remove() {
	if c.parent != nil {
		_ = c.parent.RemoveChild(c.self)
	}
}

// ReplaceWith puts n at this node's position and detaches this node.
// A detached node is left as is.
func (c *nodeCore) ReplaceWith(n Node) error {
	parent := c.parent
	if parent == nil || n == c.self {
		return nil
	}
	if err := parent.InsertBefore(n, c.self); err != nil {
		return err
	}
	return parent.RemoveChild(c.self)
}

// ChildNodes returns a copy of the child list.
func (c *nodeCore) childNodes() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

func (c *nodeCore) firstChild() Node {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[0]
}

func (c *nodeCore) lastChild() Node {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}

// insertBefore implements Container.InsertBefore for element and fragment.
// A nil ref appends. An attached n is detached from its old parent first,
// which is recorded as a removal there. Fragments move their children.
func (c *nodeCore) insertBefore(n, ref Node) error {
	if n == nil {
		return nil
	}
	if n.OwnerDocument() != c.doc {
		return ErrWrongDocument
	}
	if ref != nil && ref.ParentNode() != c.self {
		return ErrNotFound
	}
	if n == ref {
		return nil
	}
	if Contains(n, c.self) {
		return ErrHierarchy
	}

	if frag, ok := n.(*Fragment); ok {
		moved := frag.core().childNodes()
		if len(moved) == 0 {
			return nil
		}
		frag.core().children = nil
		for _, m := range moved {
			m.core().parent = nil
		}
		c.doc.record(frag, nil, moved)
		c.insertAt(moved, ref)
		return nil
	}

	if old := n.ParentNode(); old != nil {
		oc := old.core()
		oc.children = removeNode(oc.children, n)
		n.core().parent = nil
		c.doc.record(old, nil, []Node{n})
	}
	c.insertAt([]Node{n}, ref)
	return nil
}

func (c *nodeCore) insertAt(nodes []Node, ref Node) {
	at := len(c.children)
	if ref != nil {
		at = indexOf(c.children, ref)
	}
	next := make([]Node, 0, len(c.children)+len(nodes))
	next = append(next, c.children[:at]...)
	next = append(next, nodes...)
	next = append(next, c.children[at:]...)
	c.children = next
	for _, n := range nodes {
		n.core().parent = c.self.(Container)
	}
	c.doc.record(c.self, nodes, nil)
}

func (c *nodeCore) removeChild(n Node) error {
	if n == nil || n.ParentNode() != c.self {
		return ErrNotFound
	}
	c.children = removeNode(c.children, n)
	n.core().parent = nil
	c.doc.record(c.self, nil, []Node{n})
	return nil
}

func (c *nodeCore) append(nodes []Node) error {
	for _, n := range nodes {
		if err := c.insertBefore(n, nil); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n Node) bool {
	for n != nil {
		if n == root {
			return true
		}
		p := n.ParentNode()
		if p == nil {
			return false
		}
		n = p
	}
	return false
}

// Walk calls fn for n and every descendant in document order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, child := range n.core().children {
		Walk(child, fn)
	}
}

func indexOf(nodes []Node, n Node) int {
	for i, x := range nodes {
		if x == n {
			return i
		}
	}
	return -1
}

func removeNode(nodes []Node, n Node) []Node {
	i := indexOf(nodes, n)
	if i < 0 {
		return nodes
	}
	return append(nodes[:i], nodes[i+1:]...)
}
