package dom

// Document creates nodes and owns the mutation-observer queue.
type Document struct {
	nextID    uint64
	root      *Element
	body      *Element
	observers []*MutationObserver
}

// NewDocument creates a document with an <html> root holding a <body>.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.CreateElement("html")
	d.body = d.CreateElement("body")
	d.root.children = []Node{d.body}
	d.body.parent = d.root
	return d
}

// DocumentElement returns the <html> root.
func (d *Document) DocumentElement() *Element { return d.root }

// Body returns the <body> element.
func (d *Document) Body() *Element { return d.body }

func (d *Document) init(c *nodeCore, self Node) {
	d.nextID++
	c.id = d.nextID
	c.doc = d
	c.self = self
}

// CreateElement creates a detached element with the given tag name.
func (d *Document) CreateElement(tag string) *Element {
	e := &Element{tag: tag, style: newStyle()}
	d.init(&e.nodeCore, e)
	return e
}

// CreateTextNode creates a detached text leaf.
func (d *Document) CreateTextNode(data string) *Text {
	t := &Text{data: data}
	d.init(&t.nodeCore, t)
	return t
}

// CreateComment creates a detached comment marker.
func (d *Document) CreateComment(data string) *Comment {
	c := &Comment{data: data}
	d.init(&c.nodeCore, c)
	return c
}

// CreateDocumentFragment creates an empty fragment.
func (d *Document) CreateDocumentFragment() *Fragment {
	f := &Fragment{}
	d.init(&f.nodeCore, f)
	return f
}

// record queues a child-list mutation for every observer watching target.
func (d *Document) record(target Node, added, removed []Node) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	for _, o := range d.observers {
		if o.watches(target) {
			o.queue = append(o.queue, MutationRecord{
				Target:       target,
				AddedNodes:   append([]Node(nil), added...),
				RemovedNodes: append([]Node(nil), removed...),
			})
		}
	}
}

// Flush delivers queued mutation records to their observers, repeating
// until callbacks stop producing new records. It is the document's
// notification checkpoint. It returns the number of records delivered.
func (d *Document) Flush() int {
	delivered := 0
	for {
		progressed := false
		for _, o := range append([]*MutationObserver(nil), d.observers...) {
			records := o.TakeRecords()
			if len(records) == 0 {
				continue
			}
			progressed = true
			delivered += len(records)
			o.callback(records, o)
		}
		if !progressed {
			return delivered
		}
	}
}
