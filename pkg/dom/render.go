package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// RenderOptions configures HTML serialization.
type RenderOptions struct {
	// Comments includes comment markers (region sentinels) in the output.
	Comments bool
}

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// OuterHTML serializes n without comments.
func OuterHTML(n Node) string {
	var buf bytes.Buffer
	_ = RenderHTML(&buf, n, RenderOptions{})
	return buf.String()
}

// RenderHTML writes n and its descendants as HTML.
func RenderHTML(w io.Writer, n Node, opts RenderOptions) error {
	switch node := n.(type) {
	case *Element:
		return renderElement(w, node, opts)
	case *Text:
		_, err := io.WriteString(w, escapeHTML(node.data))
		return err
	case *Comment:
		if !opts.Comments {
			return nil
		}
		_, err := fmt.Fprintf(w, "<!--%s-->", strings.ReplaceAll(node.data, "--", "- -"))
		return err
	case *Fragment:
		for _, child := range node.children {
			if err := RenderHTML(w, child, opts); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("dom: unknown node kind: %v", n.Kind())
	}
}

func renderElement(w io.Writer, e *Element, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "<%s", e.tag); err != nil {
		return err
	}
	for _, a := range e.attrs {
		if a.Value == "" {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if e.style.Len() > 0 {
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeAttr(e.style.CSSText())); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidElements[e.tag] {
		return nil
	}
	for _, child := range e.children {
		if err := RenderHTML(w, child, opts); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", e.tag)
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Whitespace that could break attribute parsing is escaped as well.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// Describe returns a short label for n, e.g. "<li#12>" or "#text(12)".
func Describe(n Node) string {
	switch node := n.(type) {
	case *Element:
		return fmt.Sprintf("<%s#%d>", node.tag, node.id)
	case *Text:
		return fmt.Sprintf("#text(%d %q)", node.id, node.data)
	case *Comment:
		return fmt.Sprintf("#comment(%d %s)", node.id, node.data)
	case *Fragment:
		return fmt.Sprintf("#fragment(%d)", node.id)
	case nil:
		return "<nil>"
	default:
		return n.Kind().String()
	}
}
