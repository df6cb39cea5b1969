package dom

import (
	"strings"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// HTML serializes n and its subtree. Attributes and style properties are
// written in name order so output is stable across runs.
func (n *Node) HTML() string {
	var b strings.Builder
	n.writeHTML(&b)
	return b.String()
}

// InnerHTML serializes n's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		c.writeHTML(&b)
	}
	return b.String()
}

// HTML serializes the document's children (the root tag is omitted).
func (d *Document) HTML() string {
	return d.root.InnerHTML()
}

func (n *Node) writeHTML(b *strings.Builder) {
	if n.Type == TextNode {
		b.WriteString(escapeHTML(n.text))
		return
	}

	b.WriteString("<")
	b.WriteString(n.Tag)
	for _, name := range sortedNames(n.attrs) {
		b.WriteString(" ")
		b.WriteString(name)
		if v := n.attrs[name]; v != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v))
			b.WriteString(`"`)
		}
	}
	if len(n.style) > 0 {
		b.WriteString(` style="`)
		b.WriteString(escapeAttr(vdom.Style(n.style).String()))
		b.WriteString(`"`)
	}
	b.WriteString(">")

	if vdom.IsVoidElement(n.Tag) {
		return
	}
	for _, c := range n.children {
		c.writeHTML(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
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

// escapeAttr escapes attribute values. In addition to the content entities
// it escapes whitespace that could break attribute parsing.
func escapeAttr(s string) string {
	s = escapeHTML(s)
	if !strings.ContainsAny(s, "\n\r\t") {
		return s
	}
	r := strings.NewReplacer("\n", "&#10;", "\r", "&#13;", "\t", "&#9;")
	return r.Replace(s)
}
