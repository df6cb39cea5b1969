package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: Attr, []Attr, EventHandler, Props, or any child value
// accepted by Normalize.
func createElement(tag string, args []any) *VNode {
	props := make(Props)
	var children []any

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
		case Attr:
			if !v.IsEmpty() {
				props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					props[a.Key] = a.Value
				}
			}
		case EventHandler:
			props[v.Event] = v.Handler
		case Props:
			for k, val := range v {
				props[k] = val
			}
		default:
			children = append(children, v)
		}
	}

	return CreateNode(tag, props, children)
}

// El creates an element with a custom tag name.
func El(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

// Sectioning and text content

func Div(args ...any) *VNode     { return createElement("div", args) }
func Span(args ...any) *VNode    { return createElement("span", args) }
func P(args ...any) *VNode       { return createElement("p", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }
func Pre(args ...any) *VNode     { return createElement("pre", args) }
func Hr(args ...any) *VNode      { return createElement("hr", args) }
func Br(args ...any) *VNode      { return createElement("br", args) }

// Lists

func Ul(args ...any) *VNode { return createElement("ul", args) }
func Ol(args ...any) *VNode { return createElement("ol", args) }
func Li(args ...any) *VNode { return createElement("li", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Img(args ...any) *VNode    { return createElement("img", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func OptionEl(args ...any) *VNode { return createElement("option", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }

// Tables

func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }
