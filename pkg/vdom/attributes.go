package vdom

import (
	"fmt"
	"sort"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Disabled sets or clears the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Selected sets or clears the selected attribute.
func Selected(selected bool) Attr { return attr("selected", selected) }

// Checked sets or clears the checked attribute.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Hidden sets or clears the hidden attribute.
func Hidden(hidden bool) Attr { return attr("hidden", hidden) }

// Style is the style sub-mapping of an element. Style props are diffed
// property by property rather than replaced as a whole.
type Style map[string]string

// StyleAttr sets the style sub-mapping.
func StyleAttr(style Style) Attr { return attr("style", style) }

// Styles builds a Style from alternating name/value pairs.
// A trailing name without a value is ignored.
func Styles(pairs ...string) Attr {
	s := make(Style, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		s[pairs[i]] = pairs[i+1]
	}
	return StyleAttr(s)
}

// toStyle converts a style prop value to a Style. Strings are parsed as CSS
// declarations ("color: red; font-size: 12px"). Unsupported values are empty.
func toStyle(v any) Style {
	switch s := v.(type) {
	case Style:
		return s
	case map[string]string:
		return Style(s)
	case map[string]any:
		out := make(Style, len(s))
		for k, val := range s {
			out[k] = propToString(val)
		}
		return out
	case string:
		return parseStyle(s)
	default:
		return nil
	}
}

// parseStyle parses CSS declarations into a Style.
func parseStyle(css string) Style {
	out := make(Style)
	for _, decl := range strings.Split(css, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = strings.TrimSpace(value)
	}
	return out
}

// String renders the style as sorted CSS declarations.
func (s Style) String() string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s[name])
		b.WriteString(";")
	}
	return b.String()
}
