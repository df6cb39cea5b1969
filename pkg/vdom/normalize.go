package vdom

import (
	"fmt"
	"reflect"
	"strconv"
)

// CreateNode builds a normalized node.
//
// A non-empty tag yields an element whose children are normalized from raw
// (see Normalize) and whose Key is copied out of props["key"]. An empty tag
// is not a tag identifier and yields a text node carrying the string form
// of raw.
func CreateNode(tag string, props Props, children any) *VNode {
	if tag == "" {
		return Text(textOf(children))
	}
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: normalizeProps(props),
	}
	if k, ok := node.Props["key"]; ok && k != nil {
		node.Key = keyString(k)
	}
	node.setChildren(Normalize(children))
	return node
}

// Normalize converts loosely-typed children into nodes.
//
// Element and text nodes are kept. Absent values (nil, typed nil nodes,
// false and "") are dropped rather than stringified. Slices and arrays are
// flattened element-wise. Every other value becomes a text node holding its
// string conversion.
func Normalize(raw any) []*VNode {
	var out []*VNode
	appendNormalized(&out, raw)
	return out
}

func appendNormalized(out *[]*VNode, raw any) {
	switch v := raw.(type) {
	case nil:
	case *VNode:
		if v != nil {
			*out = append(*out, v)
		}
	case []*VNode:
		for _, child := range v {
			if child != nil {
				*out = append(*out, child)
			}
		}
	case []any:
		for _, child := range v {
			appendNormalized(out, child)
		}
	case []string:
		for _, child := range v {
			appendNormalized(out, child)
		}
	case string:
		if v != "" {
			*out = append(*out, Text(v))
		}
	case bool:
		if v {
			*out = append(*out, Text("true"))
		}
	case fmt.Stringer:
		*out = append(*out, Text(v.String()))
	default:
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				appendNormalized(out, rv.Index(i).Interface())
			}
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return
			}
			*out = append(*out, Text(fmt.Sprint(raw)))
		default:
			*out = append(*out, Text(propToString(raw)))
		}
	}
}

// textOf returns the concatenated text of raw's normalized form.
func textOf(raw any) string {
	var s string
	for _, n := range Normalize(raw) {
		if n.Kind == KindText {
			s += n.Text
		}
	}
	return s
}

// normalizeProps copies props, wrapping event handler values in Listeners so
// that every listener has a stable identity for later detach.
func normalizeProps(props Props) Props {
	out := make(Props, len(props))
	for k, v := range props {
		if isEventProp(k) {
			if l := toListener(v); l != nil {
				out[k] = l
			}
			continue
		}
		out[k] = v
	}
	return out
}

// keyString converts a key prop to its string form.
func keyString(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", k)
	}
}

// prepare validates a node before mount or patch and wraps any raw event
// handlers that bypassed CreateNode.
func prepare(v *VNode) error {
	if v.Kind == KindText {
		return nil
	}
	if cardinalityOf(len(v.Children)) != v.Cardinality {
		return errNotNormalized(v)
	}
	for k, val := range v.Props {
		if !isEventProp(k) {
			continue
		}
		if _, ok := val.(*Listener); ok {
			continue
		}
		if l := toListener(val); l != nil {
			v.Props[k] = l
		} else {
			delete(v.Props, k)
		}
	}
	return nil
}
