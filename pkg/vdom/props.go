package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// diffProps patches the host node h from prev to next props. Additions and
// updates run first, removals second, each in name order. Unchanged values
// produce no host calls.
func (r *reconciler) diffProps(h Handle, prev, next Props) error {
	for _, name := range sortedKeys(next) {
		nextVal := next[name]
		prevVal, had := prev[name]
		if had && propsEqual(prevVal, nextVal) {
			continue
		}
		if err := r.patchProperty(h, name, prevVal, nextVal); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(prev) {
		if _, ok := next[name]; ok {
			continue
		}
		if err := r.patchProperty(h, name, prev[name], nil); err != nil {
			return err
		}
	}
	return nil
}

// patchProperty applies a single prop change to h. A nil next means the
// prop is gone and must be actively removed from the host node.
func (r *reconciler) patchProperty(h Handle, name string, prev, next any) error {
	switch {
	case name == "key":
		return nil
	case name == "style":
		return r.patchStyle(h, toStyle(prev), toStyle(next))
	case isEventProp(name):
		return r.patchListener(h, eventName(name), toListener(prev), toListener(next))
	default:
		// "class" takes this path too: it is a plain attribute with no
		// listener or style semantics.
		return r.patchAttribute(h, name, next)
	}
}

func (r *reconciler) patchAttribute(h Handle, name string, next any) error {
	r.stats.PropWrites++
	r.stats.HostOps++
	value, present := attrValue(next)
	if !present {
		if err := r.host.RemoveAttribute(h, name); err != nil {
			return hostError(OpRemoveAttr, err)
		}
		return nil
	}
	if err := r.host.SetAttribute(h, name, value); err != nil {
		return hostError(OpSetAttribute, err)
	}
	return nil
}

// patchStyle sets changed style properties and clears removed ones.
func (r *reconciler) patchStyle(h Handle, prev, next Style) error {
	names := make([]string, 0, len(next))
	for name := range next {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if old, ok := prev[name]; ok && old == next[name] {
			continue
		}
		if err := r.setStyle(h, name, next[name]); err != nil {
			return err
		}
	}

	names = names[:0]
	for name := range prev {
		if _, ok := next[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.setStyle(h, name, ""); err != nil {
			return err
		}
	}
	return nil
}

func (r *reconciler) setStyle(h Handle, name, value string) error {
	r.stats.PropWrites++
	r.stats.HostOps++
	if err := r.host.SetStyle(h, name, value); err != nil {
		return hostError(OpSetStyle, err)
	}
	return nil
}

// patchListener detaches prev and then attaches next.
func (r *reconciler) patchListener(h Handle, event string, prev, next *Listener) error {
	if prev != nil {
		r.stats.PropWrites++
		r.stats.HostOps++
		if err := r.host.RemoveEventListener(h, event, prev); err != nil {
			return hostError(OpRemoveListener, err)
		}
	}
	if next != nil {
		r.stats.PropWrites++
		r.stats.HostOps++
		if err := r.host.AddEventListener(h, event, next); err != nil {
			return hostError(OpAddListener, err)
		}
	}
	return nil
}

// attrValue converts a prop value to its attribute string. nil and false
// mean the attribute is absent; true is the empty boolean attribute.
func attrValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case bool:
		return "", val
	default:
		return propToString(v), true
	}
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case *Listener:
		bv, ok := b.(*Listener)
		return ok && av == bv
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types (style maps, slices)
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to a string for the host.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
