package vdom

import (
	"testing"
	"time"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func texts(nodes []*VNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		if n.Kind == KindText {
			out[i] = n.Text
		} else {
			out[i] = "<" + n.Tag + ">"
		}
	}
	return out
}

func TestNormalize(t *testing.T) {
	var nilNode *VNode
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"nil", nil, nil},
		{"typed nil node", nilNode, nil},
		{"false", false, nil},
		{"empty string", "", nil},
		{"true", true, []string{"true"}},
		{"zero", 0, []string{"0"}},
		{"float", 1.5, []string{"1.5"}},
		{"stringer", label("x"), []string{"label:x"}},
		{"duration", 2 * time.Second, []string{"2s"}},
		{"element", Div(), []string{"<div>"}},
		{"mixed slice", []any{"a", nil, 1, Span(), false}, []string{"a", "1", "<span>"}},
		{"nested slices", []any{"a", []any{"b", []string{"c", "d"}}}, []string{"a", "b", "c", "d"}},
		{"int slice", []int{1, 2}, []string{"1", "2"}},
		{"node slice with nil", []*VNode{Text("a"), nil, Text("b")}, []string{"a", "b"}},
		{"empty slice", []any{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Normalize(tt.raw))
			if len(got) != len(tt.want) {
				t.Fatalf("Normalize(%v) = %q, want %q", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Normalize(%v)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConditionalChildren(t *testing.T) {
	tests := []struct {
		name string
		cond bool
		want []string
	}{
		{"shown", true, []string{"a", "<em>", "b"}},
		{"dropped", false, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := P("a", If(tt.cond, Em("x")), "b")
			got := texts(n.Children)
			if len(got) != len(tt.want) {
				t.Fatalf("children = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("children[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}

	if n := Div(If(false, Span())); n.Cardinality != CardinalityNone {
		t.Errorf("Cardinality = %s, want none", n.Cardinality)
	}
	evens := Range([]int{1, 2, 3, 4}, func(_ int, v int) *VNode {
		return If(v%2 == 0, Text(propToString(v)))
	})
	if got := texts(evens); len(got) != 2 || got[0] != "2" || got[1] != "4" {
		t.Errorf("Range() = %q, want [2 4]", got)
	}
}

func TestCreateNodeCardinality(t *testing.T) {
	tests := []struct {
		name     string
		children any
		want     Cardinality
		count    int
	}{
		{"absent", nil, CardinalityNone, 0},
		{"empty collection", []*VNode{}, CardinalityNone, 0},
		{"single value", "hi", CardinalitySingle, 1},
		{"single element collection", []*VNode{Span()}, CardinalitySingle, 1},
		{"multiple", []any{"a", Span()}, CardinalityMultiple, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := CreateNode("div", nil, tt.children)
			if n.Cardinality != tt.want {
				t.Errorf("Cardinality = %s, want %s", n.Cardinality, tt.want)
			}
			if len(n.Children) != tt.count {
				t.Errorf("len(Children) = %d, want %d", len(n.Children), tt.count)
			}
			if tt.want == CardinalitySingle && n.Child() == nil {
				t.Error("Child() = nil for single cardinality")
			}
		})
	}
}

func TestCreateNodeTextFromEmptyTag(t *testing.T) {
	n := CreateNode("", nil, 42)
	if n.Kind != KindText || n.Text != "42" {
		t.Errorf("CreateNode(\"\", nil, 42) = %v, want text 42", n)
	}
}

func TestCreateNodeKeyAndListeners(t *testing.T) {
	clicked := false
	n := CreateNode("li", Props{
		"key":     7,
		"onClick": func() { clicked = true },
		"onBogus": "not a handler",
		"title":   "t",
	}, nil)

	if n.Key != "7" {
		t.Errorf("Key = %q, want %q", n.Key, "7")
	}
	l, ok := n.Props["onClick"].(*Listener)
	if !ok {
		t.Fatalf("onClick = %T, want *Listener", n.Props["onClick"])
	}
	l.Handle(Event{Type: "click"})
	if !clicked {
		t.Error("listener did not call handler")
	}
	if _, ok := n.Props["onBogus"]; ok {
		t.Error("invalid handler was kept")
	}
	if !n.IsInteractive() {
		t.Error("IsInteractive() = false")
	}
}

func TestElementHelpers(t *testing.T) {
	l := NewListener(func(Event) {})
	n := Button(
		ID("go"),
		Class("btn", "primary"),
		Disabled(true),
		Key("k"),
		OnClick(l),
		Styles("color", "red"),
		"Go",
	)
	if n.Tag != "button" || n.Key != "k" {
		t.Errorf("Tag=%q Key=%q", n.Tag, n.Key)
	}
	if n.Props["class"] != "btn primary" {
		t.Errorf("class = %v", n.Props["class"])
	}
	if n.Props["onclick"] != l {
		t.Error("listener identity not preserved")
	}
	if n.Cardinality != CardinalitySingle || n.Child().Text != "Go" {
		t.Errorf("children = %v", n.Children)
	}
}

func TestIsEventProp(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"onclick", true},
		{"onClick", true},
		{"ONCLICK", true},
		{"on", false},
		{"title", false},
		{"class", false},
	}
	for _, tt := range tests {
		if got := isEventProp(tt.key); got != tt.want {
			t.Errorf("isEventProp(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
	if got := eventName("onClick"); got != "click" {
		t.Errorf("eventName = %q", got)
	}
}

func TestPropsEqual(t *testing.T) {
	l := NewListener(nil)
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"strings", "a", "a", true},
		{"string vs int", "1", 1, false},
		{"same listener", l, l, true},
		{"different listeners", l, NewListener(nil), false},
		{"styles", Style{"color": "red"}, Style{"color": "red"}, true},
		{"styles differ", Style{"color": "red"}, Style{"color": "blue"}, false},
		{"nil", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := propsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("propsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestToStyle(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"css string", "color: red; margin:0", "color: red; margin: 0;"},
		{"map", map[string]any{"color": "red"}, "color: red;"},
		{"style", Style{"b": "2", "a": "1"}, "a: 1; b: 2;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toStyle(tt.in).String(); got != tt.want {
				t.Errorf("toStyle(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
