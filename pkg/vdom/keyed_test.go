package vdom_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reconcile/pkg/dom"
	. "github.com/vango-dev/reconcile/pkg/vdom"
)

// list builds a <ul> whose items are keyed and labelled by the letters of
// keys, e.g. list("CAB").
func list(keys string) *VNode {
	return Ul(Range([]rune(keys), func(_ int, k rune) *VNode {
		return Li(Key(string(k)), string(k))
	}))
}

func listHTML(keys string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, k := range keys {
		b.WriteString("<li>" + string(k) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// itemHandle returns the host node of the item keyed k.
func itemHandle(t *testing.T, root *VNode, k string) Handle {
	t.Helper()
	for _, c := range root.Children {
		if c.Key == k {
			return c.Handle()
		}
	}
	t.Fatalf("no item keyed %q", k)
	return nil
}

func TestKeyedReorder(t *testing.T) {
	f := newFixture()
	f.render(t, list("ABC"))
	prev := f.c.Tree()
	a := itemHandle(t, prev, "A")
	b := itemHandle(t, prev, "B")
	c := itemHandle(t, prev, "C")

	f.render(t, list("CAB"))

	ops := f.rec.Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1: %v", len(ops), f.rec.Strings())
	}
	move := ops[0]
	if move.Code != OpInsertBefore || move.Child != c || move.Ref != a {
		t.Errorf("move = %+v, want C inserted before A", move)
	}
	if got := f.doc.HTML(); got != listHTML("CAB") {
		t.Errorf("HTML() = %s", got)
	}
	next := f.c.Tree()
	if itemHandle(t, next, "A") != a || itemHandle(t, next, "B") != b {
		t.Error("A and B were not patched in place")
	}
	if st := f.c.Stats(); st.Moved != 1 || st.Patched != 7 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestKeyedInsertRemove(t *testing.T) {
	f := newFixture()
	f.render(t, list("AB"))
	a := itemHandle(t, f.c.Tree(), "A")
	b := itemHandle(t, f.c.Tree(), "B")

	f.render(t, list("BC"))

	ops := f.rec.Ops()
	if ops[0].Code != OpRemoveChild || ops[0].Child != a {
		t.Fatalf("first op = %+v, want removal of A", ops[0])
	}
	for _, op := range ops[1:] {
		if op.Target == a || op.Child == a || op.Ref == a {
			t.Errorf("op %v references A after its removal", op)
		}
	}
	if itemHandle(t, f.c.Tree(), "B") != b {
		t.Error("B was not patched in place")
	}
	if got := f.doc.HTML(); got != listHTML("BC") {
		t.Errorf("HTML() = %s", got)
	}
	if n := f.rec.Count(OpInsertBefore); n != 0 {
		t.Errorf("InsertBefore count = %d, want 0 (C appended after B)", n)
	}
}

func TestKeyedStrategies(t *testing.T) {
	tests := []struct {
		prev, next string
	}{
		{"ABC", "CAB"},
		{"ABC", "BCA"},
		{"ABCDE", "EDCBA"},
		{"ABCD", "DABC"},
		{"AB", "BC"},
		{"", "ABC"},
		{"ABC", "XABCY"},
		{"ABCDEF", "AFCBE"},
		{"ABCD", "BD"},
		{"AB", "CD"},
		{"ABCDEFG", "GBCDEFA"},
	}
	strategies := []Strategy{StrategyLIS, StrategyForward}

	for _, tt := range tests {
		for _, s := range strategies {
			t.Run(tt.prev+"->"+tt.next+"/"+s.String(), func(t *testing.T) {
				f := newFixture(WithStrategy(s))
				f.render(t, list(tt.prev))
				f.render(t, list(tt.next))
				if got := f.doc.HTML(); got != listHTML(tt.next) {
					t.Errorf("HTML() = %s, want %s", got, listHTML(tt.next))
				}
			})
		}
	}
}

func TestLISMovesFewerNodes(t *testing.T) {
	moves := func(s Strategy) int {
		f := newFixture(WithStrategy(s))
		f.render(t, list("ABCDE"))
		f.render(t, list("EABCD"))
		return f.c.Stats().Moved
	}
	if lis, fwd := moves(StrategyLIS), moves(StrategyForward); lis != 1 || fwd != 4 {
		t.Errorf("moves: lis=%d forward=%d, want 1 and 4", lis, fwd)
	}
}

func TestUnkeyedMatchByIndex(t *testing.T) {
	f := newFixture()
	f.render(t, Div(P("a"), P("b")))
	first := f.c.Tree().Children[0].Handle()

	f.render(t, Div(P("a"), P("b"), P("c")))
	if f.c.Tree().Children[0].Handle() != first {
		t.Error("unkeyed node at the same index was not reused")
	}
	want := []OpCode{OpCreateElement, OpCreateText, OpAppendChild, OpAppendChild}
	if diff := cmp.Diff(want, f.rec.Codes()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestMixedKeyedAndText(t *testing.T) {
	for _, s := range []Strategy{StrategyLIS, StrategyForward} {
		t.Run(s.String(), func(t *testing.T) {
			f := newFixture(WithStrategy(s))
			f.render(t, Div(Span(Key("a"), "A"), "-", Span(Key("b"), "B")))
			f.render(t, Div(Span(Key("b"), "B"), "-", Span(Key("a"), "A")))
			want := "<div><span>B</span>-<span>A</span></div>"
			if got := f.doc.HTML(); got != want {
				t.Errorf("HTML() = %s, want %s", got, want)
			}
		})
	}
}

func TestKeyedPatchesContent(t *testing.T) {
	f := newFixture()
	f.render(t, Ul(Li(Key(1), Class("x"), "one"), Li(Key(2), "two")))
	f.render(t, Ul(Li(Key(2), "TWO"), Li(Key(1), Class("y"), "one")))

	if got := f.doc.HTML(); got != `<ul><li>TWO</li><li class="y">one</li></ul>` {
		t.Errorf("HTML() = %s", got)
	}
}

func TestKeyedTagChange(t *testing.T) {
	f := newFixture()
	f.render(t, Div(P(Key("a"), "A"), P(Key("b"), "B"), P(Key("c"), "C")))
	f.render(t, Div(P(Key("c"), "C"), Span(Key("b"), "B"), P(Key("a"), "A")))
	want := "<div><p>C</p><span>B</span><p>A</p></div>"
	if got := f.doc.HTML(); got != want {
		t.Errorf("HTML() = %s, want %s", got, want)
	}
}

func TestKeyedListDocument(t *testing.T) {
	// The document and the virtual tree must agree on which host node
	// belongs to which key after several rounds.
	f := newFixture()
	rounds := []string{"ABCD", "DCBA", "BD", "XBYD", "DYBX", ""}
	for _, keys := range rounds {
		f.render(t, list(keys))
		ul := f.c.Tree().Handle().(*dom.Node)
		kids := ul.Children()
		if len(kids) != len(keys) {
			t.Fatalf("round %q: %d host children", keys, len(kids))
		}
		for i, k := range keys {
			if itemHandle(t, f.c.Tree(), string(k)) != Handle(kids[i]) {
				t.Errorf("round %q: item %c bound to the wrong host node", keys, k)
			}
		}
	}
}
