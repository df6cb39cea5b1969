package scenario

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/hostlog"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

const todo = `
name: todo
root: main
steps:
  - name: initial
    tree:
      tag: ul
      attrs: {class: todos}
      children:
        - {tag: li, key: a, children: [Buy milk]}
        - {tag: li, key: b, children: [Walk dog]}
  - name: reorder
    tree:
      tag: ul
      attrs: {class: todos}
      style: {color: red}
      on: {click: select}
      children:
        - {tag: li, key: b, children: [Walk dog]}
        - {tag: li, key: a, children: [Buy milk]}
  - name: same
    tree:
      tag: ul
      attrs: {class: todos}
      style: {color: red}
      on: {click: select}
      children:
        - {tag: li, key: b, children: [Walk dog]}
        - {tag: li, key: a, children: [Buy milk]}
  - name: clear
    unmount: true
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(todo))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if s.Name != "todo" || s.Root != "main" || s.Len() != 4 {
		t.Errorf("got name=%q root=%q steps=%d", s.Name, s.Root, s.Len())
	}

	tree := s.Steps[0].Tree
	if tree.Tag != "ul" || len(tree.Children) != 2 {
		t.Fatalf("root = %+v", tree)
	}
	li := tree.Children[0]
	if li.Key != "a" || len(li.Children) != 1 || !li.Children[0].IsText() || li.Children[0].Text != "Buy milk" {
		t.Errorf("first item = %+v", li)
	}
	if !s.Steps[3].Unmount || s.Steps[3].Tree != nil {
		t.Errorf("clear step = %+v", s.Steps[3])
	}
}

func TestRenderSteps(t *testing.T) {
	s, err := Parse([]byte(todo))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	doc := dom.New(s.Root)
	rec := hostlog.New(doc)
	c := vdom.NewContainer(rec, doc.Root(), vdom.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	want := []struct {
		html string
		ops  int
	}{
		{`<ul class="todos"><li>Buy milk</li><li>Walk dog</li></ul>`, 11},
		{`<ul class="todos" style="color: red;"><li>Walk dog</li><li>Buy milk</li></ul>`, 3},
		{`<ul class="todos" style="color: red;"><li>Walk dog</li><li>Buy milk</li></ul>`, 0},
		{``, 1},
	}
	for i := 0; i < s.Len(); i++ {
		rec.Reset()
		if err := c.Render(s.Tree(i)); err != nil {
			t.Fatalf("step %s: %v", s.Steps[i].Name, err)
		}
		if got := doc.HTML(); got != want[i].html {
			t.Errorf("step %s HTML =\n%s\nwant\n%s", s.Steps[i].Name, got, want[i].html)
		}
		if got := rec.Len(); got != want[i].ops {
			t.Errorf("step %s: %d host ops, want %d: %v", s.Steps[i].Name, got, want[i].ops, rec.Strings())
		}
	}
}

func TestHandlers(t *testing.T) {
	s, err := Parse([]byte(todo))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	var got []string
	s.OnEvent = func(handler string, e vdom.Event) {
		got = append(got, handler+":"+e.Type)
	}

	doc := dom.New(s.Root)
	c := vdom.NewContainer(doc, doc.Root())
	for i := 0; i < 2; i++ {
		if err := c.Render(s.Tree(i)); err != nil {
			t.Fatal(err)
		}
	}

	ul := doc.Root().FirstChild()
	if n := doc.Dispatch(ul, "click", nil); n != 1 {
		t.Fatalf("Dispatch reached %d listeners, want 1", n)
	}
	if diff := cmp.Diff([]string{"select:click"}, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if s.Handler("select") != s.Handler("select") {
		t.Error("Handler returned different listeners for one name")
	}
	if diff := cmp.Diff([]string{"select"}, s.Handlers()); diff != "" {
		t.Errorf("Handlers() mismatch (-want +got):\n%s", diff)
	}
}

func TestTreesAreFresh(t *testing.T) {
	s, err := Parse([]byte(todo))
	if err != nil {
		t.Fatal(err)
	}
	if s.Tree(0) == s.Tree(0) {
		t.Error("Tree returned the same instance twice")
	}
	if s.Tree(3) != nil {
		t.Error("unmount step built a tree")
	}
}

func TestScalarChildren(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - tree:
      tag: p
      attrs: {title: note, hidden: false, tabindex: 3}
      children: [count, 42, {text: "!"}]
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if s.Root != DefaultRoot || s.Steps[0].Name != "step-1" {
		t.Errorf("defaults: root=%q step=%q", s.Root, s.Steps[0].Name)
	}

	doc := dom.New(s.Root)
	if err := vdom.NewContainer(doc, doc.Root()).Render(s.Tree(0)); err != nil {
		t.Fatal(err)
	}
	want := `<p tabindex="3" title="note">count42!</p>`
	if got := doc.HTML(); got != want {
		t.Errorf("HTML() = %s, want %s", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "steps: [\n"},
		{"no steps", "name: empty\n"},
		{"empty step", "steps:\n  - \n"},
		{"step without tree", "steps:\n  - name: a\n"},
		{"tree and unmount", "steps:\n  - {unmount: true, tree: {tag: p}}\n"},
		{"missing tag", "steps:\n  - tree: {attrs: {id: x}}\n"},
		{"unknown field", "steps:\n  - tree: {tag: p, kids: []}\n"},
		{"text with tag", "steps:\n  - tree: {tag: p, text: hi}\n"},
		{"key in attrs", "steps:\n  - tree: {tag: p, attrs: {key: k}}\n"},
		{"style in attrs", "steps:\n  - tree: {tag: p, attrs: {style: 'color: red'}}\n"},
		{"event in attrs", "steps:\n  - tree: {tag: p, attrs: {onclick: go}}\n"},
		{"sequence node", "steps:\n  - tree: [p]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if code := errors.Code(err); code != "E301" {
				t.Errorf("error code = %q, want E301 (%v)", code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.yml")
	if err := os.WriteFile(path, []byte("steps:\n  - tree: {tag: span, children: [0]}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.Name != "counter" {
		t.Errorf("Name = %q, want counter", s.Name)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); errors.Code(err) != "E301" {
		t.Errorf("Load(missing) = %v, want E301", err)
	}
}
