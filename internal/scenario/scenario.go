package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// DefaultRoot is the host root tag used when a scenario names none.
const DefaultRoot = "body"

// Scenario is a parsed scenario document.
type Scenario struct {
	Name  string  `yaml:"name"`
	Root  string  `yaml:"root"`
	Steps []*Step `yaml:"steps"`

	// OnEvent, when set, receives every event delivered to a named handler.
	OnEvent func(handler string, e vdom.Event) `yaml:"-"`

	mu       sync.Mutex
	handlers map[string]*vdom.Listener
}

// Step is one render.
type Step struct {
	Name string `yaml:"name"`

	// Tree is rendered into the container. Nil only when Unmount is set.
	Tree *Node `yaml:"tree"`

	// Unmount renders nil, removing the tree.
	Unmount bool `yaml:"unmount"`
}

// Node describes one virtual node. Exactly one of Tag or Text is set.
type Node struct {
	Tag      string
	Key      string
	Text     string
	Attrs    map[string]any
	Style    map[string]string
	On       map[string]string
	Children []*Node
}

// rawNode mirrors the mapping form of Node.
type rawNode struct {
	Tag      string            `yaml:"tag"`
	Key      string            `yaml:"key"`
	Text     *string           `yaml:"text"`
	Attrs    map[string]any    `yaml:"attrs"`
	Style    map[string]string `yaml:"style"`
	On       map[string]string `yaml:"on"`
	Children []*Node           `yaml:"children"`
}

var nodeFields = map[string]bool{
	"tag": true, "key": true, "text": true, "attrs": true,
	"style": true, "on": true, "children": true,
}

// UnmarshalYAML decodes either a scalar (a text node) or a mapping.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		n.Text = value.Value
		return nil
	case yaml.MappingNode:
	default:
		return malformed(value.Line, "node must be a mapping or a scalar")
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		if k := value.Content[i].Value; !nodeFields[k] {
			return malformed(value.Content[i].Line, "unknown node field %q", k)
		}
	}

	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Text != nil {
		if raw.Tag != "" || len(raw.Children) > 0 || len(raw.Attrs) > 0 {
			return malformed(value.Line, "text node cannot have tag, attrs or children")
		}
		n.Text = *raw.Text
		return nil
	}
	if raw.Tag == "" {
		return malformed(value.Line, "element node needs a tag")
	}
	for name := range raw.Attrs {
		switch {
		case name == "key", name == "style":
			return malformed(value.Line, "use the %s field instead of attrs.%s", name, name)
		case strings.HasPrefix(name, "on"):
			return malformed(value.Line, "use the on field for event %q", name)
		}
	}

	n.Tag = raw.Tag
	n.Key = raw.Key
	n.Attrs = raw.Attrs
	n.Style = raw.Style
	n.On = raw.On
	n.Children = raw.Children
	return nil
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, errors.New("E301").WithDetail(err.Error()).Wrap(err)
	}
	if s.Root == "" {
		s.Root = DefaultRoot
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("E301").WithDetail("scenario has no steps")
	}
	for i, step := range s.Steps {
		if step == nil {
			return nil, errors.New("E301").WithDetailf("step %d is empty", i+1)
		}
		if step.Name == "" {
			step.Name = fmt.Sprintf("step-%d", i+1)
		}
		switch {
		case step.Tree == nil && !step.Unmount:
			return nil, errors.New("E301").
				WithDetailf("step %q has no tree", step.Name).
				WithSuggestion("Add a tree or set unmount: true.")
		case step.Tree != nil && step.Unmount:
			return nil, errors.New("E301").
				WithDetailf("step %q has both a tree and unmount", step.Name)
		}
	}
	return s, nil
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E301").WithDetail("Cannot read " + path).Wrap(err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s, nil
}

// Len returns the number of steps.
func (s *Scenario) Len() int {
	return len(s.Steps)
}

// Tree builds fresh virtual nodes for step i. It returns nil for an
// unmount step. Nodes are single-use, so every call allocates a new tree.
func (s *Scenario) Tree(i int) *vdom.VNode {
	step := s.Steps[i]
	if step.Unmount {
		return nil
	}
	return s.build(step.Tree)
}

func (s *Scenario) build(n *Node) *vdom.VNode {
	if n.IsText() {
		return vdom.Text(n.Text)
	}

	props := make(vdom.Props, len(n.Attrs)+len(n.On)+2)
	for name, v := range n.Attrs {
		props[name] = v
	}
	if n.Key != "" {
		props["key"] = n.Key
	}
	if len(n.Style) > 0 {
		props["style"] = vdom.Style(n.Style)
	}
	for event, handler := range n.On {
		props["on"+event] = s.Handler(handler)
	}

	children := make([]*vdom.VNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, s.build(c))
	}
	return vdom.CreateNode(n.Tag, props, children)
}

// Handler returns the listener registered under name, creating it on first
// use. The listener forwards events to OnEvent.
func (s *Scenario) Handler(name string) *vdom.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.handlers[name]; ok {
		return l
	}
	if s.handlers == nil {
		s.handlers = make(map[string]*vdom.Listener)
	}
	l := vdom.NewListener(func(e vdom.Event) {
		if s.OnEvent != nil {
			s.OnEvent(name, e)
		}
	})
	s.handlers[name] = l
	return l
}

// Handlers returns the names of the handlers created so far, sorted.
func (s *Scenario) Handlers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func malformed(line int, format string, args ...any) error {
	return errors.New("E301").WithDetailf("line %d: "+format, append([]any{line}, args...)...)
}
