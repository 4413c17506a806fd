package retained

import (
	"fmt"
	"strings"

	"github.com/vango-dev/imui/pkg/imui"
)

// Action kinds accepted by Tree.Apply.
const (
	ActionClick = "click"
	ActionSlide = "slide"
	ActionType  = "type"
)

// Action is a simulated user edit addressed by an ID path from the root.
type Action struct {
	Kind  string    `json:"kind" yaml:"kind"`
	Path  []imui.ID `json:"path" yaml:"path"`
	Value float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Text  string    `json:"text,omitempty" yaml:"text,omitempty"`
}

// String returns a short description such as "click 1/2".
func (a Action) String() string {
	return a.Kind + " " + FormatPath(a.Path)
}

// Validate checks the action kind and path.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionClick, ActionSlide, ActionType:
	default:
		return fmt.Errorf("unknown action %q", a.Kind)
	}
	if len(a.Path) == 0 {
		return fmt.Errorf("%s: empty path", a.Kind)
	}
	return nil
}

// Apply performs a on the node at a.Path.
func (t *Tree) Apply(a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	n := t.Find(a.Path...)
	if n == nil {
		return fmt.Errorf("%s: no node at %s", a.Kind, FormatPath(a.Path))
	}
	switch a.Kind {
	case ActionClick:
		return t.Click(n)
	case ActionSlide:
		return t.SetSlider(n, a.Value)
	default:
		return t.TypeText(n, a.Text)
	}
}

// FormatPath renders an ID path as "1/2/3".
func FormatPath(path []imui.ID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = fmt.Sprint(uint64(id))
	}
	return strings.Join(parts, "/")
}
