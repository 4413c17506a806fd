// Package script runs YAML event scripts against a retained tree.
//
// A script is a list of steps. Each step either simulates one user edit
// (click, slide, type) or checks the state of a node (expect):
//
//	name: increment twice
//	steps:
//	  - click: [1]
//	  - click: [1]
//	  - expect: {path: [3], text: "2"}
//	  - slide: {path: [5], value: 0.7}
//	  - type: {path: [6], text: "hello"}
//
// Paths are ID paths from the root window, one ID per container level.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/imui/internal/errors"
	"github.com/vango-dev/imui/pkg/imui"
	"github.com/vango-dev/imui/pkg/retained"
)

// Script is a named sequence of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one of its fields.
type Step struct {
	Click  []imui.ID `yaml:"click,omitempty"`
	Slide  *Slide    `yaml:"slide,omitempty"`
	Type   *Type     `yaml:"type,omitempty"`
	Expect *Expect   `yaml:"expect,omitempty"`
}

// Slide moves a slider.
type Slide struct {
	Path  []imui.ID `yaml:"path"`
	Value float64   `yaml:"value"`
}

// Type replaces a textbox's contents.
type Type struct {
	Path []imui.ID `yaml:"path"`
	Text string    `yaml:"text"`
}

// Expect checks a node. Unset fields are not checked.
type Expect struct {
	Path     []imui.ID `yaml:"path"`
	Text     *string   `yaml:"text,omitempty"`
	Value    *float64  `yaml:"value,omitempty"`
	Children *int      `yaml:"children,omitempty"`
	Missing  bool      `yaml:"missing,omitempty"`
}

// valueTolerance absorbs float formatting in scripts.
const valueTolerance = 1e-9

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.FromError(err, "E130")
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("E130").WithDetail("script has no steps")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, errors.New("E130").
				WithDetailf("step %d: %v", i+1, err)
		}
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E130").
			WithDetail("cannot read " + path).
			Wrap(err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

func (s Step) validate() error {
	set := 0
	if s.Click != nil {
		set++
	}
	if s.Slide != nil {
		set++
	}
	if s.Type != nil {
		set++
	}
	if s.Expect != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("want exactly one of click, slide, type or expect, got %d", set)
	}
	if s.Expect != nil {
		if len(s.Expect.Path) == 0 {
			return fmt.Errorf("expect: empty path")
		}
		return nil
	}
	a, _ := s.Action()
	return a.Validate()
}

// Action converts an input step into a retained.Action. It reports false
// for expect steps.
func (s Step) Action() (retained.Action, bool) {
	switch {
	case s.Click != nil:
		return retained.Action{Kind: retained.ActionClick, Path: s.Click}, true
	case s.Slide != nil:
		return retained.Action{Kind: retained.ActionSlide, Path: s.Slide.Path, Value: s.Slide.Value}, true
	case s.Type != nil:
		return retained.Action{Kind: retained.ActionType, Path: s.Type.Path, Text: s.Type.Text}, true
	}
	return retained.Action{}, false
}

// String returns a short description of the step.
func (s Step) String() string {
	if a, ok := s.Action(); ok {
		return a.String()
	}
	if s.Expect != nil {
		return "expect " + retained.FormatPath(s.Expect.Path)
	}
	return "empty"
}

// Check verifies the expectation against tree.
func (e *Expect) Check(tree *retained.Tree) error {
	n := tree.Find(e.Path...)
	if e.Missing {
		if n != nil {
			return fmt.Errorf("node %s exists", retained.FormatPath(e.Path))
		}
		return nil
	}
	if n == nil {
		return fmt.Errorf("no node at %s", retained.FormatPath(e.Path))
	}
	if e.Text != nil && n.Text() != *e.Text {
		return fmt.Errorf("text is %q, want %q", n.Text(), *e.Text)
	}
	if e.Value != nil && math.Abs(n.Value()-*e.Value) > valueTolerance {
		return fmt.Errorf("value is %v, want %v", n.Value(), *e.Value)
	}
	if e.Children != nil && len(n.Children()) != *e.Children {
		return fmt.Errorf("has %d children, want %d", len(n.Children()), *e.Children)
	}
	return nil
}

// Runner applies scripts to a tree.
type Runner struct {
	Tree   *retained.Tree
	Logger *slog.Logger

	// AfterStep, if set, is called after every successful step.
	AfterStep func(index int, step Step)
}

// Run executes every step of s in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("running script", "name", s.Name, "steps", len(s.Steps))

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		if a, ok := step.Action(); ok {
			err = r.Tree.Apply(a)
		} else {
			err = step.Expect.Check(r.Tree)
		}
		if err != nil {
			return errors.New("E131").
				WithDetailf("step %d (%s): %v", i+1, step, err).
				Wrap(err)
		}

		logger.Debug("script step", "index", i+1, "step", step.String())
		if r.AfterStep != nil {
			r.AfterStep(i, step)
		}
	}
	return nil
}
