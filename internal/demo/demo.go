// Package demo holds the example programs run by 'imui run'.
//
// Each demo is an immediate-mode program: it keeps its own application
// state and redeclares its whole UI from that state on every pass.
package demo

import (
	"io"
	"log/slog"
	"sort"

	"github.com/vango-dev/imui/internal/errors"
	"github.com/vango-dev/imui/pkg/imui"
)

// Program is a running demo.
type Program interface {
	// Title is the text of the demo's window.
	Title() string

	// Render declares the demo's UI. It is the session's UI function.
	Render(s *imui.Session)

	io.Closer
}

// Env carries what a demo may need from its host.
type Env struct {
	Logger *slog.Logger

	// TodoDB is the bbolt file for the todo demo. Empty keeps items in
	// memory.
	TodoDB string
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Demo describes a registered demo.
type Demo struct {
	Name        string
	Description string
	New         func(env Env) (Program, error)
}

var registry = map[string]Demo{}

func register(d Demo) {
	registry[d.Name] = d
}

func init() {
	register(Demo{
		Name:        "counter",
		Description: "Increment and decrement buttons, a gauge, a slider and a mirrored textbox",
		New: func(env Env) (Program, error) {
			return NewCounter(), nil
		},
	})
	register(Demo{
		Name:        "todo",
		Description: "To-do list with tabs, check and edit buttons, stored with bbolt",
		New: func(env Env) (Program, error) {
			var store TodoStore = NewMemStore()
			if env.TodoDB != "" {
				s, err := OpenBoltStore(env.TodoDB)
				if err != nil {
					return nil, err
				}
				store = s
			}
			return NewTodo(store, env.logger())
		},
	})
	register(Demo{
		Name:        "converter",
		Description: "Unit converter for lengths and temperatures",
		New: func(env Env) (Program, error) {
			return NewConverter(), nil
		},
	})
}

// All returns every demo sorted by name.
func All() []Demo {
	out := make([]Demo, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the demo called name.
func Lookup(name string) (Demo, error) {
	d, ok := registry[name]
	if !ok {
		return Demo{}, errors.New("E142").WithDetailf("no demo named %q", name)
	}
	return d, nil
}
