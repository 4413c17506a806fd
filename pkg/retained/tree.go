package retained

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/vango-dev/imui/pkg/imui"
)

// Counters tallies toolkit operations since the tree was created or the
// counters were last reset.
type Counters struct {
	Created   int // Nodes created
	Destroyed int // Nodes destroyed, descendants included
	Refreshed int // Refresh requests
	Moved     int // Sibling moves
}

// Tree is an in-memory retained widget tree. It implements imui.Toolkit
// and imui.Mover. It performs no layout or painting: refreshed nodes are
// only remembered until Flush.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	root     *Node
	logger   *slog.Logger
	serial   uint64
	counters Counters
	dirty    map[*Node]struct{}
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the tree logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithTitle sets the text of the root window node.
func WithTitle(title string) Option {
	return func(t *Tree) {
		t.root.text = title
	}
}

// New creates a tree holding a single window node.
func New(opts ...Option) *Tree {
	t := &Tree{
		logger: slog.Default(),
		dirty:  make(map[*Node]struct{}),
	}
	t.root = t.newNode(imui.KindWindow, 0, "")
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the window node.
func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) newNode(kind imui.Kind, flags imui.Flags, content string) *Node {
	t.serial++
	n := &Node{
		tree:   t,
		kind:   kind,
		flags:  flags,
		serial: t.serial,
	}
	switch kind {
	case imui.KindWindow, imui.KindButton, imui.KindLabel, imui.KindTextbox:
		n.text = content
	}
	return n
}

func (t *Tree) node(n imui.Node) *Node {
	node, ok := n.(*Node)
	if !ok || node.tree != t {
		panic(fmt.Sprintf("retained: node %T does not belong to this tree", n))
	}
	return node
}

// Create implements imui.Toolkit.
func (t *Tree) Create(parent imui.Node, kind imui.Kind, flags imui.Flags, content string) imui.Node {
	p := t.node(parent)
	n := t.newNode(kind, flags, content)
	p.append(n)
	t.counters.Created++
	return n
}

// Destroy implements imui.Toolkit. Destroying a node destroys its
// descendants. Destroying an already destroyed node does nothing.
func (t *Tree) Destroy(n imui.Node) {
	node := t.node(n)
	if node.destroyed {
		return
	}
	if node == t.root {
		panic("retained: cannot destroy the root window")
	}
	node.unlink()
	t.release(node)
}

func (t *Tree) release(n *Node) {
	for c := n.first; c != nil; {
		next := c.next
		t.release(c)
		c = next
	}
	n.first = nil
	n.last = nil
	n.parent = nil
	n.prev = nil
	n.next = nil
	n.hook = nil
	n.destroyed = true
	delete(t.dirty, n)
	t.counters.Destroyed++
}

// DestroyDescendants implements imui.Toolkit.
func (t *Tree) DestroyDescendants(n imui.Node) {
	node := t.node(n)
	for c := node.first; c != nil; {
		next := c.next
		c.unlink()
		t.release(c)
		c = next
	}
}

// Refresh implements imui.Toolkit.
func (t *Tree) Refresh(n imui.Node) {
	node := t.node(n)
	t.counters.Refreshed++
	t.dirty[node] = struct{}{}
}

// Move implements imui.Mover.
func (t *Tree) Move(n, after imui.Node) {
	node := t.node(n)
	p := node.parent
	if p == nil {
		return
	}
	var a *Node
	if after != nil {
		a = t.node(after)
		if a.parent != p || a == node {
			panic("retained: move target is not a sibling")
		}
		if a.next == node {
			return
		}
	} else if p.first == node {
		return
	}
	node.unlink()
	p.insertAfter(node, a)
	t.counters.Moved++
}

// Counters returns the operation counters.
func (t *Tree) Counters() Counters {
	return t.counters
}

// ResetCounters zeroes the operation counters.
func (t *Tree) ResetCounters() {
	t.counters = Counters{}
}

// Flush forgets every refreshed node and returns how many there were,
// standing in for a layout and paint cycle.
func (t *Tree) Flush() int {
	n := len(t.dirty)
	clear(t.dirty)
	return n
}

// Find walks path from the root, matching each element against child
// tags. It returns nil if any element is missing.
func (t *Tree) Find(path ...imui.ID) *Node {
	n := t.root
	for _, id := range path {
		n = n.Child(id)
		if n == nil {
			return nil
		}
	}
	return n
}

// Dispatch delivers ev to n's hook. Clicks and value changes are then
// announced to the root window as a value change, the way a host window
// learns that a child committed user input.
func (t *Tree) Dispatch(n *Node, ev imui.Event) {
	if n.destroyed {
		return
	}
	t.logger.Debug("retained dispatch", "kind", n.kind.String(), "event", ev.Kind.String())
	if n.hook != nil {
		n.hook.OnEvent(n, ev)
	}
	if n == t.root {
		return
	}
	if ev.Kind == imui.EventClicked || ev.Kind == imui.EventValueChanged {
		if h := t.root.hook; h != nil {
			h.OnEvent(t.root, imui.Event{Kind: imui.EventValueChanged})
		}
	}
}

// Click simulates the user pressing a button.
func (t *Tree) Click(n *Node) error {
	if n == nil || n.destroyed {
		return fmt.Errorf("click: no such node")
	}
	if n.kind != imui.KindButton {
		return fmt.Errorf("click: %s is not a button", n.kind)
	}
	t.Dispatch(n, imui.Event{Kind: imui.EventClicked})
	return nil
}

// SetSlider simulates the user dragging a slider to v. The position is
// clamped to [0, 1] and snapped to the slider's steps when it has more
// than one.
func (t *Tree) SetSlider(n *Node, v float64) error {
	if n == nil || n.destroyed {
		return fmt.Errorf("slide: no such node")
	}
	if n.kind != imui.KindSlider {
		return fmt.Errorf("slide: %s is not a slider", n.kind)
	}
	v = math.Max(0, math.Min(1, v))
	if n.steps > 1 {
		span := float64(n.steps - 1)
		v = math.Round(v*span) / span
	}
	n.value = v
	t.Refresh(n)
	t.Dispatch(n, imui.Event{Kind: imui.EventValueChanged, Payload: v})
	return nil
}

// TypeText simulates the user replacing a textbox's contents with s.
func (t *Tree) TypeText(n *Node, s string) error {
	if n == nil || n.destroyed {
		return fmt.Errorf("type: no such node")
	}
	if n.kind != imui.KindTextbox {
		return fmt.Errorf("type: %s is not a textbox", n.kind)
	}
	n.text = s
	t.Refresh(n)
	t.Dispatch(n, imui.Event{Kind: imui.EventValueChanged, Payload: s})
	return nil
}
