package retained

import "github.com/vango-dev/imui/pkg/imui"

// Node is a widget in a Tree. Siblings are doubly linked; the parent
// keeps its first and last child.
type Node struct {
	tree   *Tree
	kind   imui.Kind
	flags  imui.Flags
	serial uint64

	parent *Node
	first  *Node
	last   *Node
	prev   *Node
	next   *Node

	tag    imui.ID
	tagged bool
	hook   imui.Hook

	text   string
	value  float64
	steps  int
	width  int
	height int

	destroyed bool
}

// Kind implements imui.Node.
func (n *Node) Kind() imui.Kind { return n.kind }

// Parent implements imui.Node.
func (n *Node) Parent() imui.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// FirstChild implements imui.Node.
func (n *Node) FirstChild() imui.Node {
	if n.first == nil {
		return nil
	}
	return n.first
}

// NextSibling implements imui.Node.
func (n *Node) NextSibling() imui.Node {
	if n.next == nil {
		return nil
	}
	return n.next
}

// Tag implements imui.Node.
func (n *Node) Tag() (imui.ID, bool) { return n.tag, n.tagged }

// SetTag implements imui.Node.
func (n *Node) SetTag(id imui.ID) {
	n.tag = id
	n.tagged = true
}

// Hook implements imui.Node.
func (n *Node) Hook() imui.Hook { return n.hook }

// SetHook implements imui.Node.
func (n *Node) SetHook(h imui.Hook) { n.hook = h }

// Text implements imui.TextNode.
func (n *Node) Text() string { return n.text }

// SetText implements imui.TextNode.
func (n *Node) SetText(s string) { n.text = s }

// Value implements imui.ValueNode.
func (n *Node) Value() float64 { return n.value }

// SetValue implements imui.ValueNode.
func (n *Node) SetValue(v float64) { n.value = v }

// Size implements imui.SizeNode.
func (n *Node) Size() (int, int) { return n.width, n.height }

// SetSize implements imui.SizeNode.
func (n *Node) SetSize(width, height int) {
	n.width = width
	n.height = height
}

// Steps implements imui.StepNode.
func (n *Node) Steps() int { return n.steps }

// SetSteps implements imui.StepNode.
func (n *Node) SetSteps(steps int) { n.steps = steps }

// Flags implements imui.FlagNode.
func (n *Node) Flags() imui.Flags { return n.flags }

// SetFlags implements imui.FlagNode.
func (n *Node) SetFlags(f imui.Flags) { n.flags = f }

// Serial returns the creation sequence number of the node. Serials are
// unique within a tree, so a changed serial under the same ID means the
// node was recreated.
func (n *Node) Serial() uint64 { return n.serial }

// Destroyed reports whether the node has been destroyed.
func (n *Node) Destroyed() bool { return n.destroyed }

// Children returns the node's children in sibling order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.first; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// Child returns the first child tagged id, or nil.
func (n *Node) Child(id imui.ID) *Node {
	for c := n.first; c != nil; c = c.next {
		if c.tagged && c.tag == id {
			return c
		}
	}
	return nil
}

func (n *Node) unlink() {
	p := n.parent
	if p == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		p.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		p.last = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (n *Node) append(c *Node) {
	c.parent = n
	c.prev = n.last
	c.next = nil
	if n.last != nil {
		n.last.next = c
	} else {
		n.first = c
	}
	n.last = c
}

// insertAfter links c into n's children after sibling after, or first
// when after is nil.
func (n *Node) insertAfter(c, after *Node) {
	c.parent = n
	if after == nil {
		c.prev = nil
		c.next = n.first
		if n.first != nil {
			n.first.prev = c
		} else {
			n.last = c
		}
		n.first = c
		return
	}
	c.prev = after
	c.next = after.next
	if after.next != nil {
		after.next.prev = c
	} else {
		n.last = c
	}
	after.next = c
}
