package retained

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/imui/pkg/imui"
)

// Snapshot is a serializable copy of a subtree.
type Snapshot struct {
	Kind     string     `json:"kind"`
	ID       *imui.ID   `json:"id,omitempty"`
	Serial   uint64     `json:"serial"`
	Flags    imui.Flags `json:"flags,omitempty"`
	Text     string     `json:"text,omitempty"`
	Value    float64    `json:"value,omitempty"`
	Steps    int        `json:"steps,omitempty"`
	Width    int        `json:"width,omitempty"`
	Height   int        `json:"height,omitempty"`
	Children []Snapshot `json:"children,omitempty"`
}

// Snapshot copies the whole tree.
func (t *Tree) Snapshot() Snapshot {
	return SnapshotOf(t.root)
}

// SnapshotOf copies the subtree rooted at n.
func SnapshotOf(n *Node) Snapshot {
	s := Snapshot{
		Kind:   n.kind.String(),
		Serial: n.serial,
		Flags:  n.flags,
	}
	if n.tagged {
		id := n.tag
		s.ID = &id
	}
	switch n.kind {
	case imui.KindWindow, imui.KindButton, imui.KindLabel, imui.KindTextbox:
		s.Text = n.text
	case imui.KindGauge:
		s.Value = n.value
	case imui.KindSlider:
		s.Value = n.value
		s.Steps = n.steps
	case imui.KindSpacer:
		s.Width, s.Height = n.width, n.height
	}
	for c := n.first; c != nil; c = c.next {
		s.Children = append(s.Children, SnapshotOf(c))
	}
	return s
}

// Count returns the number of nodes in the snapshot.
func (s Snapshot) Count() int {
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}

// Dump writes the tree as indented text, one node per line.
func (t *Tree) Dump(w io.Writer) error {
	_, err := io.WriteString(w, t.Snapshot().String())
	return err
}

// String renders the snapshot as indented text.
func (s Snapshot) String() string {
	var b strings.Builder
	s.write(&b, 0)
	return b.String()
}

func (s Snapshot) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(s.Kind)
	if s.ID != nil {
		fmt.Fprintf(b, " #%d", uint64(*s.ID))
	}
	switch s.Kind {
	case "Window", "Button", "Label", "Textbox":
		if s.Text != "" || s.Kind != "Window" {
			b.WriteString(" ")
			b.WriteString(strconv.Quote(s.Text))
		}
	case "Gauge", "Slider":
		fmt.Fprintf(b, " %.2f", s.Value)
	case "Spacer":
		fmt.Fprintf(b, " %dx%d", s.Width, s.Height)
	}
	if s.Flags&imui.FlagChecked != 0 {
		b.WriteString(" [checked]")
	}
	b.WriteString("\n")
	for _, c := range s.Children {
		c.write(b, depth+1)
	}
}
