package demo

import (
	"fmt"
	"math"

	"github.com/vango-dev/imui/pkg/imui"
)

// Counter is a number driven by two buttons and a slider.
//
// Layout, by ID path:
//
//	1     panel
//	1/1   "Increment counter" button
//	1/2   "Decrement counter" button
//	1/3   "Counter: N" label
//	1/4   gauge at N/10
//	1/5   slider at N/10
//	1/6   textbox
//	1/7   label mirroring the textbox
type Counter struct {
	Count int
	Text  string
}

// counterTextLimit is the textbox capacity in bytes.
const counterTextLimit = 63

// NewCounter returns a counter at zero.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Title() string { return "Immediate Mode Counter" }

func (c *Counter) Render(s *imui.Session) {
	s.Panel(1, imui.FlagGray|imui.FlagMediumSpacing)

	if s.Button(1, 0, "Increment counter") {
		c.Count++
	}
	if s.Button(2, 0, "Decrement counter") {
		c.Count--
	}

	s.Spacer(8, 0, 10, 10)

	s.Label(3, 0, fmt.Sprintf("Counter: %d", c.Count))
	s.Gauge(4, 0, float64(c.Count)/10)
	if n := int(math.Round(10 * s.Slider(5, 0, float64(c.Count)/10, 0))); n != c.Count {
		// The label and gauge above still show the old count.
		c.Count = n
		s.Invalidate()
	}

	s.Spacer(9, 0, 10, 10)

	c.Text = s.TextboxLimit(6, 0, c.Text, counterTextLimit)
	s.Label(7, 0, c.Text)

	s.Pop()
}

func (c *Counter) Close() error { return nil }
