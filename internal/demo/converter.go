package demo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/imui/pkg/imui"
)

// Unit converts to its category's base unit as (v - Bias) * Ratio.
type Unit struct {
	Name  string
	Ratio float64
	Bias  float64
}

// Category groups units that convert into each other.
type Category struct {
	Name  string
	Units []Unit
}

// Categories lists the converter's units.
var Categories = []Category{
	{"Length", []Unit{
		{Name: "Millimeters (mm)", Ratio: 0.001},
		{Name: "Meters (m)", Ratio: 1.0},
		{Name: "Kilometers (km)", Ratio: 1000.0},
		{Name: "Yards", Ratio: 0.9144},
	}},
	{"Temperature", []Unit{
		{Name: "Celsius", Ratio: 1.0},
		{Name: "Fahrenheit", Ratio: 0.555555555556, Bias: 32.0},
	}},
}

// Converter output messages.
const (
	msgSelectUnits  = "Select units to convert."
	msgEnterValue   = "Enter value to convert."
	msgInvalidInput = "Invalid number."
)

// columnHeading is the ID of the heading label in each selection column.
// Selection buttons use the item index plus one.
const columnHeading imui.ID = 100

// Converter converts a value between two units of one category.
//
// Layout, by ID path:
//
//	1       panel
//	1/1     selection row: columns 1/1/1 category, 1/1/2 from, 1/1/3 to
//	1/2     input row: 1/2/1 textbox, 1/2/2 arrow, 1/2/3 result label
type Converter struct {
	Category int
	From     int
	To       int
	Input    string
}

// NewConverter returns a converter with nothing selected.
func NewConverter() *Converter {
	return &Converter{Category: -1, From: -1, To: -1}
}

func (c *Converter) Title() string { return "Converter" }

func (c *Converter) Render(s *imui.Session) {
	s.Panel(1, imui.FlagGray|imui.FlagMediumSpacing)

	s.Panel(1, imui.FlagHorizontal|imui.FlagVFill)
	names := make([]string, len(Categories))
	for i, cat := range Categories {
		names[i] = cat.Name
	}
	if i, ok := column(s, 1, "Category", names, c.Category); ok {
		c.Category, c.From, c.To = i, -1, -1
		s.Invalidate()
	}

	var units []string
	if c.Category >= 0 {
		for _, u := range Categories[c.Category].Units {
			units = append(units, u.Name)
		}
	}
	if i, ok := column(s, 2, "From", units, c.From); ok {
		c.From = i
		s.Invalidate()
	}
	if i, ok := column(s, 3, "To", units, c.To); ok {
		c.To = i
		s.Invalidate()
	}
	s.Pop()

	s.Panel(2, imui.FlagHorizontal)
	c.Input = s.Textbox(1, imui.FlagHFill, c.Input)
	s.Label(2, 0, " --> ")
	s.Label(3, imui.FlagHFill, c.Result())
	s.Pop()

	s.Pop()
}

// column declares a heading and one button per item, checking the
// selected one. It reports the index of a newly clicked item.
func column(s *imui.Session, id imui.ID, heading string, items []string, selected int) (int, bool) {
	clicked, ok := -1, false
	s.Panel(id, imui.FlagHFill)
	s.Label(columnHeading, 0, heading)
	for i, name := range items {
		var flags imui.Flags
		if i == selected {
			flags |= imui.FlagChecked
		}
		if s.Button(imui.ID(i+1), flags, name) && i != selected {
			clicked, ok = i, true
		}
	}
	s.Pop()
	return clicked, ok
}

// Result returns the text of the result label.
func (c *Converter) Result() string {
	if c.Category < 0 || c.From < 0 || c.To < 0 {
		return msgSelectUnits
	}
	text := strings.TrimSpace(c.Input)
	if text == "" {
		return msgEnterValue
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return msgInvalidInput
	}
	units := Categories[c.Category].Units
	from, to := units[c.From], units[c.To]
	x := (v-from.Bias)*from.Ratio/to.Ratio + to.Bias
	return fmt.Sprintf("%f %s", x, to.Name)
}

func (c *Converter) Close() error { return nil }
