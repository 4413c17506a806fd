package imui

import (
	"math"
	"unicode/utf8"
)

// Panel declares a container and makes it the insertion target for every
// widget declared until the matching Pop.
func (s *Session) Panel(id ID, flags Flags) Node {
	n := s.claim(id, KindPanel)
	if n == nil {
		n = s.create(KindPanel, flags, "")
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, nil)
	s.push(n)
	return n
}

// Pop closes the innermost open Panel. Children of that panel that were
// not declared since it was opened are destroyed.
func (s *Session) Pop() {
	s.mustRender("Pop")
	if s.depth <= 1 {
		panic(violation(ErrUnbalancedPop, "Pop called with no open Panel"))
	}
	s.closeTop()
}

// Button declares a push button and reports whether it is the widget
// whose click started this pass. A changed label replaces the node.
func (s *Session) Button(id ID, flags Flags, label string) bool {
	n := s.claim(id, KindButton)
	if n != nil && n.(TextNode).Text() != label {
		s.destroy(n)
		n = nil
	}
	if n == nil {
		n = s.create(KindButton, flags, label)
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, s.buttonHook)
	return s.isSource(n)
}

// Label declares a static text. A changed text is updated in place and the
// node keeps its identity; Button is the only widget whose node is
// replaced when its text changes.
func (s *Session) Label(id ID, flags Flags, text string) {
	n := s.claim(id, KindLabel)
	created := n == nil
	if created {
		n = s.create(KindLabel, flags, text)
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, nil)

	tn := n.(TextNode)
	if tn.Text() != text {
		tn.SetText(text)
		s.refresh(n)
		if !created {
			s.refresh(s.top().parent)
		}
	}
}

// Spacer declares an empty gap of the given size.
func (s *Session) Spacer(id ID, flags Flags, width, height int) {
	n := s.claim(id, KindSpacer)
	created := n == nil
	if created {
		n = s.create(KindSpacer, flags, "")
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, nil)

	sn := n.(SizeNode)
	if w, h := sn.Size(); w != width || h != height {
		sn.SetSize(width, height)
		if !created {
			s.refresh(s.top().parent)
		}
	}
}

// Gauge declares a read-only progress bar at position.
func (s *Session) Gauge(id ID, flags Flags, position float64) {
	n := s.claim(id, KindGauge)
	if n == nil {
		n = s.create(KindGauge, flags, "")
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, nil)

	vn := n.(ValueNode)
	if !sameValue(vn.Value(), position) {
		vn.SetValue(position)
		s.refresh(n)
	}
}

// Slider declares a slider and returns its live position. When the slider
// started this pass, the user's position is returned and the declared
// position is ignored.
func (s *Session) Slider(id ID, flags Flags, position float64, steps int) float64 {
	n := s.claim(id, KindSlider)
	if n == nil {
		n = s.create(KindSlider, flags, "")
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, s.valueHook)

	if sn, ok := n.(StepNode); ok && sn.Steps() != steps {
		sn.SetSteps(steps)
	}
	vn := n.(ValueNode)
	if !sameValue(vn.Value(), position) && !s.isSource(n) {
		vn.SetValue(position)
		s.refresh(n)
	}
	return vn.Value()
}

// Textbox declares an editable text box and returns its live contents.
// When the textbox started this pass, the user's edit is returned and the
// declared text is ignored.
func (s *Session) Textbox(id ID, flags Flags, text string) string {
	return s.TextboxLimit(id, flags, text, 0)
}

// TextboxLimit is Textbox with a cap of limit bytes on the contents read
// back from a user edit. The cut never splits a UTF-8 sequence. A limit of
// zero or less means no cap.
func (s *Session) TextboxLimit(id ID, flags Flags, text string, limit int) string {
	n := s.claim(id, KindTextbox)
	if n == nil {
		n = s.create(KindTextbox, flags, text)
	} else {
		s.syncFlags(n, flags)
	}
	s.adopt(n, id, s.valueHook)

	tn := n.(TextNode)
	if s.isSource(n) {
		return truncate(tn.Text(), limit)
	}
	if tn.Text() != text {
		tn.SetText(text)
		s.refresh(n)
	}
	return tn.Text()
}

// sameValue compares positions, treating NaN as equal to itself.
func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
