package imui

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxSettlePasses bounds how many times one pass re-runs the UI function
// after Invalidate.
const maxSettlePasses = 4

// UI is a declarative render function. It is re-executed top to bottom on
// every pass and describes the whole tree under the session root.
type UI func(s *Session)

// Trigger describes what started a render pass.
type Trigger uint8

const (
	TriggerRender Trigger = iota // Explicit call to Render
	TriggerEvent                 // A widget hook armed the trigger
)

// String returns the string representation of the Trigger.
func (t Trigger) String() string {
	switch t {
	case TriggerRender:
		return "render"
	case TriggerEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Stats describes the most recent render pass.
type Stats struct {
	Trigger   Trigger
	Source    ID   // Tag of the node that armed the trigger
	HasSource bool // Source is valid

	Created    int // Nodes created
	Destroyed  int // Nodes destroyed by the session (descendants not counted)
	Refreshed  int // Refresh calls issued
	Moved      int // Nodes moved into declaration order
	Duplicates int // Duplicate sibling IDs seen
	Passes     int // UI invocations, including settle passes

	Duration time.Duration
}

// Session reconciles a declarative UI function against the children of
// one root node. It owns the reconciliation stack and the re-render
// trigger for that root. A Session is not safe for concurrent use; call
// it only from the goroutine that owns the toolkit's event loop.
type Session struct {
	toolkit Toolkit
	mover   Mover
	root    Node
	ui      UI
	opts    options

	frames []frame
	depth  int

	rendering   bool
	invalidated bool

	// Re-render trigger: source armed it, pending until serviced.
	source  Node
	pending bool

	stats     Stats
	listeners []func(Stats)

	buttonHook Hook
	valueHook  Hook
}

// NewSession creates a session rendering ui into root and installs the
// session's root hook on root. Nothing is rendered until Render is called.
func NewSession(tk Toolkit, root Node, ui UI, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		toolkit: tk,
		root:    root,
		ui:      ui,
		opts:    o,
		frames:  make([]frame, o.maxDepth),
	}
	s.mover, _ = tk.(Mover)
	s.buttonHook = buttonHook{s: s}
	s.valueHook = valueHook{s: s}
	root.SetHook(rootHook{s: s})
	return s
}

// Root returns the node the session renders into.
func (s *Session) Root() Node {
	return s.root
}

// Depth returns the number of containers currently open. It is zero
// outside a render pass and at the top level of the UI function.
func (s *Session) Depth() int {
	if s.depth == 0 {
		return 0
	}
	return s.depth - 1
}

// Pending reports whether a re-render has been requested and not yet
// serviced.
func (s *Session) Pending() bool {
	return s.pending
}

// Rendering reports whether a render pass is in progress.
func (s *Session) Rendering() bool {
	return s.rendering
}

// Stats returns the statistics of the most recent pass.
func (s *Session) Stats() Stats {
	return s.stats
}

// OnRender registers fn to be called after every completed pass.
func (s *Session) OnRender(fn func(Stats)) {
	s.listeners = append(s.listeners, fn)
}

// Render runs a pass of the UI function. It is used for the initial pass
// and whenever application state changes outside a widget event. A pending
// trigger is serviced by the same pass.
func (s *Session) Render(ctx context.Context) {
	t := TriggerRender
	if s.pending {
		t = TriggerEvent
	}
	s.pass(ctx, t)
}

// Invalidate asks for the UI function to run again once the current
// invocation returns, so state changed late in the function is reflected
// by widgets declared earlier. The extra invocation does not see the
// trigger source. Only valid during a pass.
func (s *Session) Invalidate() {
	s.mustRender("Invalidate")
	s.invalidated = true
}

func (s *Session) pass(ctx context.Context, t Trigger) {
	if s.rendering {
		panic(violation(ErrReentrantTrigger, "render pass started while another pass is running"))
	}
	s.rendering = true
	start := time.Now()

	s.stats = Stats{Trigger: t}
	if s.source != nil {
		s.stats.Source, s.stats.HasSource = s.source.Tag()
	}

	attrs := []attribute.KeyValue{attribute.String("imui.trigger", t.String())}
	if s.stats.HasSource {
		attrs = append(attrs, attribute.Int64("imui.source", int64(s.stats.Source)))
	}
	_, span := s.opts.tracer.Start(ctx, "imui.render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			if err, ok := IsViolation(r); ok {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			s.abort()
			panic(r)
		}
	}()

	for {
		s.invalidated = false
		s.stats.Passes++
		s.run()
		if !s.invalidated {
			break
		}
		if s.stats.Passes >= maxSettlePasses {
			s.opts.logger.Warn("imui render did not settle",
				"passes", s.stats.Passes)
			break
		}
		s.source = nil
	}

	s.source = nil
	s.pending = false
	s.rendering = false
	s.stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("imui.created", s.stats.Created),
		attribute.Int("imui.destroyed", s.stats.Destroyed),
		attribute.Int("imui.refreshed", s.stats.Refreshed),
		attribute.Int("imui.moved", s.stats.Moved),
		attribute.Int("imui.passes", s.stats.Passes),
	)
	s.opts.metrics.RecordRender(t.String(), s.stats.Duration)
	s.opts.logger.Debug("imui render",
		"trigger", t.String(),
		"created", s.stats.Created,
		"destroyed", s.stats.Destroyed,
		"refreshed", s.stats.Refreshed,
		"moved", s.stats.Moved,
		"duration", s.stats.Duration,
	)

	for _, fn := range s.listeners {
		fn(s.stats)
	}
}

// abort releases every open frame after a violation so the session holds
// no node references and reports itself idle.
func (s *Session) abort() {
	for s.depth > 0 {
		s.depth--
		s.frames[s.depth].release()
	}
	s.source = nil
	s.pending = false
	s.rendering = false
	s.invalidated = false
}

// run invokes the UI function once inside the root frame.
func (s *Session) run() {
	s.push(s.root)
	s.ui(s)
	if s.depth != 1 {
		panic(violation(ErrDepthImbalance, "%d container(s) still open after the render function returned", s.depth-1))
	}
	s.closeTop()
}

func (s *Session) mustRender(op string) {
	if !s.rendering || s.depth == 0 {
		panic(violation(ErrOutsideRender, "%s called outside a render pass", op))
	}
}

func (s *Session) top() *frame {
	return &s.frames[s.depth-1]
}

func (s *Session) push(parent Node) {
	if s.depth == len(s.frames) {
		panic(violation(ErrStackOverflow, "opening a container at depth %d exceeds the capacity of %d frames", s.depth, len(s.frames)))
	}
	s.frames[s.depth].reset(parent, s.opts.strategy, s.opts.indexThreshold)
	s.depth++
}

func (s *Session) closeTop() {
	f := s.top()
	f.drain(s.destroy)
	s.reorder(f)
	f.release()
	s.depth--
}

// claim records id in the current frame and returns the previous node
// for it, or nil when a new node must be created.
func (s *Session) claim(id ID, kind Kind) Node {
	s.mustRender(kind.String())
	f := s.top()
	if f.markSeen(id) {
		s.duplicate(id, kind)
	}
	n := f.take(id, s.destroy)
	if n != nil && n.Kind() != kind {
		s.destroy(n)
		n = nil
	}
	return n
}

func (s *Session) duplicate(id ID, kind Kind) {
	s.stats.Duplicates++
	s.opts.metrics.RecordDuplicate()
	if s.opts.duplicates == DuplicateReject {
		panic(violation(ErrDuplicateID, "%s id %d declared twice under the same container", kind, id))
	}
	s.opts.logger.Warn("imui duplicate sibling id",
		"kind", kind.String(),
		"id", uint64(id),
		"depth", s.Depth(),
	)
}

func (s *Session) create(kind Kind, flags Flags, content string) Node {
	parent := s.top().parent
	n := s.toolkit.Create(parent, kind, flags, content)
	s.stats.Created++
	s.opts.metrics.RecordCreate(kind.String())
	s.refresh(parent)
	return n
}

// adopt tags n, installs its hook and records it in declaration order.
func (s *Session) adopt(n Node, id ID, hook Hook) {
	n.SetTag(id)
	if hook != nil {
		n.SetHook(hook)
	}
	f := s.top()
	f.claimed = append(f.claimed, n)
}

func (s *Session) destroy(n Node) {
	kind := n.Kind()
	s.toolkit.Destroy(n)
	s.stats.Destroyed++
	s.opts.metrics.RecordDestroy(kind.String())
	if id, ok := n.Tag(); ok {
		s.opts.logger.Debug("imui destroy", "kind", kind.String(), "id", uint64(id))
	}
}

func (s *Session) refresh(n Node) {
	s.toolkit.Refresh(n)
	s.stats.Refreshed++
	s.opts.metrics.RecordRefresh()
}

func (s *Session) syncFlags(n Node, flags Flags) {
	if fn, ok := n.(FlagNode); ok && fn.Flags() != flags {
		fn.SetFlags(flags)
		s.refresh(n)
	}
}

// reorder moves the frame's claimed nodes into declaration order when the
// toolkit supports it. An unchanged order costs one sibling walk.
func (s *Session) reorder(f *frame) {
	if s.mover == nil || len(f.claimed) == 0 {
		return
	}
	i := 0
	for c := f.parent.FirstChild(); c != nil && i < len(f.claimed); c = c.NextSibling() {
		if c != f.claimed[i] {
			break
		}
		i++
	}
	if i == len(f.claimed) {
		return
	}

	moved := 0
	for j := i; j < len(f.claimed); j++ {
		n := f.claimed[j]
		if j == 0 {
			if f.parent.FirstChild() == n {
				continue
			}
			s.mover.Move(n, nil)
		} else {
			after := f.claimed[j-1]
			if after.NextSibling() == n {
				continue
			}
			s.mover.Move(n, after)
		}
		moved++
	}
	if moved == 0 {
		return
	}
	s.stats.Moved += moved
	s.opts.metrics.RecordMoves(moved)
	s.refresh(f.parent)
}

func (s *Session) isSource(n Node) bool {
	return s.source != nil && n == s.source
}

// arm records n as the trigger source and moves the trigger to pending.
func (s *Session) arm(n Node) {
	if s.rendering {
		panic(violation(ErrReentrantTrigger, "%s armed the trigger during a render pass", n.Kind()))
	}
	if s.pending {
		panic(violation(ErrReentrantTrigger, "%s armed the trigger while a re-render is still pending", n.Kind()))
	}
	s.source = n
	s.pending = true
}

// buttonHook arms the trigger when its button is clicked.
type buttonHook struct{ s *Session }

func (h buttonHook) OnEvent(n Node, ev Event) {
	if ev.Kind == EventClicked {
		h.s.arm(n)
	}
}

// valueHook arms the trigger when an input widget's value changes.
type valueHook struct{ s *Session }

func (h valueHook) OnEvent(n Node, ev Event) {
	if ev.Kind == EventValueChanged {
		h.s.arm(n)
	}
}

// rootHook services a pending trigger when the root is notified.
type rootHook struct{ s *Session }

func (h rootHook) OnEvent(n Node, ev Event) {
	if ev.Kind == EventValueChanged && h.s.pending {
		h.s.pass(h.s.opts.ctx, TriggerEvent)
	}
}
