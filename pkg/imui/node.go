package imui

// ID identifies a widget among its siblings. It is chosen by the
// application and must stay stable across renders for the widget's node
// to be reused.
type ID uint64

// Flags are opaque creation flags forwarded to the toolkit.
type Flags uint32

// Flags understood by the reference toolkit. Other toolkits may define
// their own; the session only compares and forwards them.
const (
	FlagHFill Flags = 1 << iota
	FlagVFill
	FlagHorizontal
	FlagGray
	FlagWhite
	FlagMediumSpacing
	FlagScroll
	FlagSmall
	FlagChecked
	FlagDisabled
)

// Kind is the widget kind discriminator.
type Kind uint8

const (
	KindWindow Kind = iota // Root of a retained tree
	KindPanel              // Container
	KindButton             // Action widget with a fixed label
	KindLabel              // Static text
	KindSpacer             // Fixed-size gap
	KindGauge              // Read-only progress bar
	KindSlider             // Input widget with a position in [0, 1]
	KindTextbox            // Input widget with editable text
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindWindow:
		return "Window"
	case KindPanel:
		return "Panel"
	case KindButton:
		return "Button"
	case KindLabel:
		return "Label"
	case KindSpacer:
		return "Spacer"
	case KindGauge:
		return "Gauge"
	case KindSlider:
		return "Slider"
	case KindTextbox:
		return "Textbox"
	default:
		return "Unknown"
	}
}

// EventKind is the type of event delivered to a node's hook.
type EventKind uint8

const (
	EventClicked      EventKind = iota + 1 // Button pressed
	EventValueChanged                      // Slider moved, textbox edited, or root notified
	EventKeyTyped                          // Key typed into a focused widget
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventClicked:
		return "clicked"
	case EventValueChanged:
		return "value-changed"
	case EventKeyTyped:
		return "key-typed"
	default:
		return "unknown"
	}
}

// Event is delivered to a node's hook by the toolkit.
type Event struct {
	Kind    EventKind
	Payload any
}

// Hook receives events for the node it is installed on.
type Hook interface {
	OnEvent(n Node, ev Event)
}

// Node is a widget object owned by the retained toolkit. Implementations
// must return an untyped nil from Parent, FirstChild and NextSibling when
// there is no such node.
type Node interface {
	Kind() Kind
	Parent() Node
	FirstChild() Node
	NextSibling() Node

	// Tag returns the identity tag set by SetTag, if any.
	Tag() (ID, bool)
	SetTag(id ID)

	Hook() Hook
	SetHook(h Hook)
}

// TextNode is implemented by button, label and textbox nodes.
type TextNode interface {
	Node
	Text() string
	SetText(s string)
}

// ValueNode is implemented by gauge and slider nodes.
type ValueNode interface {
	Node
	Value() float64
	SetValue(v float64)
}

// SizeNode is implemented by spacer nodes.
type SizeNode interface {
	Node
	Size() (width, height int)
	SetSize(width, height int)
}

// StepNode is implemented by slider nodes.
type StepNode interface {
	Node
	Steps() int
	SetSteps(steps int)
}

// FlagNode is implemented by toolkits whose nodes accept flag changes
// after creation. Without it flags only apply when a node is created.
type FlagNode interface {
	Node
	Flags() Flags
	SetFlags(f Flags)
}

// Toolkit is the retained widget tree a Session reconciles against.
//
// Create appends a new node of the given kind as the last child of parent.
// content is the initial text for text-bearing kinds and is ignored by the
// others. Nodes returned for KindButton, KindLabel and KindTextbox must
// implement TextNode; KindGauge and KindSlider must implement ValueNode;
// KindSpacer must implement SizeNode.
//
// Destroy must release the node's descendants too: the session destroys
// stale containers with a single Destroy call and never calls
// DestroyDescendants itself.
type Toolkit interface {
	Create(parent Node, kind Kind, flags Flags, content string) Node
	Destroy(n Node)
	DestroyDescendants(n Node)
	Refresh(n Node)
}

// Mover is implemented by toolkits that can reorder siblings. When the
// toolkit is a Mover, a closing frame moves its claimed children into
// declaration order.
type Mover interface {
	// Move places n directly after the sibling after, or first among its
	// siblings when after is nil.
	Move(n, after Node)
}
