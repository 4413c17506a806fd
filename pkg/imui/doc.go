// Package imui lets an application describe a retained widget tree with a
// plain function that is re-executed on every event.
//
// The toolkit underneath keeps a persistent tree of widget nodes. A
// Session maps repeated declarative calls onto that tree: a node whose ID
// was declared in the previous pass is reused, a new ID creates a node,
// and nodes whose IDs are no longer declared are destroyed.
//
// # Declaring a UI
//
//	counter := 0
//	ui := func(s *imui.Session) {
//	    s.Panel(1, imui.FlagGray)
//	    if s.Button(1, 0, "Increment") {
//	        counter++
//	    }
//	    s.Label(2, 0, fmt.Sprintf("Count: %d", counter))
//	    s.Pop()
//	}
//
//	sess := imui.NewSession(toolkit, window, ui)
//	sess.Render(ctx)
//
// IDs only need to be unique among siblings. Sibling order may change
// between passes without losing nodes.
//
// # Reconciliation stack
//
// Each open container has a frame holding its children from the previous
// pass. Declaring a widget looks its ID up in the innermost frame; Pop
// destroys whatever the frame still holds. The stack has a fixed capacity
// (WithMaxDepth); exceeding it, an unmatched Pop, or returning from the UI
// function with containers still open are fatal and panic with an error
// wrapping ErrStackOverflow, ErrUnbalancedPop or ErrDepthImbalance.
//
// # Re-render trigger
//
// Buttons, sliders and textboxes carry a hook. When the user clicks or
// edits one, the hook records it as the trigger source. The toolkit then
// notifies the root, whose hook re-runs the UI function synchronously.
// During that pass Button returns true for the clicked button, and Slider
// and Textbox return the user's value instead of the declared one.
package imui
