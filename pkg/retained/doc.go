// Package retained is an in-memory retained widget tree.
//
// Tree implements the imui.Toolkit and imui.Mover contracts without any
// layout or painting. It keeps a window node as root, sibling-linked
// children, and counters of every create, destroy, refresh and move, which
// makes it the toolkit used by tests, the demo programs and the inspector.
//
// # Simulating input
//
// Click, SetSlider and TypeText apply a user edit to a node and dispatch
// the matching event, after which the root window is notified the way a
// host window would be:
//
//	tree := retained.New()
//	sess := imui.NewSession(tree, tree.Root(), ui)
//	sess.Render(ctx)
//
//	tree.Click(tree.Find(1, 1)) // re-renders synchronously
//
// Apply does the same for an Action addressed by an ID path, which is the
// form used by event scripts and the inspector's event endpoint.
package retained
