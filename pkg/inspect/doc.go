// Package inspect serves a running session over HTTP.
//
// The inspector publishes the retained tree and the statistics of the last
// render pass, streams both to websocket clients after every pass, and
// accepts simulated user actions that the host applies on its UI goroutine.
//
// Routes:
//
//	GET  /tree     tree snapshot as JSON, or indented text with ?format=text
//	GET  /stats    statistics of the last pass
//	GET  /metrics  Prometheus metrics, when a gatherer is configured
//	GET  /ws       websocket stream of updates
//	POST /events   queue a retained.Action
//
// The server never touches the tree itself. Publish copies state in, and
// Events hands actions out:
//
//	srv := inspect.New(inspect.WithLogger(logger))
//	sess.OnRender(func(st imui.Stats) { srv.Publish(tree.Snapshot(), st) })
//	go srv.ListenAndServe(ctx, "localhost:7070")
//	for a := range srv.Events() {
//		tree.Apply(a)
//	}
package inspect
