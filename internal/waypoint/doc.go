// Package waypoint fires callbacks when scrolling carries a container past
// an element.
//
// The engine is split the same way the problem is:
//
//   - Watcher: one trigger point bound to an element, an axis, an offset
//     and a Handler.
//   - Container: one per scrollable element (or the Viewport). It owns the
//     watchers measured against it, the last seen scroll position, and the
//     throttled scroll/resize listeners. It computes trigger points and
//     detects crossings.
//   - Group: a named, axis-scoped set of watchers. Crossings are queued per
//     direction and flushed in physical crossing order; discontinuous
//     members only fire when they are the outermost crossing.
//   - Tracker: owns the registries above and the Host and frame.Requester
//     they talk to.
//
// Data flow:
//
//	host scroll/resize -> Container (throttled to one pass per frame)
//	  -> trigger points + crossings -> Group queues -> flush -> Handler
//
// Example usage:
//
//	frames := frame.NewManual()
//	tracker := waypoint.New(doc, frames)
//	_, err := tracker.NewWatcher(waypoint.Options{
//		Element: "pricing",
//		Offset:  waypoint.Percent(50),
//		Handler: func(w *waypoint.Watcher, dir waypoint.Direction) {
//			fmt.Println(w.Key(), "crossed", dir)
//		},
//	})
//	...
//	frames.Run() // once per rendered frame
//
// A Tracker and everything it owns must be used from a single goroutine.
package waypoint
