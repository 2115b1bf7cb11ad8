// Package frame coalesces work into render frames.
//
// Everything the waypoint engine does in response to scroll and resize
// bursts is scheduled through a Requester. A Requester promises to run the
// callback before the next paint, and never on a goroutine other than the
// one that owns the engine.
//
// Two implementations are provided:
//
//   - Manual is driven by a host that already owns a render loop (a
//     bubbletea program calls Run on every frame tick).
//   - Loop is the fixed-interval fallback. It batches requests into one
//     Frame per interval and hands that Frame to the consumer over a
//     channel, so the callbacks still run on the consumer's goroutine.
//
// Example usage:
//
//	loop := frame.NewLoop(0)
//	defer loop.Close()
//	for {
//		select {
//		case f := <-loop.Frames():
//			f.Run()
//		case <-ctx.Done():
//			return
//		}
//	}
package frame

import "time"

// DefaultInterval is the fallback frame period (60 frames per second).
const DefaultInterval = time.Second / 60

// Requester schedules a callback to run before the next paint.
type Requester interface {
	Request(fn func())
}

// RequesterFunc adapts a plain function to the Requester interface.
type RequesterFunc func(fn func())

// Request calls f(fn).
func (f RequesterFunc) Request(fn func()) {
	f(fn)
}

// Pick returns native when the host provides one, otherwise a Loop ticking
// at interval.
func Pick(native Requester, interval time.Duration) Requester {
	if native != nil {
		return native
	}
	return NewLoop(interval)
}
