package waypoint

import "errors"

// EventKind is a host event the engine listens for.
type EventKind int

const (
	ScrollEvent EventKind = iota
	ResizeEvent
)

func (k EventKind) String() string {
	if k == ResizeEvent {
		return "resize"
	}
	return "scroll"
}

// ErrElementNotFound is returned by hosts for unknown element IDs.
var ErrElementNotFound = errors.New("element not found")

// Host is everything the engine needs from the platform: measure, listen
// and unlisten. Offsets are document-relative, so an element inside a
// scrolled container reports a position that already accounts for that
// container's scroll.
type Host interface {
	// Offset returns the element's top-left corner in document coordinates.
	Offset(id ElementID) (Point, error)
	// OuterSize returns the element's border-box size.
	OuterSize(id ElementID) (Size, error)
	// InnerSize returns the element's visible content size. For Viewport
	// this is the window size.
	InnerSize(id ElementID) (Size, error)
	// Scroll returns the element's current scroll offset.
	Scroll(id ElementID) (Point, error)
	// Listen registers fn for kind events on id and returns the function
	// that removes it.
	Listen(id ElementID, kind EventKind, fn func()) (unlisten func(), err error)
	// IsTouch reports whether scroll events arrive too coarsely to be
	// throttled (touch devices).
	IsTouch() bool
}
