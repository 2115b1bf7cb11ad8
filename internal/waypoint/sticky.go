package waypoint

import (
	"fmt"
	"slices"
)

// StickyOptions configures a sticky element.
type StickyOptions struct {
	Options
	// Wrapper is the placeholder that stays in the layout while Element is
	// pinned. It defaults to Element itself.
	Wrapper ElementID
	// Directions that pin the element. Default: down and right.
	Directions []Direction
}

// Sticky pins an element once its wrapper scrolls past the trigger point
// and unpins it when the wrapper comes back.
type Sticky struct {
	element    ElementID
	wrapper    ElementID
	directions []Direction
	watcher    *Watcher

	stuck         bool
	wrapperHeight float64
	destroyed     bool
}

// NewSticky creates the sticky shortcut. Options.Handler is optional here
// and is called after the stuck state changes.
func (t *Tracker) NewSticky(opts StickyOptions) (*Sticky, error) {
	if opts.Element == "" {
		return nil, ErrNoElement
	}
	s := &Sticky{
		element:    opts.Element,
		wrapper:    opts.Wrapper,
		directions: opts.Directions,
	}
	if s.wrapper == "" {
		s.wrapper = s.element
	}
	if len(s.directions) == 0 {
		s.directions = []Direction{Down, Right}
	}

	original := opts.Handler
	wopts := opts.Options
	wopts.Element = s.wrapper
	wopts.Handler = func(w *Watcher, dir Direction) {
		s.stuck = slices.Contains(s.directions, dir)
		s.wrapperHeight = 0
		if s.stuck {
			if size, err := t.host.OuterSize(s.element); err == nil {
				s.wrapperHeight = size.Height
			}
		}
		if original != nil {
			original(w, dir)
		}
	}

	w, err := t.NewWatcher(wopts)
	if err != nil {
		return nil, fmt.Errorf("sticky %s: %w", opts.Element, err)
	}
	s.watcher = w
	return s, nil
}

// Element returns the pinned element.
func (s *Sticky) Element() ElementID { return s.element }

// Wrapper returns the placeholder element.
func (s *Sticky) Wrapper() ElementID { return s.wrapper }

// Watcher returns the underlying watcher.
func (s *Sticky) Watcher() *Watcher { return s.watcher }

// Stuck reports whether the element is currently pinned.
func (s *Sticky) Stuck() bool { return s.stuck }

// WrapperHeight is the height the wrapper must keep while the element is
// pinned, 0 when the wrapper should size itself.
func (s *Sticky) WrapperHeight() float64 { return s.wrapperHeight }

// Destroy removes the watcher and unpins the element.
func (s *Sticky) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.watcher.Destroy()
	s.stuck = false
	s.wrapperHeight = 0
}
