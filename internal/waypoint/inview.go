package waypoint

import (
	"errors"
	"fmt"
)

// InviewOptions configures an Inview. Unset callbacks are ignored.
type InviewOptions struct {
	Element    ElementID
	Context    ElementID
	Horizontal bool
	Disabled   bool

	Enter   func(dir Direction)
	Entered func(dir Direction)
	Exit    func(dir Direction)
	Exited  func(dir Direction)
}

type inviewEvent int

const (
	inviewEnter inviewEvent = iota
	inviewEntered
	inviewExit
	inviewExited
)

// inviewPoint is one of the four watchers behind an Inview: which event a
// forward and a backward crossing mean, and where the trigger sits.
type inviewPoint struct {
	forward  inviewEvent
	backward inviewEvent
	offset   func(axis Axis) Offset
}

var inviewPoints = []inviewPoint{
	// leading edge reaches the far side of the container
	{inviewEnter, inviewExited, func(Axis) Offset { return Percent(100) }},
	// trailing edge reaches the far side
	{inviewEntered, inviewExit, func(axis Axis) Offset {
		if axis == Horizontal {
			return RightInView
		}
		return BottomInView
	}},
	// leading edge reaches the near side
	{inviewExit, inviewEntered, func(Axis) Offset { return Px(0) }},
	// trailing edge reaches the near side
	{inviewExited, inviewEnter, func(axis Axis) Offset {
		return OffsetFunc(func(w *Watcher) float64 {
			size, err := w.OuterSize()
			if err != nil {
				return 0
			}
			return -size.Along(axis)
		})
	}},
}

// Inview reports an element entering and leaving its container through
// four watchers.
type Inview struct {
	opts     InviewOptions
	watchers []*Watcher
}

// NewInview creates the four watchers for opts.Element.
func (t *Tracker) NewInview(opts InviewOptions) (*Inview, error) {
	if opts.Element == "" {
		return nil, ErrNoElement
	}
	axis := Vertical
	if opts.Horizontal {
		axis = Horizontal
	}

	iv := &Inview{opts: opts}
	for _, p := range inviewPoints {
		w, err := t.NewWatcher(Options{
			Element:    opts.Element,
			Context:    opts.Context,
			Horizontal: opts.Horizontal,
			Disabled:   opts.Disabled,
			Offset:     p.offset(axis),
			Handler:    iv.handler(p),
		})
		if err != nil {
			iv.Destroy()
			return nil, fmt.Errorf("inview %s: %w", opts.Element, err)
		}
		iv.watchers = append(iv.watchers, w)
	}
	return iv, nil
}

func (iv *Inview) handler(p inviewPoint) Handler {
	return func(_ *Watcher, dir Direction) {
		ev := p.backward
		if dir.Forward() {
			ev = p.forward
		}
		if fn := iv.callback(ev); fn != nil {
			fn(dir)
		}
	}
}

func (iv *Inview) callback(ev inviewEvent) func(Direction) {
	switch ev {
	case inviewEnter:
		return iv.opts.Enter
	case inviewEntered:
		return iv.opts.Entered
	case inviewExit:
		return iv.opts.Exit
	default:
		return iv.opts.Exited
	}
}

// Element returns the observed element.
func (iv *Inview) Element() ElementID { return iv.opts.Element }

// Watchers returns the underlying watchers.
func (iv *Inview) Watchers() []*Watcher {
	return append([]*Watcher(nil), iv.watchers...)
}

// Destroy destroys all four watchers.
func (iv *Inview) Destroy() {
	for _, w := range iv.watchers {
		w.Destroy()
	}
	iv.watchers = nil
}

// Disable disables all four watchers.
func (iv *Inview) Disable() {
	for _, w := range iv.watchers {
		w.Disable()
	}
}

// Enable enables all four watchers, even when refreshing one of them
// fails.
func (iv *Inview) Enable() error {
	var errs []error
	for _, w := range iv.watchers {
		if err := w.Enable(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
