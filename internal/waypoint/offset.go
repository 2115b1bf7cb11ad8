package waypoint

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidOffset is returned by ParseOffset for unparseable input.
var ErrInvalidOffset = errors.New("invalid offset")

type offsetKind int

const (
	offsetFixed offsetKind = iota
	offsetPercent
	offsetFunc
	offsetBottomInView
	offsetRightInView
)

// Offset shifts a watcher's trigger point. The zero value is Px(0).
type Offset struct {
	kind  offsetKind
	value float64
	fn    func(w *Watcher) float64
}

// Px is an absolute adjustment: the watcher fires when its element is px
// units from the start of the container.
func Px(px float64) Offset {
	return Offset{kind: offsetFixed, value: px}
}

// Percent is a fraction of the container's extent on the watcher's axis,
// rounded up.
func Percent(p float64) Offset {
	return Offset{kind: offsetPercent, value: p}
}

// OffsetFunc computes the adjustment on every refresh, typically from the
// watched element's own measured size.
func OffsetFunc(fn func(w *Watcher) float64) Offset {
	return Offset{kind: offsetFunc, fn: fn}
}

// Named offset aliases.
var (
	// BottomInView fires when the bottom of the element enters the
	// container.
	BottomInView = Offset{kind: offsetBottomInView}
	// RightInView fires when the right edge of the element enters the
	// container.
	RightInView = Offset{kind: offsetRightInView}
)

var offsetAliases = map[string]Offset{
	"bottom-in-view": BottomInView,
	"right-in-view":  RightInView,
}

// ParseOffset accepts the string forms "12", "-40", "25%", "bottom-in-view"
// and "right-in-view".
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if alias, ok := offsetAliases[s]; ok {
		return alias, nil
	}

	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return Offset{}, fmt.Errorf("%w %q", ErrInvalidOffset, s)
		}
		return Percent(v), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("%w %q", ErrInvalidOffset, s)
	}
	return Px(v), nil
}

func (o Offset) String() string {
	switch o.kind {
	case offsetPercent:
		return strconv.FormatFloat(o.value, 'f', -1, 64) + "%"
	case offsetFunc:
		return "func"
	case offsetBottomInView:
		return "bottom-in-view"
	case offsetRightInView:
		return "right-in-view"
	default:
		return strconv.FormatFloat(o.value, 'f', -1, 64)
	}
}

// resolve turns the offset into an absolute adjustment for w. dimension is
// the container's inner extent on w's axis.
func (o Offset) resolve(w *Watcher, dimension float64) (float64, error) {
	switch o.kind {
	case offsetPercent:
		return math.Ceil(dimension * o.value / 100), nil
	case offsetFunc:
		if o.fn == nil {
			return 0, nil
		}
		return o.fn(w), nil
	case offsetBottomInView, offsetRightInView:
		axis := Vertical
		if o.kind == offsetRightInView {
			axis = Horizontal
		}
		inner, err := w.container.InnerSize()
		if err != nil {
			return 0, err
		}
		outer, err := w.OuterSize()
		if err != nil {
			return 0, err
		}
		return inner.Along(axis) - outer.Along(axis), nil
	default:
		return o.value, nil
	}
}
