package waypoint

// Axis is the scroll axis a watcher tracks.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// axes is the fixed sweep order used by refresh and scroll handling.
var axes = []Axis{Horizontal, Vertical}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

func (a Axis) forward() Direction {
	if a == Horizontal {
		return Right
	}
	return Down
}

func (a Axis) backward() Direction {
	if a == Horizontal {
		return Left
	}
	return Up
}

// Direction is the way the scroll baseline travelled across a trigger point.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// directions is the flush order for group queues.
var directions = []Direction{Up, Down, Left, Right}

// Forward reports whether d is the forward direction of its axis.
func (d Direction) Forward() bool {
	return d == Down || d == Right
}

// Axis returns the axis d belongs to.
func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return Horizontal
	}
	return Vertical
}

// ElementID identifies a host element. The engine never attaches data to
// host objects; it keys its own maps by ElementID instead.
type ElementID string

// Viewport is the sentinel element for the host window.
const Viewport ElementID = "@viewport"

// Point is a position in host coordinates.
type Point struct {
	X float64
	Y float64
}

// Along returns the coordinate on axis a.
func (p Point) Along(a Axis) float64 {
	if a == Horizontal {
		return p.X
	}
	return p.Y
}

// Size is an element extent in host coordinates.
type Size struct {
	Width  float64
	Height float64
}

// Along returns the extent on axis a.
func (s Size) Along(a Axis) float64 {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}
