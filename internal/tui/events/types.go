package events

import "github.com/billie-coop/waypoints/internal/waypoint"

// EventType identifies the type of event
type EventType string

const (
	// Scroll tracking events
	WaypointCrossedEvent EventType = "waypoint.crossed"
	InviewEvent          EventType = "waypoint.inview"
	StickyEvent          EventType = "waypoint.sticky"

	// Estimate events
	EstimateChangedEvent EventType = "estimate.changed"
	CatalogReloadedEvent EventType = "catalog.reloaded"
	QuotePrintedEvent    EventType = "quote.printed"

	// UI events
	StatusMessageEvent EventType = "ui.status"
	ErrorMessageEvent  EventType = "ui.error"
)

// Wildcard subscribes to every event type.
const Wildcard EventType = "*"

// Event represents an event in the system
type Event struct {
	Type    EventType
	Payload any
}

// Event payload types

type CrossingPayload struct {
	Watcher   string
	Element   waypoint.ElementID
	Direction waypoint.Direction
}

// Inview stages, in the order an element scrolling into view reports them.
const (
	StageEnter   = "enter"
	StageEntered = "entered"
	StageExit    = "exit"
	StageExited  = "exited"
)

type InviewPayload struct {
	Element   waypoint.ElementID
	Stage     string
	Direction waypoint.Direction
}

type StickyPayload struct {
	Element waypoint.ElementID
	Stuck   bool
}

type EstimatePayload struct {
	Pieces int
	Total  string
}

type CatalogPayload struct {
	Products int
	Dropped  int
}

type StatusMessagePayload struct {
	Message string
	Type    string // "info", "warning", "error", "success"
}
