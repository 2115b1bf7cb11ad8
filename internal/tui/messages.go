package tui

import "github.com/billie-coop/waypoints/internal/estimate"

// frameMsg runs one scheduler frame.
type frameMsg struct{}

// CatalogReloadedMsg carries a re-read catalog into the program. Err is
// set when the file could not be loaded; the page keeps the old catalog.
type CatalogReloadedMsg struct {
	Catalog *estimate.Catalog
	Err     error
}
