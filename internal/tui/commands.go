package tui

import (
	"fmt"
	"slices"

	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/billie-coop/waypoints/internal/tui/events"
	"github.com/billie-coop/waypoints/internal/waypoint"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// handleKey routes a key press. The quote view only knows how to close.
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.quote != "" {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Close, m.keys.Quote):
			m.quote = ""
		}
		return nil
	}

	_, pageHeight := m.pageSize()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePage()
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-max(pageHeight-1, 1))
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(max(pageHeight-1, 1))
	case key.Matches(msg, m.keys.Home):
		m.scrollTo(0)
	case key.Matches(msg, m.keys.End):
		m.scrollTo(m.doc.ContentHeight())
	case key.Matches(msg, m.keys.NextPiece):
		m.jumpPiece(1)
	case key.Matches(msg, m.keys.PrevPiece):
		m.jumpPiece(-1)
	case key.Matches(msg, m.keys.Add):
		m.addPiece()
	case key.Matches(msg, m.keys.Remove):
		m.removePiece()
	case key.Matches(msg, m.keys.Variant):
		m.cycleVariant()
	case key.Matches(msg, m.keys.Clear):
		m.clearPieces()
	case key.Matches(msg, m.keys.GalleryLeft):
		m.scrollGallery(-1)
	case key.Matches(msg, m.keys.GalleryRight):
		m.scrollGallery(1)
	case key.Matches(msg, m.keys.UsePhoto):
		m.usePhotoPieces()
	case key.Matches(msg, m.keys.Quote):
		m.printQuote()
	}
	return nil
}

func (m *Model) scrollBy(lines int) {
	if err := m.doc.ScrollBy(waypoint.Viewport, 0, float64(lines)); err != nil {
		m.publishError(err.Error())
	}
}

func (m *Model) scrollTo(line int) {
	if err := m.doc.ScrollTo(waypoint.Viewport, waypoint.Point{Y: float64(line)}); err != nil {
		m.publishError(err.Error())
	}
}

// jumpPiece scrolls the next or previous piece to the top of the page.
func (m *Model) jumpPiece(delta int) {
	products := m.estimate.Catalog().Products
	if len(products) == 0 {
		return
	}
	i := slices.IndexFunc(products, func(p estimate.Product) bool { return p.ID == m.current })
	switch {
	case i < 0 && delta < 0:
		i = len(products) - 1
	case i < 0:
		i = 0
	default:
		i = min(max(i+delta, 0), len(products)-1)
	}
	offset, err := m.doc.Offset(productID(products[i].ID))
	if err != nil {
		m.publishError(err.Error())
		return
	}
	m.scrollTo(int(offset.Y))
}

func (m *Model) scrollGallery(delta int) {
	if !m.doc.Has(galleryID) {
		return
	}
	width, _ := m.pageSize()
	if err := m.doc.ScrollBy(galleryID, float64(delta*m.photoWidth(width)), 0); err != nil {
		m.publishError(err.Error())
	}
}

// currentPiece returns the piece in view, or publishes a warning.
func (m *Model) currentPiece() (*estimate.Product, bool) {
	if m.current == "" {
		m.publishStatus("warning", "no piece in view")
		return nil, false
	}
	p, err := m.estimate.Catalog().Product(m.current)
	if err != nil {
		m.publishError(err.Error())
		return nil, false
	}
	return p, true
}

func (m *Model) addPiece() {
	p, ok := m.currentPiece()
	if !ok {
		return
	}
	if m.estimate.Contains(p.ID) {
		m.publishStatus("info", p.Name+" is already in the estimate")
		return
	}
	if err := m.estimate.Add(p.ID); err != nil {
		m.publishError(err.Error())
		return
	}
	m.estimateChanged("success", "Added "+p.Name, p.ID)
}

func (m *Model) removePiece() {
	p, ok := m.currentPiece()
	if !ok {
		return
	}
	if !m.estimate.Remove(p.ID) {
		m.publishStatus("warning", p.Name+" is not in the estimate")
		return
	}
	m.estimateChanged("info", "Removed "+p.Name, p.ID)
}

func (m *Model) cycleVariant() {
	p, ok := m.currentPiece()
	if !ok || len(p.Variants) < 2 {
		return
	}
	chosen, err := m.estimate.Variant(p.ID)
	if err != nil {
		m.publishError(err.Error())
		return
	}
	i := slices.IndexFunc(p.Variants, func(v estimate.Variant) bool { return v.ID == chosen.ID })
	next := p.Variants[(i+1)%len(p.Variants)]
	if err := m.estimate.SelectVariant(p.ID, next.ID); err != nil {
		m.publishError(err.Error())
		return
	}
	m.estimateChanged("info", fmt.Sprintf("%s: %s", p.Name, next.Label), p.ID)
}

func (m *Model) clearPieces() {
	if m.estimate.Empty() {
		return
	}
	m.estimate.Clear()
	m.estimateChanged("info", "Removed every piece")
}

// usePhotoPieces replaces the estimate with the pieces of the photo in
// view.
func (m *Model) usePhotoPieces() {
	ok, err := m.state.SavePhotoPieces(m.ctx)
	if err != nil {
		m.publishError(err.Error())
		return
	}
	if !ok {
		m.publishStatus("warning", "scroll the gallery to a photo first")
		return
	}
	if err := m.state.LoadSelections(m.ctx, m.estimate); err != nil {
		m.publishStatus("warning", "some photo pieces are no longer offered")
	}
	m.estimateChanged("success", "Estimate set from photo")
}

// estimateChanged re-renders the touched pieces (all of them when none
// are named), saves the estimate and announces the change.
func (m *Model) estimateChanged(kind, message string, ids ...string) {
	if len(ids) == 0 {
		m.refreshAllProducts()
	}
	for _, id := range ids {
		m.refreshProduct(id)
	}
	if err := m.state.SaveSelections(m.ctx, m.estimate); err != nil {
		m.publishError(fmt.Sprintf("estimate not saved: %v", err))
	}
	m.broker.Publish(events.Event{
		Type:    events.EstimateChangedEvent,
		Payload: events.EstimatePayload{Pieces: m.estimate.Len(), Total: m.estimate.Total()},
	})
	m.publishStatus(kind, message)
}

func (m *Model) printQuote() {
	id, err := m.state.QuoteID(m.ctx)
	if err != nil {
		m.publishError(err.Error())
		return
	}
	contact, err := m.state.Contact(m.ctx)
	if err != nil {
		m.publishError(err.Error())
		return
	}
	m.quote = estimate.Printable(id, contact, m.estimate)
	m.broker.Publish(events.Event{Type: events.QuotePrintedEvent})
}

// reloadCatalog swaps in a re-read catalog and rebuilds the page around
// it, keeping the scroll position.
func (m *Model) reloadCatalog(msg CatalogReloadedMsg) {
	if msg.Err != nil {
		m.publishError(fmt.Sprintf("catalog reload failed: %v", msg.Err))
		return
	}
	dropped := m.estimate.SetCatalog(msg.Catalog)
	m.current = ""
	m.photo = ""
	if err := m.buildPage(); err != nil {
		m.publishError(fmt.Sprintf("catalog reload failed: %v", err))
		return
	}
	if len(dropped) > 0 {
		if err := m.state.SaveSelections(m.ctx, m.estimate); err != nil {
			m.publishError(fmt.Sprintf("estimate not saved: %v", err))
		}
	}
	m.broker.Publish(events.Event{
		Type:    events.CatalogReloadedEvent,
		Payload: events.CatalogPayload{Products: len(msg.Catalog.Products), Dropped: len(dropped)},
	})
	text := "Catalog reloaded"
	if len(dropped) > 0 {
		text += fmt.Sprintf(", %d pieces no longer offered", len(dropped))
	}
	m.publishStatus("info", text)
}
