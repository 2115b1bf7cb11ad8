package tui

import (
	"fmt"
	"strings"

	"github.com/billie-coop/waypoints/internal/tui/components/status"
	"github.com/billie-coop/waypoints/internal/tui/events"
	"github.com/billie-coop/waypoints/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"
)

// drainEvents handles everything published since the last Update. Watcher
// callbacks publish synchronously while a frame runs, so by the time Update
// gets here the whole frame's crossings are buffered.
func (m *Model) drainEvents() []tea.Cmd {
	evs := events.Drain(m.eventSub)
	if len(evs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(evs))
	for _, ev := range evs {
		cmds = append(cmds, m.handleEvent(ev))
	}
	m.updateCurrent()
	m.updateStatusLine()
	return cmds
}

// handleEvent processes events from the event broker
func (m *Model) handleEvent(event events.Event) tea.Cmd {
	switch event.Type {
	case events.InviewEvent:
		if payload, ok := event.Payload.(events.InviewPayload); ok {
			m.inview[payload.Element] = payload.Stage
			m.log.Debug("inview",
				zap.String("element", string(payload.Element)),
				zap.String("stage", payload.Stage),
				zap.String("direction", string(payload.Direction)))
			if payload.Stage == events.StageEntered {
				if id, ok := strings.CutPrefix(string(payload.Element), "photo-"); ok {
					m.viewPhoto(id)
				}
			}
		}

	case events.StickyEvent:
		if payload, ok := event.Payload.(events.StickyPayload); ok {
			m.log.Debug("sticky", zap.Bool("stuck", payload.Stuck))
		}

	case events.EstimateChangedEvent:
		if payload, ok := event.Payload.(events.EstimatePayload); ok {
			m.log.Info("estimate changed",
				zap.Int("pieces", payload.Pieces),
				zap.String("total", payload.Total))
		}

	case events.CatalogReloadedEvent:
		if payload, ok := event.Payload.(events.CatalogPayload); ok {
			m.log.Info("catalog reloaded",
				zap.Int("products", payload.Products),
				zap.Int("dropped", payload.Dropped))
		}

	case events.QuotePrintedEvent:
		m.log.Info("quote printed")

	case events.StatusMessageEvent:
		if payload, ok := event.Payload.(events.StatusMessagePayload); ok {
			return m.status.SetMessage(payload.Message, messageType(payload.Type))
		}

	case events.ErrorMessageEvent:
		if payload, ok := event.Payload.(events.StatusMessagePayload); ok {
			m.log.Warn("page error", zap.String("message", payload.Message))
			return m.status.ShowError(payload.Message)
		}
	}
	return nil
}

func messageType(kind string) status.MessageType {
	switch kind {
	case "warning":
		return status.Warning
	case "error":
		return status.Error
	case "success":
		return status.Success
	default:
		return status.Info
	}
}

// currentProduct is the first piece fully in view, else the first one
// partly in view.
func (m *Model) currentProduct() string {
	products := m.estimate.Catalog().Products
	for _, p := range products {
		if m.inview[productID(p.ID)] == events.StageEntered {
			return p.ID
		}
	}
	for _, p := range products {
		switch m.inview[productID(p.ID)] {
		case events.StageEnter, events.StageExit:
			return p.ID
		}
	}
	return ""
}

// updateCurrent moves the highlight to the current piece.
func (m *Model) updateCurrent() {
	next := m.currentProduct()
	if next == m.current {
		return
	}
	s := styles.CurrentTheme().S()
	if m.current != "" {
		_ = m.doc.SetStyle(productID(m.current), s.Product)
	}
	if next != "" {
		_ = m.doc.SetStyle(productID(next), s.ProductSelected)
	}
	m.current = next
}

func (m *Model) updateStatusLine() {
	left := "scroll to a piece"
	if m.current != "" {
		if p, err := m.estimate.Catalog().Product(m.current); err == nil {
			left = p.Name
		}
	}
	left += fmt.Sprintf(" · %d%%", int(m.scrollFraction()*100))
	if m.photo != "" {
		if photo, ok := m.estimate.Catalog().Photo(m.photo); ok {
			left += " · photo: " + photo.Caption
		}
	}
	m.status.SetLeftContent(left)
}

// viewPhoto remembers the photo in view so its pieces can be used.
func (m *Model) viewPhoto(id string) {
	photo, ok := m.estimate.Catalog().Photo(id)
	if !ok || m.photo == id {
		return
	}
	m.photo = id
	if err := m.state.SetPhotoPieces(m.ctx, photo); err != nil {
		m.publishError(fmt.Sprintf("could not remember photo: %v", err))
	}
}

func (m *Model) publishStatus(kind, message string) {
	m.broker.Publish(events.Event{
		Type:    events.StatusMessageEvent,
		Payload: events.StatusMessagePayload{Message: message, Type: kind},
	})
}

func (m *Model) publishError(message string) {
	m.broker.Publish(events.Event{
		Type:    events.ErrorMessageEvent,
		Payload: events.StatusMessagePayload{Message: message, Type: "error"},
	})
}

