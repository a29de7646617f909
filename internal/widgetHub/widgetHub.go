package widgetHub

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/stockswidget/stocks_widget_service/internal/model"
)

var ErrNotFound = errors.New("widget not attached")

// WidgetHub is the registry of attached widget instances. Pushes go either
// to every instance (periodic refresh) or to a single one (manual refresh
// scoped to the tapping widget).
type WidgetHub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func New() *WidgetHub {
	return &WidgetHub{clients: make(map[string]*websocket.Conn)}
}

func (h *WidgetHub) Register(widgetID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[widgetID]; ok {
		_ = old.Close()
	}
	h.clients[widgetID] = conn

	slog.Info("widget attached", slog.String("widgetID", widgetID), slog.Int("total", len(h.clients)))
}

// Unregister removes the widget only while it still owns conn. When a
// re-attach has already replaced the connection, the old handler's teardown
// must leave the replacement alone.
func (h *WidgetHub) Unregister(widgetID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[widgetID]
	if !ok || current != conn {
		return
	}

	delete(h.clients, widgetID)
	_ = conn.Close()

	slog.Info("widget detached", slog.String("widgetID", widgetID), slog.Int("total", len(h.clients)))
}

func (h *WidgetHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast pushes the event to every attached widget; write failures drop
// the client.
func (h *WidgetHub) Broadcast(event model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for widgetID, conn := range h.clients {
		if err := conn.WriteJSON(event); err != nil {
			slog.Warn("dropping widget after failed write", slog.String("widgetID", widgetID), slog.String("err", err.Error()))
			delete(h.clients, widgetID)
			_ = conn.Close()
		}
	}
}

func (h *WidgetHub) Send(widgetID string, event model.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[widgetID]
	if !ok {
		return ErrNotFound
	}

	if err := conn.WriteJSON(event); err != nil {
		delete(h.clients, widgetID)
		_ = conn.Close()
		return err
	}

	return nil
}
