package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/service"
	"github.com/stockswidget/stocks_widget_service/utils"
)

type Hub interface {
	Register(widgetID string, conn *websocket.Conn)
	Unregister(widgetID string, conn *websocket.Conn)
	Send(widgetID string, event model.Event) error
	Count() int
}

type WidgetSocket struct {
	widgetService WidgetService
	hub           Hub
	upgrader      websocket.Upgrader
}

func NewWidgetSocket(widgetService WidgetService, hub Hub) *WidgetSocket {
	return &WidgetSocket{
		widgetService: widgetService,
		hub:           hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type widgetCommand struct {
	Action string `json:"action"`
}

// Attach upgrades the connection and registers the widget in the hub.
// A widget without a stored board gets a background refresh so its first
// render arrives over the socket shortly after attach.
func (ws *WidgetSocket) Attach(w http.ResponseWriter, r *http.Request) {
	rqID := utils.GetRequestIDFromCtx(r.Context())
	op := "WidgetSocket.Attach"

	widgetID := r.URL.Query().Get("widgetId")
	if widgetID == "" {
		widgetID = uuid.NewString()
	}

	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return
	}

	ws.hub.Register(widgetID, conn)
	defer ws.hub.Unregister(widgetID, conn)

	ws.sendInitialBoard(r.Context(), rqID, widgetID)
	ws.readLoop(conn, rqID, widgetID)
}

func (ws *WidgetSocket) sendInitialBoard(ctx context.Context, rqID, widgetID string) {
	snapshot, err := ws.widgetService.GetBoardSnapshot(ctx)
	if err == nil {
		if sendErr := ws.hub.Send(widgetID, model.BoardEvent(snapshot)); sendErr != nil {
			slog.Warn("initial board send failed", slog.String("rqID", rqID), slog.String("err", sendErr.Error()))
		}
		return
	}

	if !errors.Is(err, service.ErrNotFound) {
		slog.Error("get board snapshot failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return
	}

	// First widget ever attached, nothing rendered yet.
	go func() {
		refreshCtx := utils.CtxWithRqID(context.Background(), rqID)
		if refreshErr := ws.widgetService.RefreshWidget(refreshCtx, widgetID); refreshErr != nil {
			slog.Error("initial widget refresh failed", slog.String("rqID", rqID), slog.String("err", refreshErr.Error()))
		}
	}()
}

func (ws *WidgetSocket) readLoop(conn *websocket.Conn, rqID, widgetID string) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		cmd := widgetCommand{}
		if err := json.Unmarshal(message, &cmd); err != nil {
			slog.Warn("unparseable widget command", slog.String("rqID", rqID), slog.String("widgetID", widgetID))
			continue
		}

		if cmd.Action == "refresh" {
			go func() {
				refreshCtx := utils.CtxWithRqID(context.Background(), rqID)
				if err := ws.widgetService.RefreshWidget(refreshCtx, widgetID); err != nil {
					slog.Error("widget refresh failed", slog.String("rqID", rqID), slog.String("widgetID", widgetID), slog.String("err", err.Error()))
				}
			}()
		}
	}
}
