package rest

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/widgetHub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSocketServer(t *testing.T, srv *fakeWidgetService) (*httptest.Server, *widgetHub.WidgetHub) {
	t.Helper()
	hub := widgetHub.New()
	router := SetupRoutes(NewController(srv, hub), NewWidgetSocket(srv, hub))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub
}

func dialWidget(t *testing.T, server *httptest.Server, widgetID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/widget?widgetId=" + widgetID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWidgetAttachReceivesStoredBoard(t *testing.T) {
	srv := &fakeWidgetService{snapshot: &model.BoardSnapshot{
		GeneratedAt: "14:30",
		Instruments: []model.InstrumentView{{Label: "CIWP"}},
		Dividers:    []bool{},
	}}
	server, hub := newSocketServer(t, srv)

	conn := dialWidget(t, server, "w1")

	event := model.Event{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, model.EventBoard, event.Type)
	assert.Equal(t, 1, hub.Count())
}

func TestWidgetReattachReplacesConnection(t *testing.T) {
	srv := &fakeWidgetService{snapshot: &model.BoardSnapshot{
		Instruments: []model.InstrumentView{},
		Dividers:    []bool{},
	}}
	server, hub := newSocketServer(t, srv)

	first := dialWidget(t, server, "w1")
	event := model.Event{}
	require.NoError(t, first.ReadJSON(&event))

	second := dialWidget(t, server, "w1")
	require.NoError(t, second.ReadJSON(&event))

	// the replaced handler's teardown runs concurrently; it must not drop
	// the replacement connection from the hub
	require.Eventually(t, func() bool {
		return hub.Send("w1", model.BoardEvent(model.BlankSnapshot())) == nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, second.ReadJSON(&event))
	assert.Equal(t, model.EventBoard, event.Type)
	assert.Equal(t, 1, hub.Count())

	// the first connection was closed by the replacement
	_ = first.SetReadDeadline(time.Now().Add(time.Second))
	require.Error(t, first.ReadJSON(&model.Event{}))
}
