package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
)

func setupFeedServer(t *testing.T) (*OrderFeedHub, *websocket.Conn) {
	gin.SetMode(gin.TestMode)

	hub := NewOrderFeedHub(nil)
	handler := NewOrderFeedHandler(hub, nil)

	router := gin.New()
	router.GET("/admin/orders/feed", handler.Feed)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/admin/orders/feed"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	return hub, conn
}

func readFeedMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload
}

func TestOrderFeedHub_EventTypes(t *testing.T) {
	hub := NewOrderFeedHub(nil)

	assert.Equal(t, []string{"OrderSubmitted", "OrderStatusChanged"}, hub.EventTypes())
}

func TestOrderFeedHub_BroadcastsOrderSubmitted(t *testing.T) {
	hub, conn := setupFeedServer(t)

	submission := checkout.Submission{
		FullName: "Amira Ben Salah",
		Items:    []checkout.SubmissionItem{{ProductID: "p-001", Quantity: 2}},
	}
	event := checkout.NewOrderSubmittedEvent("sess-1", "ord-9", submission, "95.00")
	require.NoError(t, hub.Handle(context.Background(), event))

	payload := readFeedMessage(t, conn)
	assert.Equal(t, "OrderSubmitted", payload["type"])
	assert.Equal(t, "ord-9", payload["order_id"])
	assert.Equal(t, "Amira Ben Salah", payload["full_name"])
	assert.Equal(t, "95.00", payload["total"])
}

func TestOrderFeedHub_BroadcastsOrderStatusChanged(t *testing.T) {
	hub, conn := setupFeedServer(t)

	event := order.NewOrderStatusChangedEvent("ord-9", order.StatusShipped)
	require.NoError(t, hub.Handle(context.Background(), event))

	payload := readFeedMessage(t, conn)
	assert.Equal(t, "OrderStatusChanged", payload["type"])
	assert.Equal(t, "ord-9", payload["order_id"])
	assert.Equal(t, "shipped", payload["new_status"])
}

func TestOrderFeedHub_RemovesClientOnDisconnect(t *testing.T) {
	hub, conn := setupFeedServer(t)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestOrderFeedHub_CloseDisconnectsClients(t *testing.T) {
	hub, conn := setupFeedServer(t)

	hub.Close()

	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
