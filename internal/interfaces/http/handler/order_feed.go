package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

const feedWriteTimeout = 5 * time.Second

// OrderFeedHub broadcasts order events to connected admin dashboards.
// It subscribes to the event bus as a handler; every OrderSubmitted and
// OrderStatusChanged event is serialized once and written to each client.
// A client that cannot be written to is dropped.
type OrderFeedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *zap.Logger
}

// NewOrderFeedHub creates a hub with no connected clients
func NewOrderFeedHub(logger *zap.Logger) *OrderFeedHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderFeedHub{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// EventTypes returns the event types the hub relays
func (h *OrderFeedHub) EventTypes() []string {
	return []string{
		checkout.EventTypeOrderSubmitted,
		order.EventTypeOrderStatusChanged,
	}
}

// Handle serializes the event and broadcasts it to every connected client.
// The event's own type field is the message discriminator.
func (h *OrderFeedHub) Handle(ctx context.Context, event shared.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to serialize feed event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	h.broadcast(data)
	return nil
}

// Add registers a connected client
func (h *OrderFeedHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

// Remove unregisters a client without closing it
func (h *OrderFeedHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// ClientCount returns the number of connected clients
func (h *OrderFeedHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Used during shutdown.
func (h *OrderFeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *OrderFeedHub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("dropping unresponsive feed client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// OrderFeedHandler upgrades dashboard connections onto the feed hub
type OrderFeedHandler struct {
	BaseHandler
	hub      *OrderFeedHub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewOrderFeedHandler creates a new OrderFeedHandler attached to the hub.
// All origins are accepted; the admin token requirement gates the endpoint
// and dashboards may be served from a different origin than the gateway.
func NewOrderFeedHandler(hub *OrderFeedHub, logger *zap.Logger) *OrderFeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderFeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Feed godoc
// @Summary      Live order feed
// @Description  Upgrades to a WebSocket and streams OrderSubmitted and OrderStatusChanged events as JSON messages. The admin token may be passed as a token query parameter since browser WebSocket clients cannot set headers.
// @Tags         admin
// @Success      101 "Switching Protocols"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/feed [get]
func (h *OrderFeedHandler) Feed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade writes its own HTTP error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.hub.Add(conn)
	defer h.hub.Remove(conn)

	h.logger.Info("feed client connected",
		zap.String("remote_addr", conn.RemoteAddr().String()),
		zap.Int("clients", h.hub.ClientCount()),
	)

	// The feed is one-way; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.logger.Info("feed client disconnected",
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
}
