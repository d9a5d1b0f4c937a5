package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedHub fans order and delivery events out to connected admin and partner
// dashboards.
type feedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// DeliveryFeed is the process-wide event feed.
var DeliveryFeed = &feedHub{clients: make(map[*websocket.Conn]bool)}

// OrderFeedHandler upgrades the connection and keeps it registered until
// the peer goes away. The feed is push-only; inbound frames are drained and
// ignored.
func OrderFeedHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	DeliveryFeed.add(conn)
	defer DeliveryFeed.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *feedHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *feedHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *feedHub) broadcast(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// BroadcastOrder announces a new or changed order.
func (h *feedHub) BroadcastOrder(orderID int, status string) {
	h.broadcast(gin.H{
		"type":     "order",
		"order_id": orderID,
		"status":   status,
		"at":       time.Now().UTC(),
	})
}

// BroadcastDelivery announces a delivery status change.
func (h *feedHub) BroadcastDelivery(deliveryID, orderID int, status string) {
	h.broadcast(gin.H{
		"type":        "delivery",
		"delivery_id": deliveryID,
		"order_id":    orderID,
		"status":      status,
		"at":          time.Now().UTC(),
	})
}
