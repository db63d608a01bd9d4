package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"todo_store/internal/domain"
	"todo_store/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ws_clients_connected",
	Help: "Websocket clients subscribed to the todo change feed",
})

func init() {
	prometheus.MustRegister(connectedClients)
}

// Hub fans todo events out to every connected client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     logger.Component("ws_hub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	connectedClients.Inc()
	h.log.Debug("client registered", "remote", c.remote, "clients", n)
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
}

// caller holds h.mu
func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	connectedClients.Dec()
	h.log.Debug("client unregistered", "remote", c.remote, "clients", len(h.clients))
}

// Publish implements service.Publisher. Clients whose buffer is full are dropped.
func (h *Hub) Publish(event domain.TodoEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			h.log.Warn("dropping slow client", "remote", c.remote)
			h.remove(c)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client; used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.remove(c)
	}
}
