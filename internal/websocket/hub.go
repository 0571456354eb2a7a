package websocket

import (
	"encoding/json"
	"sync"
)

const (
	UpdateBalance  = "balance"
	UpdatePrice    = "price"
	UpdateShop     = "shop"
	UpdateContract = "contract"
	UpdateRank     = "rank"
	UpdateIncome   = "income"
)

// Update is the single envelope pushed to connected clients. Kind names the
// payload shape so the client can dispatch without sniffing fields.
type Update struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Broadcast fans an update out to every connected client. Slow clients are
// skipped rather than blocking the sender.
func (h *Hub) Broadcast(update Update) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
		}
	}
}
