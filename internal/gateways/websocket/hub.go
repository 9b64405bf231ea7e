package websocket

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync/atomic"

	"todos/internal/utils"

	"go.uber.org/zap"
)

const sendBuffer = 32

type Client struct {
	hub  *Hub
	conn ClientConn
	ID   string
	send chan []byte
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Hub fans todo events out to every connected client. The client set is
// owned by the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     <-chan utils.Event
	done       chan struct{}
	count      atomic.Int64
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger, eventBus *utils.EventBus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		events:     eventBus.SubscribeCh(),
		done:       make(chan struct{}),
		logger:     logger.Sugar(),
	}
}

func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket Hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("WebSocket Hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case event := <-h.events:
			h.broadcast(event)
		}
	}
}

// join and leave return false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
}

func (h *Hub) broadcast(event utils.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "event", event.Event, "error", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			h.logger.Warnw("Dropping slow client", "client_id", client.ID)
			h.remove(client)
		}
	}
	h.logger.Debugw("Event broadcast", "event", event.Event, "clients_count", len(h.clients))
}
