package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"gosheet/domain/core"
	"gosheet/ports"

	"github.com/gin-gonic/gin"
)

// KeepAlive is how long a stream may sit idle before a ping is sent
var KeepAlive = 30 * time.Second

// SSEClient represents a connected SSE client
type SSEClient struct {
	DocumentID core.DocumentID
	Channel    chan ports.DocumentEvent
}

// SSEHub fans document events out to Server-Sent Events subscribers
type SSEHub struct {
	clients    map[core.DocumentID]map[chan ports.DocumentEvent]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan ports.DocumentEvent
	done       chan struct{}
	closeOnce  sync.Once
}

var _ ports.EventPublisher = (*SSEHub)(nil)

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[core.DocumentID]map[chan ports.DocumentEvent]bool),
		register:   make(chan SSEClient, 10),
		unregister: make(chan SSEClient, 10),
		broadcast:  make(chan ports.DocumentEvent, 100),
		done:       make(chan struct{}),
	}

	go hub.run()
	return hub
}

// run processes SSE hub operations
func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.DocumentID] == nil {
				h.clients[client.DocumentID] = make(map[chan ports.DocumentEvent]bool)
			}
			h.clients[client.DocumentID][client.Channel] = true
			log.Printf("[SSE] Client registered for document %s (total clients: %d)",
				client.DocumentID, len(h.clients[client.DocumentID]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if clients, exists := h.clients[client.DocumentID]; exists {
				if clients[client.Channel] {
					delete(clients, client.Channel)
					close(client.Channel)
				}
				log.Printf("[SSE] Client unregistered from document %s (remaining clients: %d)",
					client.DocumentID, len(clients))
				if len(clients) == 0 {
					delete(h.clients, client.DocumentID)
				}
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients[event.DocumentID] {
				select {
				case clientChan <- event:
				default:
					log.Printf("[SSE] Client channel full for document %s, skipping event",
						event.DocumentID)
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			h.clientsMu.Lock()
			for id, clients := range h.clients {
				for ch := range clients {
					close(ch)
				}
				delete(h.clients, id)
			}
			h.clientsMu.Unlock()
			for {
				select {
				case client := <-h.register:
					close(client.Channel)
				default:
					return
				}
			}
		}
	}
}

// Publish sends an event to all clients watching its document
func (h *SSEHub) Publish(event ports.DocumentEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping event: %s", event.EventType)
	}
}

// Subscribe registers a channel for a document's events. The returned func
// unregisters it; the channel is closed once unregistration is processed.
func (h *SSEHub) Subscribe(id core.DocumentID) (<-chan ports.DocumentEvent, func()) {
	ch := make(chan ports.DocumentEvent, 10)
	h.register <- SSEClient{DocumentID: id, Channel: ch}
	return ch, func() {
		select {
		case h.unregister <- SSEClient{DocumentID: id, Channel: ch}:
		case <-h.done:
		}
	}
}

// Close stops the hub and closes every subscriber channel
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HandleSSE streams events for the document named by the :id path parameter
func (h *SSEHub) HandleSSE(c *gin.Context) {
	id, err := core.ParseDocumentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_INPUT"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Cache-Control")

	events, unsubscribe := h.Subscribe(id)
	defer unsubscribe()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			eventJSON, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.EventType, string(eventJSON))
			return true

		case <-time.After(KeepAlive):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// ClientCount returns the number of active clients for a document
func (h *SSEHub) ClientCount(id core.DocumentID) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[id])
}
