package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/tapedeck/api/internal/model"
)

// Client represents a WebSocket client subscribed to one style job
type Client struct {
	JobKey string // taskId:style
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub maintains active WebSocket connections
type Hub struct {
	// Clients grouped by (taskId, style) job key
	clients map[string]map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Broadcast messages to job subscribers
	broadcast chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage represents a message to broadcast
type BroadcastMessage struct {
	JobKey  string
	Message []byte
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.JobKey] == nil {
				h.clients[client.JobKey] = make(map[*Client]bool)
			}
			h.clients[client.JobKey][client] = true
			h.mu.Unlock()
			log.Printf("Client registered for job %s", client.JobKey)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.JobKey]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.JobKey)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Client unregistered from job %s", client.JobKey)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[msg.JobKey]; ok {
				for client := range clients {
					select {
					case client.Send <- msg.Message:
					default:
						close(client.Send)
						delete(clients, client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastStatus sends a status transition to all job subscribers
func (h *Hub) BroadcastStatus(taskID string, style model.Style, status model.JobStatus) {
	msg := model.WSStatusMessage{
		Type:   model.WSMessageTypeStatus,
		TaskID: taskID,
		Style:  style,
		Status: status,
	}
	h.send(model.JobKey(taskID, style), msg)
}

// BroadcastComplete sends a completion message to all job subscribers
func (h *Hub) BroadcastComplete(taskID string, style model.Style, resultURL string) {
	msg := model.WSCompleteMessage{
		Type:      model.WSMessageTypeComplete,
		TaskID:    taskID,
		Style:     style,
		ResultURL: resultURL,
	}
	h.send(model.JobKey(taskID, style), msg)
}

// BroadcastError sends an error message to all job subscribers
func (h *Hub) BroadcastError(taskID string, style model.Style, message string) {
	msg := model.WSErrorMessage{
		Type:   model.WSMessageTypeError,
		TaskID: taskID,
		Style:  style,
		Error:  message,
	}
	h.send(model.JobKey(taskID, style), msg)
}

func (h *Hub) send(jobKey string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal websocket message: %v", err)
		return
	}

	h.broadcast <- &BroadcastMessage{
		JobKey:  jobKey,
		Message: data,
	}
}

// HandleConnection handles a WebSocket connection
func (h *Hub) HandleConnection(c *websocket.Conn, jobKey string) {
	client := &Client{
		JobKey: jobKey,
		Conn:   c,
		Send:   make(chan []byte, 256),
	}

	h.Register(client)
	defer h.Unregister(client)

	// Start writer goroutine
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case message, ok := <-client.Send:
				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-ticker.C:
				// Send ping for keep-alive
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		// Handle client messages (ping/pong)
		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			pong := model.WSMessage{Type: model.WSMessageTypePong}
			data, _ := json.Marshal(pong)
			client.Send <- data
		}
	}
}
