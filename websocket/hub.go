package websocket

import (
	"sync"

	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event names pushed to the admin UI. They are refresh hints, not a log.
const (
	EventSettingsUpdated            = "settingsUpdated"
	EventPayrollUpdated             = "payrollUpdated"
	EventPayrollApproved            = "payrollApproved"
	EventPayrollAdjusted            = "payrollAdjusted"
	EventTellerManagementUpdated    = "tellerManagementUpdated"
	EventSupervisorAssignmentsReset = "supervisorAssignmentsReset"
)

const sendBuffer = 32

// Notification represents a message sent over WebSocket
type Notification struct {
	Type         string      `json:"type"`
	Message      string      `json:"message,omitempty"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userID,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID        primitive.ObjectID
	UserType      string
	Conn          *websocket.Conn
	Authenticated bool

	send chan Notification
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	unregister chan *Client
	broadcast  chan Notification
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client),
		broadcast:  make(chan Notification, 64),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case n := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- n:
				default:
					// slow consumer; it will refetch on its next event
					config.GetLogger().WithField("event", n.Type).Debug("Dropping websocket event for slow client")
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast queues an event for every connected client without blocking.
func (h *Hub) Broadcast(event string, data interface{}) {
	select {
	case h.broadcast <- Notification{Type: event, Data: data}:
	default:
		config.GetLogger().WithField("event", event).Warn("Websocket broadcast queue full, event dropped")
	}
}

// SendToUser queues a message for every connection of one user.
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := false
	for client := range h.clients {
		if client.Authenticated && client.UserID == userID {
			select {
			case client.send <- notification:
				sent = true
			default:
			}
		}
	}
	return sent
}

// AuthenticateClient marks a connection as belonging to userID.
func (h *Hub) AuthenticateClient(client *Client, userID primitive.ObjectID, userType string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.Authenticated = true
	client.UserID = userID
	client.UserType = userType
}

// deliver queues n for one client if it is still registered.
func (h *Hub) deliver(client *Client, n Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.clients[client] {
		return
	}
	select {
	case client.send <- n:
	default:
	}
}

// add registers synchronously so the greeting sent right after the upgrade
// is never dropped.
func (h *Hub) add(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return false
	default:
	}
	h.clients[client] = true
	return true
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount is the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
