package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client watching one or more venue calendars
type Client struct {
	ID     uint
	Role   string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
	venues map[uint]bool
	mu     sync.Mutex
}

// Hub maintains the set of active clients and routes calendar updates
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// CalendarUpdate notifies watchers that a date's status changed for a venue.
// Status "free" means the row was deleted (unblock or withdrawn request).
type CalendarUpdate struct {
	VenueID   uint   `json:"venueId"`
	BookingID uint   `json:"bookingId,omitempty"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

// Subscribe is sent by a client to start receiving updates for a venue
type Subscribe struct {
	VenueID uint `json:"venueId"`
}

func (c *Client) subscribe(venueID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.venues[venueID] = true
}

func (c *Client) unsubscribe(venueID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.venues, venueID)
}

func (c *Client) watches(venueID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.venues[venueID]
}

// SendCalendarUpdate fans a venue calendar change out to every client
// subscribed to that venue.
func (h *Hub) SendCalendarUpdate(msgType string, update CalendarUpdate) {
	message := WebSocketMessage{
		Type: msgType,
		Data: update,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling calendar update: %v", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if !client.watches(update.VenueID) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
		}
	}
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:     userID,
		Role:   role,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
		venues: make(map[uint]bool),
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}

		switch wsMessage.Type {
		case "subscribe":
			if id := venueIDFromData(wsMessage.Data); id != 0 {
				c.subscribe(id)
				log.Printf("Client %d watching venue %d", c.ID, id)
			}
		case "unsubscribe":
			if id := venueIDFromData(wsMessage.Data); id != 0 {
				c.unsubscribe(id)
			}
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// venueIDFromData digs the venueId out of a decoded subscribe payload.
func venueIDFromData(data interface{}) uint {
	payload, ok := data.(map[string]interface{})
	if !ok {
		return 0
	}
	id, ok := payload["venueId"].(float64)
	if !ok || id <= 0 {
		return 0
	}
	return uint(id)
}
