package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Change event actions.
const (
	ActionCreated = "carmodel_created"
	ActionUpdated = "carmodel_updated"
	ActionDeleted = "carmodel_deleted"
)

// Event is the message pushed to every /ws client when a record changes.
type Event struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	ID        string `json:"id"`
	ModelName string `json:"modelName,omitempty"`
	ModelCode string `json:"modelCode,omitempty"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// Publish queues a change event for broadcast without blocking the caller.
func (h *Hub) Publish(action, id, name, code string) {
	msg, err := json.Marshal(Event{
		Type:      "inventory_update",
		Action:    action,
		ID:        id,
		ModelName: name,
		ModelCode: code,
	})
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	go func() { h.Broadcast <- msg }()
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("ws: client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Handler serves one /ws connection until the peer goes away.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		h.Register <- c
		defer func() { h.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}
}
