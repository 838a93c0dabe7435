package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client pairs a connection with its write lock. gorilla/websocket allows at
// most one concurrent writer per connection, and concurrent broadcasts to
// overlapping rooms hit the same connection.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub is the server side of the push channel: it tracks which connection sits
// in which room and fans events out to them. Delivery is best-effort; a
// failed write drops the connection and surfaces rejoin on reconnect.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*client]bool)}
}

// controlMessage is what connected clients send to manage their rooms.
type controlMessage struct {
	Action string `json:"action"` // "join" or "leave"
	Room   string `json:"room"`
}

// Handler upgrades the request and serves the connection until it drops.
// Initial rooms come from the "rooms" query param (comma separated); later
// join/leave messages adjust them.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		cl := &client{conn: conn}
		defer h.dropClient(cl)

		if rooms := c.Query("rooms"); rooms != "" {
			for _, room := range strings.Split(rooms, ",") {
				h.join(strings.TrimSpace(room), cl)
			}
		}

		for {
			var msg controlMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Action {
			case "join":
				h.join(msg.Room, cl)
			case "leave":
				h.leave(msg.Room, cl)
			}
		}
	}
}

// Broadcast sends the named event to every connection in the room.
func (h *Hub) Broadcast(room, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("cannot encode event payload", "event", name, "error", err)
		return
	}
	event := Event{ID: uuid.NewString(), Name: name, Room: room, Payload: data}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.rooms[room]))
	for cl := range h.rooms[room] {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		if err := cl.writeJSON(event); err != nil {
			h.dropClient(cl)
		}
	}
}

// RoomSize reports how many connections currently sit in the room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *Hub) join(room string, cl *client) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]bool)
	}
	h.rooms[room][cl] = true
}

func (h *Hub) leave(room string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], cl)
}

func (h *Hub) dropClient(cl *client) {
	h.mu.Lock()
	for room, clients := range h.rooms {
		delete(clients, cl)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	cl.conn.Close()
}
