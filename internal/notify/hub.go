package notify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mealflow/mealflow/internal/domain/model"
)

const (
	broadcastBuffer  = 64
	clientSendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans order notifications out to all connected merchant clients.
// Delivery is best effort: a slow or absent client never blocks an order
// mutation.
type Hub struct {
	logger *slog.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan model.Notification

	done chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub constructs the notification hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan model.Notification, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Start launches the dispatch loop.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.wg.Add(1)
	go h.run()
}

// Stop closes all client connections and waits for the dispatch loop.
func (h *Hub) Stop() {
	h.mu.Lock()
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// Broadcast queues a notification without blocking the caller. When the queue
// is full the notification is dropped and logged.
func (h *Hub) Broadcast(n model.Notification) {
	select {
	case <-h.done:
	case h.broadcast <- n:
	default:
		h.logger.Warn("notification queue full, dropping",
			slog.Int("type", n.Type),
			slog.Int64("order_id", n.OrderID),
		)
	}
}

func (h *Hub) run() {
	defer h.wg.Done()

	clients := make(map[*client]struct{})
	defer func() {
		for c := range clients {
			close(c.send)
		}
	}()

	for {
		select {
		case <-h.done:
			return
		case c := <-h.register:
			clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case n := <-h.broadcast:
			payload, err := json.Marshal(n)
			if err != nil {
				h.logger.Error("marshal notification failed", slog.String("error", err.Error()))
				continue
			}
			for c := range clients {
				select {
				case c.send <- payload:
				default:
					// slow client loses the message instead of stalling dispatch
					h.logger.Warn("client send buffer full, dropping notification",
						slog.Int64("order_id", n.OrderID))
				}
			}
		}
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writeLoop()
	go c.readLoop(h)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop drains the connection so close frames are processed and detaches
// the client once the peer goes away.
func (c *client) readLoop(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
