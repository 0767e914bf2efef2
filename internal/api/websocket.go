package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"collider/internal/world"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections
	// allowed.
	MaxWSConnectionsTotal = 200

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP.
	MaxWSConnectionsPerIP = 5
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The contact feed is read-only telemetry; any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient tracks a WebSocket connection with its source IP.
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub manages all WebSocket connections and broadcasts the contact
// feed: one message per tick with the confirmed contacts.
type WebSocketHub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*wsClient
	perIP    map[string]int
	stopChan chan struct{}
	stopOnce sync.Once
}

// contactEvent is one broadcast frame of the contact feed.
type contactEvent struct {
	Tick       int64           `json:"tick"`
	Contacts   []world.Contact `json:"contacts"`
	Candidates int             `json:"candidates"`
	Bodies     int             `json:"bodies"`
}

// NewWebSocketHub creates a hub with connection limiting.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:  make(map[*websocket.Conn]*wsClient),
		perIP:    make(map[string]int),
		stopChan: make(chan struct{}),
	}
}

// HandleWS upgrades the request and registers the connection.
func (h *WebSocketHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	h.mu.Lock()
	if len(h.clients) >= MaxWSConnectionsTotal || h.perIP[ip] >= MaxWSConnectionsPerIP {
		h.mu.Unlock()
		RecordConnectionRejected("ws_limit")
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}
	h.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = &wsClient{conn: conn, ip: ip}
	h.perIP[ip]++
	count := len(h.clients)
	h.mu.Unlock()

	wsConnectionsActive.Set(float64(count))
	log.Printf("🔌 WebSocket connected from %s (%d active)", ip, count)

	// Reader goroutine exists only to observe close; the feed is one-way.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		h.perIP[client.ip]--
		if h.perIP[client.ip] <= 0 {
			delete(h.perIP, client.ip)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		conn.Close()
		wsConnectionsActive.Set(float64(count))
	}
}

// StartBroadcastLoop begins publishing the contact feed from the world's
// snapshots at the given interval. It also forwards tick stats to
// prometheus, making this loop the single observer of the simulation.
func (h *WebSocketHub) StartBroadcastLoop(w WorldInterface, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var lastTick int64
		for {
			select {
			case <-ticker.C:
				snap := w.Snapshot()
				if snap.Tick == lastTick {
					continue // world has not advanced
				}
				lastTick = snap.Tick
				RecordSnapshot(snap)
				h.broadcast(contactEvent{
					Tick:       snap.Tick,
					Contacts:   snap.Contacts,
					Candidates: len(snap.Candidates),
					Bodies:     len(snap.Bodies),
				})
			case <-h.stopChan:
				return
			}
		}
	}()
}

// Stop halts the broadcast loop and closes all connections.
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*wsClient)
	h.perIP = make(map[string]int)
}

func (h *WebSocketHub) broadcast(ev contactEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(conn)
			continue
		}
		wsMessagesTotal.Inc()
	}
}
