package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/olivierh59500/particlelife/internal/life"
)

// MaxClients caps concurrent websocket viewers.
const MaxClients = 64

// Hub fans simulation frames out to websocket viewers. Only Run writes to
// connections.
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]struct{}
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a hub. checkOrigin may be nil to accept same-host origins
// only, as gorilla/websocket does by default.
func NewHub(log *slog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     checkOrigin,
		},
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan []byte, 4),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.log.Info("viewer connected", "remote", conn.RemoteAddr().String(), "viewers", count)

		case conn := <-h.unregister:
			h.drop(conn)

		case message := <-h.broadcast:
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()
			for _, conn := range conns {
				_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
				if err := conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
					h.drop(conn)
				}
			}
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()
	if ok {
		conn.Close()
		h.log.Info("viewer disconnected", "viewers", count)
	}
}

// Broadcast queues a frame for every viewer. Frames are dropped while the
// queue is full.
func (h *Hub) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and registers the viewer. Incoming
// messages are read and discarded so close frames are processed.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= MaxClients {
		http.Error(w, "Too many viewers", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// StartBroadcastLoop sends a frame of src every interval while viewers are
// connected. It returns when ctx is done.
func (h *Hub) StartBroadcastLoop(ctx context.Context, src Source, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		snap     []life.Particle
		frame    Frame
		lastTick uint64
		sent     bool
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if h.ClientCount() == 0 {
			continue
		}
		tick := src.Tick()
		if sent && tick == lastTick {
			continue
		}
		snap = src.Snapshot(snap)
		w, ht := src.Bounds()
		frame.Fill(tick, w, ht, snap)
		data, err := EncodeFrame(&frame)
		if err != nil {
			h.log.Error("encode frame", "err", err)
			continue
		}
		if h.Broadcast(data) {
			lastTick, sent = tick, true
		}
	}
}
