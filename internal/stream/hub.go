// Package stream broadcasts ocean frames to websocket clients.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 200 * time.Millisecond

// Hub fans frames out to every connected client. Each frame is a binary
// heightfield message followed by a JSON quad list.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	lastFrame uint64
	startTime time.Time
	device    string
}

func NewHub(device string) *Hub {
	return &Hub{
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
		device:    device,
	}
}

// HandleFramesWS upgrades the request and registers the client until its
// connection closes.
func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()
	log.Info().Str("component", "stream").Str("remote", conn.RemoteAddr().String()).Int("clients", count).Msg("client connected")

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			log.Info().Str("component", "stream").Str("remote", conn.RemoteAddr().String()).Msg("client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports the last published frame.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"frame_id": h.lastFrame,
		"clients":  len(h.clients),
		"uptime_s": time.Since(h.startTime).Seconds(),
		"device":   h.device,
	}
	h.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends the current frame of src. Nothing is encoded when no client
// is connected.
func (h *Hub) Publish(src Source) {
	h.mu.Lock()
	h.lastFrame = src.FrameID()
	idle := len(h.clients) == 0
	h.mu.Unlock()
	if idle {
		return
	}
	quads, err := json.Marshal(quadList(src))
	if err != nil {
		log.Error().Err(err).Msg("encode quad list")
		return
	}
	h.broadcast(websocket.BinaryMessage, EncodeHeightfield(src))
	h.broadcast(websocket.TextMessage, quads)
}

func (h *Hub) broadcast(kind int, b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(kind, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeTimeout))
		c.Close()
	}
}
