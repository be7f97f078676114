package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second // must stay below wsPongWait
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // CORS is handled at the HTTP layer
}

// Hub fans out per-sale broadcasts to every client subscribed to that
// sale, structurally the same register/unregister/broadcast loop the
// reference node uses for its single global hub, but keyed by saleId
// instead of a free-form channel string.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool // saleId -> clients

	register   chan *Client
	unregister chan *Client
	broadcast  chan saleBroadcast

	log *zap.Logger
}

type saleBroadcast struct {
	saleID  string
	message []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan saleBroadcast, 256),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.saleID] == nil {
				h.clients[client.saleID] = make(map[*Client]bool)
			}
			h.clients[client.saleID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.saleID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
				}
			}
			h.mu.Unlock()

		case b := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients[b.saleID] {
				select {
				case client.send <- b.message:
				default:
					h.log.Warn("dropping slow websocket client", zap.String("saleId", b.saleID))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastStats sends a stats frame to every subscriber of saleID.
func (h *Hub) BroadcastStats(saleID string, data interface{}) {
	h.broadcastTyped(saleID, "stats", data)
}

func (h *Hub) broadcastTyped(saleID, typ string, data interface{}) {
	payload, err := json.Marshal(WSServerMessage{Type: typ, Data: data})
	if err != nil {
		h.log.Warn("marshal broadcast failed", zap.Error(err))
		return
	}
	h.broadcast <- saleBroadcast{saleID: saleID, message: payload}
}

// Client is one websocket connection pinned to a single sale; §6.2 scopes
// the whole connection to /ws/sales/:saleId rather than letting it
// subscribe to arbitrary channels.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	saleID string
	server *Server
}

func (c *Client) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg WSClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendJSON(WSServerMessage{Type: "error", Message: "Invalid message"})
			continue
		}

		switch msg.Type {
		case "ping":
			c.sendJSON(WSServerMessage{Type: "pong"})
		case "get_stats":
			c.server.handleWSGetStats(c)
		case "get_my_status":
			c.server.handleWSGetMyStatus(c, msg.Txid)
		default:
			c.sendJSON(WSServerMessage{Type: "error", Message: "Invalid message"})
		}
	}
}

func (c *Client) sendJSON(msg WSServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// handleWebSocket implements GET /ws/sales/:saleId: a non-existent sale
// gets one error frame then the connection closes, per §6.2.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "saleId")

	if _, ok, err := s.store.LoadSale(saleID); err != nil || !ok {
		conn, upErr := upgrader.Upgrade(w, r, nil)
		if upErr != nil {
			return
		}
		conn.WriteJSON(WSServerMessage{Type: "error", Message: "Sale not found"})
		conn.Close()
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: s.hub, conn: conn, send: make(chan []byte, 256), saleID: saleID, server: s}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
