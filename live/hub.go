// Package live pushes role-scoped order snapshots over websockets. Every
// mutation to the ledger triggers a full re-derivation of each connected
// dashboard's view — consumers always receive the complete matching set,
// never an incremental diff.
package live

import (
	"net/http"
	"sync"
	"time"

	"pedidos-api/middleware"
	"pedidos-api/models"
	"pedidos-api/settlement"
	"pedidos-api/views"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards are served from a separate origin
		return true
	},
}

// Message is the envelope every push uses.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// DriverSnapshot is the full state a driver dashboard renders.
type DriverSnapshot struct {
	Available []models.Order `json:"available"`
	Mine      []models.Order `json:"mine"`
}

// RestaurantSnapshot is the full state a restaurant dashboard renders.
type RestaurantSnapshot struct {
	Incoming []models.Order `json:"incoming"`
	History  []models.Order `json:"history"`
}

// AdminSnapshot is the full state an admin dashboard renders.
type AdminSnapshot struct {
	Orders []models.Order `json:"orders"`
}

type client struct {
	conn   *websocket.Conn
	send   chan Message
	claims *middleware.Claims
}

// Hub tracks connected dashboards and re-derives their views on demand.
type Hub struct {
	db     *gorm.DB
	logger *logrus.Logger

	mu      sync.RWMutex
	clients map[*client]bool

	register   chan *client
	unregister chan *client
	notify     chan struct{}
}

func NewHub(db *gorm.DB, logger *logrus.Logger) *Hub {
	return &Hub{
		db:         db,
		logger:     logger,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		notify:     make(chan struct{}, 1),
	}
}

// Run owns the client set. Must be started once, before any handler fires.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.WithFields(logrus.Fields{
				"role": c.claims.Role, "client_count": count,
			}).Info("live client connected")
			h.push(c)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.WithField("client_count", count).Info("live client disconnected")

		case <-h.notify:
			h.mu.RLock()
			for c := range h.clients {
				h.push(c)
			}
			h.mu.RUnlock()
		}
	}
}

// OrderChanged signals that the ledger mutated. Coalesces bursts: a pending
// notification already covers any write that lands before it is processed.
func (h *Hub) OrderChanged() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// BroadcastSettlement pushes the payout summary to admin dashboards only.
func (h *Hub) BroadcastSettlement(rows []settlement.ReportRow) {
	msg := Message{Type: "settlement_summary", Data: rows, Timestamp: time.Now().Format(time.RFC3339)}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.claims.Role != models.RoleAdmin {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("live send buffer full, dropping settlement summary")
		}
	}
}

// push re-derives the client's role view and enqueues the full snapshot.
func (h *Hub) push(c *client) {
	data, err := h.snapshotFor(c.claims)
	if err != nil {
		h.logger.WithError(err).Error("failed to derive live snapshot")
		return
	}
	msg := Message{Type: "orders_snapshot", Data: data, Timestamp: time.Now().Format(time.RFC3339)}
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("live send buffer full, dropping snapshot")
	}
}

func (h *Hub) snapshotFor(claims *middleware.Claims) (interface{}, error) {
	switch claims.Role {
	case models.RoleDriver:
		available, err := views.DriverAvailable(h.db)
		if err != nil {
			return nil, err
		}
		mine, err := views.DriverMine(h.db, claims.UserID)
		if err != nil {
			return nil, err
		}
		return DriverSnapshot{Available: available, Mine: mine}, nil
	case models.RoleRestaurant:
		incoming, err := views.RestaurantIncoming(h.db)
		if err != nil {
			return nil, err
		}
		history, err := views.RestaurantHistory(h.db, claims.UserID)
		if err != nil {
			return nil, err
		}
		return RestaurantSnapshot{Incoming: incoming, History: history}, nil
	default:
		orders, err := views.AdminAll(h.db)
		if err != nil {
			return nil, err
		}
		return AdminSnapshot{Orders: orders}, nil
	}
}

// HandleWebSocket upgrades an authenticated dashboard connection. Browsers
// cannot set headers on websocket upgrades, so the JWT rides in a query
// parameter.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	claims, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("websocket upgrade failed")
		return
	}

	cl := &client{conn: conn, send: make(chan Message, 16), claims: claims}
	h.register <- cl

	go cl.writePump()
	go cl.readPump(h)
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount reports connected dashboards, for the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
