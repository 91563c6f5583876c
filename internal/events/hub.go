// Package events pousse aux vues connectées (websocket) les relectures du
// catalogue et des avis, pour qu'elles se rafraîchissent sans recharger.
package events

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crochet_storefront/internal/models"
)

const (
	TypeConnected         = "connected"
	TypeProductsRefreshed = "products_refreshed"
	TypeReviewsRefreshed  = "reviews_refreshed"

	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type Event struct {
	Type    string `json:"type"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub : checkOrigin nil accepte toutes les origines
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		clients:  make(map[*client]struct{}),
	}
}

// Broadcast n'attend jamais : un client dont le tampon est plein perd l'événement
func (h *Hub) Broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- e:
		default:
			log.Printf("⚠️ Client websocket saturé, événement %s perdu", e.Type)
		}
	}
}

// ProductsRefreshed s'abonne à catalog.Store.OnRefresh
func (h *Hub) ProductsRefreshed(_ context.Context, products []models.Product) {
	h.Broadcast(Event{Type: TypeProductsRefreshed, Count: len(products)})
}

// ReviewsRefreshed s'abonne à reviews.Store.OnRefresh
func (h *Hub) ReviewsRefreshed(_ context.Context, reviews []models.Review) {
	h.Broadcast(Event{Type: TypeReviewsRefreshed, Count: len(reviews)})
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	c.send <- Event{Type: TypeConnected, Message: "Synchronisation activée"}

	go h.readLoop(c)
	h.writeLoop(c)
}

// readLoop ne sert qu'à détecter la fermeture côté client
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()
	for {
		select {
		case e, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	_ = c.conn.Close()
}
