package storefront

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry distribue les sessions par identifiant de visiteur
type Registry struct {
	shop *Shop
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(shop *Shop) *Registry {
	return &Registry{shop: shop, now: time.Now, sessions: make(map[string]*Session)}
}

// NewVisitorID fabrique l'identifiant stocké dans le cookie visiteur
func NewVisitorID() string {
	return uuid.NewString()
}

// Get renvoie la session du visiteur, créée au premier passage
func (r *Registry) Get(visitor string) *Session {
	r.mu.Lock()
	sess, ok := r.sessions[visitor]
	if !ok {
		sess = newSession(r.shop, visitor)
		r.sessions[visitor] = sess
	}
	r.mu.Unlock()
	sess.touch(r.now())
	return sess
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep oublie les sessions inactives depuis plus de maxIdle et renvoie
// combien ont été retirées
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, sess := range r.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
