// Package admin implémente la porte d'accès au mode administrateur.
//
// Ce n'est PAS une authentification : un seul secret partagé (en clair ou
// sous forme de hash Argon2id), sans jeton ni expiration, sans verrouillage
// ni limite de tentatives. Elle ne fait que masquer les actions de gestion du
// catalogue aux visiteurs.
package admin

import (
	"crypto/subtle"
	"log"
)

// ErrorMessage est le message affiché pour tout mot de passe refusé
const ErrorMessage = "Mot de passe incorrect"

type State int

const (
	Guest State = iota
	Admin
)

func (s State) String() string {
	if s == Admin {
		return "admin"
	}
	return "guest"
}

type Gate struct {
	secret     string
	hash       string
	state      State
	promptOpen bool
	password   string
	err        string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// NewHashedGate compare les saisies à un hash produit par HashSecret
func NewHashedGate(hash string) *Gate {
	return &Gate{hash: hash}
}

// Toggle : un admin repasse invité sans confirmation, un invité voit le prompt
func (g *Gate) Toggle() {
	if g.state == Admin {
		g.Logout()
		return
	}
	g.promptOpen = true
	g.err = ""
	g.password = ""
}

// Submit compare la saisie au secret. En cas d'échec le prompt reste ouvert.
func (g *Gate) Submit(password string) bool {
	g.password = password
	if g.matches(password) {
		g.state = Admin
		g.promptOpen = false
		g.err = ""
		g.password = ""
		return true
	}
	g.err = ErrorMessage
	return false
}

func (g *Gate) matches(password string) bool {
	if g.hash == "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) == 1
	}
	ok, err := VerifySecret(password, g.hash)
	if err != nil {
		log.Printf("❌ ADMIN_PASSWORD_HASH illisible: %v", err)
		return false
	}
	return ok
}

func (g *Gate) Logout() {
	g.state = Guest
}

// ClosePrompt abandonne la saisie sans changer l'état
func (g *Gate) ClosePrompt() {
	g.promptOpen = false
	g.err = ""
	g.password = ""
}

func (g *Gate) State() State { return g.state }
func (g *Gate) IsAdmin() bool { return g.state == Admin }
func (g *Gate) PromptOpen() bool { return g.promptOpen }
func (g *Gate) Error() string { return g.err }
func (g *Gate) Password() string { return g.password }
