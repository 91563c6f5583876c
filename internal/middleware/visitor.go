package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"crochet_storefront/internal/storefront"
)

const (
	SessionName    = "mc_visitor"
	ContextVisitor = "visitor_id"

	visitorKey = "visitor_id"
	cookieAge  = 86400 * 30
)

// NewCookieStore signe le cookie visiteur avec secret
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieAge,
		HttpOnly: true,
		Secure:   secure, // false en dev, true derrière HTTPS
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Visitor attribue à chaque navigateur un identifiant stable (cookie signé)
// et le place dans le contexte gin sous ContextVisitor
func Visitor(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// un cookie illisible (secret changé, falsifié) donne une session neuve
		sess, err := store.Get(c.Request, SessionName)
		if err != nil {
			log.Printf("⚠️ Cookie visiteur invalide, nouveau visiteur: %v", err)
		}

		id, _ := sess.Values[visitorKey].(string)
		if id == "" {
			id = storefront.NewVisitorID()
			sess.Values[visitorKey] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				log.Printf("❌ Erreur enregistrement cookie visiteur: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Session indisponible"})
				c.Abort()
				return
			}
		}

		c.Set(ContextVisitor, id)
		c.Next()
	}
}
