package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/checkout"
)

const qrSize = 256

// Checkout redirige le navigateur vers la messagerie : c'est le hand-off
func (h *Handler) Checkout(c *gin.Context) {
	link, err := h.session(c).Checkout(c.Request.Context(), checkout.OpenerFunc(func(context.Context, string) error {
		return nil
	}))
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("📲 Commande confiée à WhatsApp (visiteur %s)", h.session(c).Visitor())
	c.Redirect(http.StatusFound, link)
}

func (h *Handler) CheckoutMessage(c *gin.Context) {
	msg, link, err := h.session(c).CheckoutMessage()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "url": link})
}

// CheckoutQR rend le lien de commande en QR code PNG
func (h *Handler) CheckoutQR(c *gin.Context) {
	_, link, err := h.session(c).CheckoutMessage()
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := checkout.QRCode(link, qrSize)
	if err != nil {
		log.Printf("❌ Erreur génération QR code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "QR code indisponible"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
