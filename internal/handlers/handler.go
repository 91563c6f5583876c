package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/catalog"
	"crochet_storefront/internal/checkout"
	"crochet_storefront/internal/events"
	"crochet_storefront/internal/middleware"
	"crochet_storefront/internal/models"
	"crochet_storefront/internal/storefront"
)

// Handler expose la boutique en HTTP. Chaque requête agit sur la session du
// visiteur identifié par middleware.Visitor.
type Handler struct {
	shop     *storefront.Shop
	registry *storefront.Registry
	hub      *events.Hub
}

func New(shop *storefront.Shop, registry *storefront.Registry, hub *events.Hub) *Handler {
	return &Handler{shop: shop, registry: registry, hub: hub}
}

func (h *Handler) session(c *gin.Context) *storefront.Session {
	return h.registry.Get(c.GetString(middleware.ContextVisitor))
}

// IsAdmin sert de garde à middleware.RequireAdmin
func (h *Handler) IsAdmin(c *gin.Context) bool {
	return h.session(c).IsAdmin()
}

// respondError traduit une erreur métier en statut HTTP + {"error": message}
func respondError(c *gin.Context, err error) {
	var vErr *models.ValidationError
	var opErr *models.OperationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.As(err, &opErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": opErr.Message})
	case errors.Is(err, storefront.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
	case errors.Is(err, storefront.ErrBusy):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Enregistrement déjà en cours"})
	case errors.Is(err, storefront.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
	case errors.Is(err, catalog.ErrNotConfirmed):
		c.JSON(http.StatusConflict, gin.H{"error": catalog.ConfirmDelete})
	case errors.Is(err, storefront.ErrEditorClosed), errors.Is(err, storefront.ErrFormClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, storefront.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votre panier est vide"})
	default:
		log.Printf("❌ Erreur inattendue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
	}
}

// =============================================
// CONFIG / ÉTAT
// =============================================

func (h *Handler) GetConfig(c *gin.Context) {
	categories := []models.Category{models.CategoryAll}
	categories = append(categories, models.Categories...)
	c.JSON(http.StatusOK, gin.H{
		"brand":      h.shop.Settings.BrandName,
		"whatsapp":   h.shop.Settings.WhatsAppNumber,
		"currency":   checkout.Currency,
		"categories": categories,
	})
}

// CheckGateway est le test de connexion au backend
func (h *Handler) CheckGateway(c *gin.Context) {
	if err := h.shop.CheckGateway(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Test de connexion échoué: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": storefront.HealthOK})
}

func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Snapshot(c.Request.Context()))
}

func (h *Handler) ToggleTheme(c *gin.Context) {
	// une préférence non enregistrée reste appliquée à la vue
	theme, _ := h.session(c).ToggleTheme(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// Events ouvre le flux websocket des relectures
func (h *Handler) Events(c *gin.Context) {
	h.hub.ServeHTTP(c.Writer, c.Request)
}
