package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/models"
	"crochet_storefront/internal/storefront"
)

// ListProducts : ?category= change le filtre du visiteur
func (h *Handler) ListProducts(c *gin.Context) {
	sess := h.session(c)
	if category, ok := c.GetQuery("category"); ok {
		if err := sess.SetCategory(models.Category(category)); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"products": sess.VisibleProducts(),
		"category": sess.Category(),
	})
}

func (h *Handler) SearchProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.shop.Search.Search(c.Request.Context(), c.Query("q"))})
}

// OpenProductEditor : {"product_id": "..."} pour modifier, corps vide pour créer
func (h *Handler) OpenProductEditor(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if err := h.session(c).OpenProductEditor(req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CloseProductEditor(c *gin.Context) {
	h.session(c).CloseProductEditor()
	c.Status(http.StatusNoContent)
}

// CreateProduct enregistre le formulaire ouvert en création
func (h *Handler) CreateProduct(c *gin.Context) {
	h.saveProduct(c, "", http.StatusCreated)
}

// UpdateProduct enregistre le formulaire ouvert sur :id
func (h *Handler) UpdateProduct(c *gin.Context) {
	h.saveProduct(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) saveProduct(c *gin.Context, id string, status int) {
	sess := h.session(c)
	if target, open := sess.EditorTarget(); !open || target != id {
		respondError(c, storefront.ErrEditorClosed)
		return
	}

	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if err := sess.SaveProduct(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"products": h.shop.Catalog.Products()})
}

// DeleteProduct exige ?confirm=true, la confirmation de la vue
func (h *Handler) DeleteProduct(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	err := h.session(c).DeleteProduct(c.Request.Context(), c.Param("id"), func(string) bool {
		return confirmed
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": h.shop.Catalog.Products()})
}
