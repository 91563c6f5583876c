package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) cartResponse(c *gin.Context, status int) {
	snap := h.session(c).Peek(c.Request.Context())
	c.JSON(status, gin.H{
		"items":       snap.Cart,
		"total":       snap.Total,
		"total_label": snap.TotalLabel,
		"count":       snap.Count,
		"open":        snap.CartOpen,
	})
}

func (h *Handler) GetCart(c *gin.Context) {
	h.cartResponse(c, http.StatusOK)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'product_id' manquant"})
		return
	}
	if err := h.session(c).AddToCart(req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	h.cartResponse(c, http.StatusOK)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.session(c).RemoveFromCart(c.Param("id"))
	h.cartResponse(c, http.StatusOK)
}

// UpdateQuantity : {"delta": 1} ou {"delta": -1}, jamais sous 1
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'delta' invalide"})
		return
	}
	h.session(c).UpdateQuantity(c.Param("id"), req.Delta)
	h.cartResponse(c, http.StatusOK)
}

func (h *Handler) OpenCart(c *gin.Context) {
	h.session(c).OpenCart()
	h.cartResponse(c, http.StatusOK)
}

func (h *Handler) CloseCart(c *gin.Context) {
	h.session(c).CloseCart()
	h.cartResponse(c, http.StatusOK)
}
