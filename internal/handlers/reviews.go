package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/models"
)

func (h *Handler) ListReviews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reviews": h.shop.Reviews.Reviews()})
}

func (h *Handler) OpenReviewForm(c *gin.Context) {
	h.session(c).OpenReviewForm()
	c.Status(http.StatusNoContent)
}

func (h *Handler) CloseReviewForm(c *gin.Context) {
	h.session(c).CloseReviewForm()
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateReview(c *gin.Context) {
	var in models.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if err := h.session(c).SubmitReview(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reviews": h.shop.Reviews.Reviews()})
}
