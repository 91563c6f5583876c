package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/admin"
)

func (h *Handler) adminResponse(c *gin.Context, status int) {
	snap := h.session(c).Peek(c.Request.Context())
	c.JSON(status, gin.H{"admin": snap.Admin})
}

// ToggleAdmin : un admin redevient invité, un invité voit la demande de mot de passe
func (h *Handler) ToggleAdmin(c *gin.Context) {
	h.session(c).ToggleAdmin()
	h.adminResponse(c, http.StatusOK)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !h.session(c).SubmitAdminPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": admin.ErrorMessage})
		return
	}
	h.adminResponse(c, http.StatusOK)
}

func (h *Handler) AdminLogout(c *gin.Context) {
	h.session(c).LogoutAdmin()
	h.adminResponse(c, http.StatusOK)
}

func (h *Handler) CloseAdminPrompt(c *gin.Context) {
	h.session(c).CloseAdminPrompt()
	h.adminResponse(c, http.StatusOK)
}
