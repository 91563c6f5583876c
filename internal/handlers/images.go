package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/images"
	"crochet_storefront/internal/storefront"
)

// UploadImage place l'image du champ multipart "file" dans le champ ?target=
func (h *Handler) UploadImage(c *gin.Context) {
	target := c.DefaultQuery("target", storefront.FieldImagePreview)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'file' manquant"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier illisible"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		// type inconnu du navigateur : détecté sur le contenu
		contentType = ""
	}

	value, err := h.session(c).AcquireImage(c.Request.Context(), images.File{
		Name:        fileHeader.Filename,
		ContentType: contentType,
		Content:     file,
		Size:        fileHeader.Size,
	}, target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": target, "value": value})
}
