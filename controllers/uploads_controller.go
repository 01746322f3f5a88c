package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	utils "github.com/phillip/eventmate-go/utils"
)

// ---------------- UPLOAD THUMBNAIL ----------------
// Accepts a multipart "image" file and returns the hosted URL to put in
// an event's thumbnailImage field.
func UploadThumbnail(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		defer file.Close()

		url, err := utils.UploadToCloudinary(file, fileHeader)
		if err != nil {
			logger.Error("thumbnail upload failed", zap.String("file", fileHeader.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
