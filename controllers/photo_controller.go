package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
	"github.com/suitsync/suitsync-api/services"
	"github.com/suitsync/suitsync-api/utils"
)

// UploadOrderPhoto handles POST /api/v1/orders/:id/photos - attaches a
// fabric/style reference photo to an order (admin only). A new upload
// replaces the previous photo.
func UploadOrderPhoto(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A photo file is required in the 'photo' form field",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	photoKey, err := photoService.UploadPhoto(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store photo",
			},
		})
		return
	}

	previousKey := order.PhotoKey
	if err := db.Model(&order).Update("photo_key", photoKey).Error; err != nil {
		// The row was not updated; don't leave the fresh upload orphaned
		if cleanupErr := photoService.DeletePhoto(photoKey); cleanupErr != nil {
			c.Error(cleanupErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save photo reference",
			},
		})
		return
	}

	// Replacing an existing photo: remove the old object best-effort
	if previousKey != nil && *previousKey != photoKey {
		if err := photoService.DeletePhoto(*previousKey); err != nil {
			c.Error(err)
		}
	}

	url, err := photoService.GetPhotoURL(photoKey)
	if err != nil {
		url = ""
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Photo uploaded successfully",
		"data": gin.H{
			"photo_key": photoKey,
			"photo_url": url,
		},
	})
}
