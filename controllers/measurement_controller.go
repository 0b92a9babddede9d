package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
	"gorm.io/gorm"
)

// UpsertMeasurementRequest represents the request body for recording
// measurements on an order
type UpsertMeasurementRequest struct {
	Values map[string]float64 `json:"values" binding:"required"`
	Notes  string             `json:"notes"`
}

// UpsertMeasurement handles PUT /api/v1/orders/:id/measurements - records or
// replaces the measurement set for an order with find-or-create-then-update
// semantics
func UpsertMeasurement(c *gin.Context) {
	var req UpsertMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

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

	var measurement models.Measurement
	err := db.Where("order_id = ?", order.ID).First(&measurement).Error
	switch {
	case err == nil:
		// Save through the model so the json serializer runs for Values;
		// a column map would hand the raw map to the driver
		measurement.Values = req.Values
		measurement.Notes = req.Notes
		if err := db.Save(&measurement).Error; err != nil {
			measurementError(c)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		measurement = models.Measurement{
			OrderID: order.ID,
			Values:  req.Values,
			Notes:   req.Notes,
		}
		if err := db.Create(&measurement).Error; err != nil {
			measurementError(c)
			return
		}
	default:
		measurementError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Measurements saved successfully",
		"data":    measurement,
	})
}

// GetMeasurement handles GET /api/v1/orders/:id/measurements - fetches the
// measurement set recorded for an order
func GetMeasurement(c *gin.Context) {
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

	var measurement models.Measurement
	if err := db.Where("order_id = ?", order.ID).First(&measurement).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MEASUREMENT_NOT_FOUND",
				"message": "No measurements recorded for this order",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    measurement,
	})
}

func measurementError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to save measurements",
		},
	})
}
