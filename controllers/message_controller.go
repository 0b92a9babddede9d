package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/middleware"
	"github.com/suitsync/suitsync-api/models"
	"gorm.io/gorm"
)

// SendMessageRequest represents the request body for posting on an order thread
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendMessage handles POST /api/v1/orders/:id/messages - posts a note on an
// order's thread. Admins can post on any order, customers only on their own
// orders, workers only on orders assigned to them.
func SendMessage(c *gin.Context) {
	user, order, ok := loadThreadParticipants(c)
	if !ok {
		return
	}

	var req SendMessageRequest
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
	message := models.Message{
		OrderID:  order.ID,
		SenderID: user.ID,
		Text:     req.Text,
	}
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create message",
			},
		})
		return
	}

	// Load the sender relationship to return complete data
	if err := db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load message details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/orders/:id/messages - lists an order's
// thread, oldest first, with the same access rules as SendMessage
func ListMessages(c *gin.Context) {
	_, order, ok := loadThreadParticipants(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var messages []models.Message
	if err := db.Where("order_id = ?", order.ID).
		Preload("Sender").
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// loadThreadParticipants resolves the caller and the order from the request
// and enforces thread access. On failure it writes the error response and
// returns ok=false.
func loadThreadParticipants(c *gin.Context) (*models.User, *models.Order, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User account not found",
			},
		})
		return nil, nil, false
	}

	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return nil, nil, false
	}

	canAccess := false
	switch user.Role {
	case "admin":
		canAccess = true
	case "customer":
		var customer models.Customer
		if err := db.Where("user_id = ?", user.ID).First(&customer).Error; err == nil {
			canAccess = order.CustomerID == customer.ID
		} else if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to resolve customer profile",
				},
			})
			return nil, nil, false
		}
	case "worker":
		var worker models.Worker
		if err := db.Where("user_id = ?", user.ID).First(&worker).Error; err == nil {
			canAccess = order.WorkerID != nil && *order.WorkerID == worker.ID
		} else if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to resolve worker profile",
				},
			})
			return nil, nil, false
		}
	}

	if !canAccess {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to access this order's messages",
			},
		})
		return nil, nil, false
	}

	return &user, &order, true
}
