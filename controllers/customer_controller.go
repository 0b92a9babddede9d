package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
	"gorm.io/gorm"
)

// UpdateCustomerRequest represents the request body for updating a customer
// profile and its linked user record
type UpdateCustomerRequest struct {
	Name        string                      `json:"name"`
	Email       string                      `json:"email" binding:"omitempty,email"`
	Phone       string                      `json:"phone"`
	Address     *string                     `json:"address"`
	Preferences *models.CustomerPreferences `json:"preferences"`
}

// ListCustomers handles GET /api/v1/customers - lists all customers with
// their user data, newest first
func ListCustomers(c *gin.Context) {
	db := config.GetDB()

	var customers []models.Customer
	if err := db.Preload("User").Order("created_at DESC").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// GetCustomer handles GET /api/v1/customers/:id - fetches a single customer
func GetCustomer(c *gin.Context) {
	db := config.GetDB()

	var customer models.Customer
	if err := db.Preload("User").First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// UpdateCustomer handles PUT /api/v1/customers/:id - updates the customer
// profile and its linked user record (admin only)
func UpdateCustomer(c *gin.Context) {
	var req UpdateCustomerRequest
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
	var customer models.Customer
	if err := db.Preload("User").First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		userUpdates := make(map[string]interface{})
		if req.Name != "" {
			userUpdates["name"] = req.Name
		}
		if req.Email != "" {
			userUpdates["email"] = req.Email
		}
		if req.Phone != "" {
			userUpdates["phone"] = req.Phone
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&customer.User).Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		// Struct update with Select so the json serializer runs for
		// preferences; a column map would hand the raw struct to the driver
		var patch models.Customer
		fields := make([]string, 0, 2)
		if req.Address != nil {
			patch.Address = *req.Address
			fields = append(fields, "address")
		}
		if req.Preferences != nil {
			patch.Preferences = *req.Preferences
			fields = append(fields, "preferences")
		}
		if len(fields) > 0 {
			return tx.Model(&customer).Select(fields).Updates(patch).Error
		}
		return nil
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_EXISTS",
					"message": "A user with this email already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update customer",
			},
		})
		return
	}

	if err := db.Preload("User").First(&customer, customer.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer updated successfully",
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id - deletes a customer
// and their user account, but only when no order references them (admin only)
func DeleteCustomer(c *gin.Context) {
	db := config.GetDB()

	var customer models.Customer
	if err := db.Preload("User").First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	// Guard: the profile can only go when no order references it
	var orderCount int64
	if err := db.Model(&models.Order{}).Where("customer_id = ?", customer.ID).Count(&orderCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check customer orders",
			},
		})
		return
	}
	if orderCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_HAS_ORDERS",
				"message": fmt.Sprintf("Cannot delete customer. They have %d existing orders.", orderCount),
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&customer).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, customer.UserID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted successfully",
	})
}
