package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
)

// GetStats handles GET /api/v1/admin/stats - dashboard statistics computed
// from the current state of the store on every request, no caching
func GetStats(c *gin.Context) {
	db := config.GetDB()

	var totalCustomers, totalWorkers, totalOrders int64
	if err := db.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		statsError(c)
		return
	}
	if err := db.Model(&models.Worker{}).Count(&totalWorkers).Error; err != nil {
		statsError(c)
		return
	}
	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		statsError(c)
		return
	}

	// Histogram of orders by status
	var statuses []string
	if err := db.Model(&models.Order{}).Pluck("status", &statuses).Error; err != nil {
		statsError(c)
		return
	}
	ordersByStatus := make(map[string]int)
	for _, status := range statuses {
		ordersByStatus[status]++
	}

	// Worker occupancy is derived from each worker's open orders, the same
	// way the workers listing reports it
	var workers []models.Worker
	if err := db.Preload("AssignedOrders").Find(&workers).Error; err != nil {
		statsError(c)
		return
	}
	workersByStatus := map[string]int{"available": 0, "busy": 0}
	for _, worker := range workers {
		workersByStatus[worker.OccupancyStatus()]++
	}

	var totalRevenue, pendingPayments float64
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&totalRevenue).Error; err != nil {
		statsError(c)
		return
	}
	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(balance_amount), 0)").Scan(&pendingPayments).Error; err != nil {
		statsError(c)
		return
	}

	averageOrderValue := 0.0
	if totalOrders > 0 {
		averageOrderValue = math.Round(totalRevenue / float64(totalOrders))
	}

	var recentOrders []models.Order
	if err := db.Preload("Customer.User").Preload("Worker.User").
		Order("created_at DESC").Limit(5).
		Find(&recentOrders).Error; err != nil {
		statsError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"totalCustomers":  totalCustomers,
			"totalWorkers":    totalWorkers,
			"totalOrders":     totalOrders,
			"ordersByStatus":  ordersByStatus,
			"workersByStatus": workersByStatus,
			"paymentStats": gin.H{
				"totalRevenue":      totalRevenue,
				"pendingPayments":   pendingPayments,
				"collectedPayments": totalRevenue - pendingPayments,
				"averageOrderValue": averageOrderValue,
			},
			"recentOrders": recentOrders,
			"generatedAt":  time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// FixOrderCounts handles POST /api/v1/admin/fix-order-counts - recomputes
// every customer's denormalized order count from the actual order rows
// (admin only)
func FixOrderCounts(c *gin.Context) {
	db := config.GetDB()

	var customers []models.Customer
	if err := db.Find(&customers).Error; err != nil {
		statsError(c)
		return
	}

	for _, customer := range customers {
		var actual int64
		if err := db.Model(&models.Order{}).
			Where("customer_id = ?", customer.ID).
			Count(&actual).Error; err != nil {
			statsError(c)
			return
		}
		if int(actual) != customer.TotalOrders {
			if err := db.Model(&models.Customer{}).
				Where("id = ?", customer.ID).
				UpdateColumn("total_orders", actual).Error; err != nil {
				statsError(c)
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order counts fixed successfully",
	})
}

func statsError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to compute statistics",
		},
	})
}
