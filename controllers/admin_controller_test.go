package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
)

func adminRouter() *gin.Engine {
	router := setupTestRouter()
	router.Use(mockAuthMiddleware(1, "admin"))
	router.GET("/admin/stats", GetStats)
	router.POST("/admin/fix-order-counts", FixOrderCounts)
	return router
}

func TestGetStats(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	_, customerA := createTestCustomer(t, db, "stats-a@example.com")
	_, customerB := createTestCustomer(t, db, "stats-b@example.com")
	_, busyWorker := createTestWorker(t, db, "stats-busy@example.com")
	createTestWorker(t, db, "stats-idle@example.com")

	// Three orders: two open (one assigned), one delivered.
	// Each carries total 1000, advance 200, balance 800.
	createTestOrder(t, db, customerA.ID, &busyWorker.ID, models.OrderInProgress)
	createTestOrder(t, db, customerA.ID, nil, models.OrderReceived)
	createTestOrder(t, db, customerB.ID, nil, models.OrderDelivered)

	router := adminRouter()

	req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	stats := response["stats"].(map[string]interface{})
	assert.Equal(t, 2.0, stats["totalCustomers"])
	assert.Equal(t, 2.0, stats["totalWorkers"])
	assert.Equal(t, 3.0, stats["totalOrders"])

	ordersByStatus := stats["ordersByStatus"].(map[string]interface{})
	assert.Equal(t, 1.0, ordersByStatus[models.OrderInProgress])
	assert.Equal(t, 1.0, ordersByStatus[models.OrderReceived])
	assert.Equal(t, 1.0, ordersByStatus[models.OrderDelivered])

	workersByStatus := stats["workersByStatus"].(map[string]interface{})
	assert.Equal(t, 1.0, workersByStatus["busy"])
	assert.Equal(t, 1.0, workersByStatus["available"])

	paymentStats := stats["paymentStats"].(map[string]interface{})
	assert.Equal(t, 3000.0, paymentStats["totalRevenue"])
	assert.Equal(t, 2400.0, paymentStats["pendingPayments"])
	assert.Equal(t, 600.0, paymentStats["collectedPayments"])
	assert.Equal(t, 1000.0, paymentStats["averageOrderValue"])

	recentOrders := stats["recentOrders"].([]interface{})
	assert.Len(t, recentOrders, 3)
	assert.NotEmpty(t, stats["generatedAt"])
}

func TestGetStats_EmptyStore(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	router := adminRouter()

	req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	stats := response["stats"].(map[string]interface{})

	assert.Equal(t, 0.0, stats["totalOrders"])

	// The average must not divide by zero
	paymentStats := stats["paymentStats"].(map[string]interface{})
	assert.Equal(t, 0.0, paymentStats["averageOrderValue"])
	assert.Equal(t, 0.0, paymentStats["totalRevenue"])
}

func TestFixOrderCounts(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	_, drifted := createTestCustomer(t, db, "drifted@example.com")
	_, accurate := createTestCustomer(t, db, "accurate@example.com")

	createTestOrder(t, db, drifted.ID, nil, models.OrderReceived)
	createTestOrder(t, db, drifted.ID, nil, models.OrderDelivered)
	createTestOrder(t, db, accurate.ID, nil, models.OrderReceived)

	// Simulate drift on the first customer's counter
	require.NoError(t, db.Model(&models.Customer{}).
		Where("id = ?", drifted.ID).
		UpdateColumn("total_orders", 7).Error)

	router := adminRouter()

	req, _ := http.NewRequest(http.MethodPost, "/admin/fix-order-counts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var fixed models.Customer
	require.NoError(t, db.First(&fixed, drifted.ID).Error)
	assert.Equal(t, 2, fixed.TotalOrders)

	var untouched models.Customer
	require.NoError(t, db.First(&untouched, accurate.ID).Error)
	assert.Equal(t, 1, untouched.TotalOrders)
}
