package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
)

func measurementRouter() *gin.Engine {
	router := setupTestRouter()
	router.Use(mockAuthMiddleware(1, "admin"))
	router.PUT("/orders/:id/measurements", UpsertMeasurement)
	router.GET("/orders/:id/measurements", GetMeasurement)
	return router
}

func TestUpsertMeasurement(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	_, customer := createTestCustomer(t, db, "measure@example.com")
	order := createTestOrder(t, db, customer.ID, nil, models.OrderReceived)

	router := measurementRouter()

	t.Run("First write creates the set", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"values": map[string]float64{"chest": 40, "waist": 34, "sleeve": 24.5},
			"notes":  "Measured over a shirt",
		})
		req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%d/measurements", order.ID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stored models.Measurement
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&stored).Error)
		assert.Equal(t, 40.0, stored.Values["chest"])
		assert.Equal(t, 24.5, stored.Values["sleeve"])
		assert.Equal(t, "Measured over a shirt", stored.Notes)
	})

	t.Run("Second write replaces, never duplicates", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"values": map[string]float64{"chest": 41, "shoulder": 18},
		})
		req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%d/measurements", order.ID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.Model(&models.Measurement{}).Where("order_id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(1), count, "An order carries at most one measurement set")

		var stored models.Measurement
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&stored).Error)
		assert.Equal(t, 41.0, stored.Values["chest"])
		assert.Equal(t, 18.0, stored.Values["shoulder"])
		_, hasWaist := stored.Values["waist"]
		assert.False(t, hasWaist, "The whole value bag is replaced, not merged")
	})

	t.Run("Unknown order", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"values": map[string]float64{"chest": 40},
		})
		req, _ := http.NewRequest(http.MethodPut, "/orders/9999/measurements", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing values rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"notes": "nothing measured"})
		req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%d/measurements", order.ID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetMeasurement(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	_, customer := createTestCustomer(t, db, "read-measure@example.com")
	withSet := createTestOrder(t, db, customer.ID, nil, models.OrderReceived)
	withoutSet := createTestOrder(t, db, customer.ID, nil, models.OrderReceived)

	measurement := models.Measurement{
		OrderID: withSet.ID,
		Values:  map[string]float64{"chest": 42},
	}
	require.NoError(t, db.Create(&measurement).Error)

	router := measurementRouter()

	t.Run("Found", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d/measurements", withSet.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		data := response["data"].(map[string]interface{})
		values := data["values"].(map[string]interface{})
		assert.Equal(t, 42.0, values["chest"])
	})

	t.Run("Order without measurements", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d/measurements", withoutSet.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "MEASUREMENT_NOT_FOUND", errorData["code"])
	})
}
