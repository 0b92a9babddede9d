package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
	"github.com/suitsync/suitsync-api/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Worker{},
		&models.Order{},
		&models.OrderItem{},
		&models.Measurement{},
		&models.Message{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func setupTestConfig() {
	config.SetConfig(&config.Config{
		DatabaseURL: "sqlite::memory:",
		GoEnv:       "test",
		JWTSecret:   "test-secret",
	})
}

// mockAuthMiddleware simulates the JWT middleware for testing.
// It sets up the context exactly as the real RequireAuth middleware does.
func mockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// createTestCustomer inserts a customer user and profile for tests
func createTestCustomer(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Customer) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		Name:     "Test Customer",
		Role:     "customer",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	customer := models.Customer{
		UserID: user.ID,
		Preferences: models.CustomerPreferences{
			FitType:          "regular",
			PreferredFabrics: []string{},
		},
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}

	return &user, &customer
}

// createTestWorker inserts a worker user and profile for tests
func createTestWorker(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Worker) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		Name:     "Test Worker",
		Role:     "worker",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	rate := 15.0
	worker := models.Worker{
		UserID:      user.ID,
		Skills:      []string{"stitching"},
		PaymentType: models.PaymentHourly,
		HourlyRate:  &rate,
		IsActive:    true,
	}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("Failed to create test worker: %v", err)
	}

	return &user, &worker
}

func TestRegister(t *testing.T) {
	setupTestConfig()

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkState     func(t *testing.T, db *gorm.DB)
	}{
		{
			name: "Successfully register customer with profile",
			requestBody: map[string]interface{}{
				"email":   "amir@example.com",
				"name":    "Amir Khan",
				"phone":   "555-0100",
				"role":    "customer",
				"address": "12 Tailor Lane",
			},
			expectedStatus: http.StatusCreated,
			checkState: func(t *testing.T, db *gorm.DB) {
				var user models.User
				assert.NoError(t, db.Where("email = ?", "amir@example.com").First(&user).Error)
				assert.Equal(t, "customer", user.Role)
				assert.True(t, user.IsActive)

				var customer models.Customer
				assert.NoError(t, db.Where("user_id = ?", user.ID).First(&customer).Error)
				assert.Equal(t, "12 Tailor Lane", customer.Address)
				assert.Equal(t, 0, customer.TotalOrders)
				assert.Equal(t, "regular", customer.Preferences.FitType)
			},
		},
		{
			name: "Successfully register worker with hourly pay model",
			requestBody: map[string]interface{}{
				"email":        "tailor@example.com",
				"name":         "Master Tailor",
				"role":         "worker",
				"skills":       []string{"cutting", "stitching"},
				"payment_type": "hourly",
				"hourly_rate":  20.5,
				"monthly_fee":  5000.0,
			},
			expectedStatus: http.StatusCreated,
			checkState: func(t *testing.T, db *gorm.DB) {
				var user models.User
				assert.NoError(t, db.Where("email = ?", "tailor@example.com").First(&user).Error)

				var worker models.Worker
				assert.NoError(t, db.Where("user_id = ?", user.ID).First(&worker).Error)
				assert.Equal(t, []string{"cutting", "stitching"}, worker.Skills)
				assert.Equal(t, models.PaymentHourly, worker.PaymentType)

				// Exactly one pay-model field is populated
				assert.NotNil(t, worker.HourlyRate)
				assert.Equal(t, 20.5, *worker.HourlyRate)
				assert.Nil(t, worker.MonthlyFee, "Monthly fee should be ignored for hourly workers")
				assert.Nil(t, worker.PieceRate)
			},
		},
		{
			name: "Register deactivated account",
			requestBody: map[string]interface{}{
				"email":     "dormant@example.com",
				"name":      "Dormant Customer",
				"role":      "customer",
				"is_active": false,
			},
			expectedStatus: http.StatusCreated,
			checkState: func(t *testing.T, db *gorm.DB) {
				// The explicit false must survive the insert
				var user models.User
				assert.NoError(t, db.Where("email = ?", "dormant@example.com").First(&user).Error)
				assert.False(t, user.IsActive)
			},
		},
		{
			name: "Fail with missing name",
			requestBody: map[string]interface{}{
				"email": "noname@example.com",
				"role":  "customer",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with unknown role",
			requestBody: map[string]interface{}{
				"email": "ghost@example.com",
				"name":  "Ghost",
				"role":  "manager",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with invalid email",
			requestBody: map[string]interface{}{
				"email": "not-an-email",
				"name":  "Someone",
				"role":  "customer",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			config.SetDB(db)

			router := setupTestRouter()
			router.POST("/auth/register", Register)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				assert.True(t, response["success"].(bool))
				assert.NotEmpty(t, response["token"], "Registration should return a token")
			}

			if tt.checkState != nil {
				tt.checkState(t, db)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	createTestCustomer(t, db, "existing@example.com")

	router := setupTestRouter()
	router.POST("/auth/register", Register)

	body, _ := json.Marshal(map[string]interface{}{
		"email": "existing@example.com",
		"name":  "Duplicate",
		"role":  "customer",
	})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "EMAIL_EXISTS", errorData["code"])

	// The failed registration must not leave a second user behind
	var count int64
	db.Model(&models.User{}).Where("email = ?", "existing@example.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	setupTestConfig()
	db := setupTestDB(t)
	config.SetDB(db)

	user, _ := createTestCustomer(t, db, "login@example.com")

	// Deactivated account for the inactive case
	hashed, _ := utils.HashPassword("password123")
	inactive := models.User{
		Email:    "inactive@example.com",
		Password: hashed,
		Name:     "Gone",
		Role:     "customer",
		IsActive: false,
	}
	db.Create(&inactive)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successful login",
			requestBody: map[string]interface{}{
				"email":    "login@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail with wrong password",
			requestBody: map[string]interface{}{
				"email":    "login@example.com",
				"password": "wrong-password",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Fail with unknown email",
			requestBody: map[string]interface{}{
				"email":    "nobody@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Fail with inactive account",
			requestBody: map[string]interface{}{
				"email":    "inactive@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Fail with missing password",
			requestBody: map[string]interface{}{
				"email": "login@example.com",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/auth/login", Login)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				assert.True(t, response["success"].(bool))
				assert.NotEmpty(t, response["token"])

				userData := response["user"].(map[string]interface{})
				assert.Equal(t, float64(user.ID), userData["id"])
				assert.Equal(t, "login@example.com", userData["email"])
			}
		})
	}
}
