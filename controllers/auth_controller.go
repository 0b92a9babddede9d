package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
	"github.com/suitsync/suitsync-api/services"
	"github.com/suitsync/suitsync-api/utils"
	"gorm.io/gorm"
)

// DefaultPassword is assigned to accounts created on someone's behalf
// (walk-in customers registered by the shop during order creation)
const DefaultPassword = "defaultPassword123"

// RegisterRequest represents the request body for registering a user.
// Worker-specific fields are ignored unless role is "worker".
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required,oneof=admin customer worker"`
	IsActive *bool  `json:"is_active"`

	// Customer fields
	Address string `json:"address"`

	// Worker fields
	Skills           []string             `json:"skills"`
	PaymentType      string               `json:"payment_type"`
	HourlyRate       *float64             `json:"hourly_rate"`
	MonthlyFee       *float64             `json:"monthly_fee"`
	PieceRate        *float64             `json:"piece_rate"`
	Specialization   string               `json:"specialization"`
	Experience       int                  `json:"experience"`
	EmergencyContact string               `json:"emergency_contact"`
	WorkingHours     *models.WorkingHours `json:"working_hours"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates a user and its
// role profile (customer or worker) in a single transaction
func Register(c *gin.Context) {
	var req RegisterRequest
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

	password := req.Password
	if password == "" {
		password = DefaultPassword
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HASH_ERROR",
				"message": "Failed to process password",
			},
		})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	db := config.GetDB()
	user := models.User{
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
		IsActive: isActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch req.Role {
		case "customer":
			customer := models.Customer{
				UserID:  user.ID,
				Address: req.Address,
				Preferences: models.CustomerPreferences{
					FitType:          "regular",
					PreferredFabrics: []string{},
				},
			}
			return tx.Create(&customer).Error
		case "worker":
			worker := newWorkerFromRequest(user.ID, &req)
			return tx.Create(worker).Error
		}
		return nil
	})
	if err != nil {
		// Check for duplicate email (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMAIL_EXISTS",
					"message": "User already exists with this email",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Registration failed",
			},
		})
		return
	}

	token, err := services.GenerateToken(user.ID, user.Role, []byte(config.GetConfig().JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to generate token",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
			"name":  user.Name,
		},
	})
}

// Login handles POST /api/v1/auth/login - verifies credentials and issues a token
func Login(c *gin.Context) {
	var req LoginRequest
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
	var user models.User
	if err := db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid credentials",
			},
		})
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid credentials",
			},
		})
		return
	}

	token, err := services.GenerateToken(user.ID, user.Role, []byte(config.GetConfig().JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to generate token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
			"name":  user.Name,
		},
	})
}

// newWorkerFromRequest builds a Worker row from registration fields,
// keeping exactly one pay-model field populated for the chosen payment type
func newWorkerFromRequest(userID uint, req *RegisterRequest) *models.Worker {
	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentHourly
	}

	worker := &models.Worker{
		UserID:           userID,
		Skills:           req.Skills,
		PaymentType:      paymentType,
		Specialization:   req.Specialization,
		Experience:       req.Experience,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		JoinDate:         time.Now(),
		IsActive:         true,
		WorkingHours: models.WorkingHours{
			Start:       "09:00",
			End:         "18:00",
			DaysPerWeek: 6,
		},
	}
	if worker.Skills == nil {
		worker.Skills = []string{}
	}
	if req.WorkingHours != nil {
		worker.WorkingHours = *req.WorkingHours
	}

	switch paymentType {
	case models.PaymentHourly:
		worker.HourlyRate = req.HourlyRate
	case models.PaymentMonthly:
		worker.MonthlyFee = req.MonthlyFee
	case models.PaymentPerPiece:
		worker.PieceRate = req.PieceRate
	}

	return worker
}
