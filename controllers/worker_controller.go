package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/models"
	"gorm.io/gorm"
)

// UpdateWorkerRequest represents the request body for updating a worker
// profile and its linked user record
type UpdateWorkerRequest struct {
	Name             string               `json:"name"`
	Email            string               `json:"email" binding:"omitempty,email"`
	Phone            string               `json:"phone"`
	Skills           []string             `json:"skills"`
	PaymentType      *string              `json:"payment_type" binding:"omitempty,oneof=hourly monthly per_piece"`
	HourlyRate       *float64             `json:"hourly_rate"`
	MonthlyFee       *float64             `json:"monthly_fee"`
	PieceRate        *float64             `json:"piece_rate"`
	Specialization   *string              `json:"specialization"`
	Experience       *int                 `json:"experience"`
	Address          *string              `json:"address"`
	EmergencyContact *string              `json:"emergency_contact"`
	JoinDate         *time.Time           `json:"join_date"`
	IsActive         *bool                `json:"is_active"`
	WorkingHours     *models.WorkingHours `json:"working_hours"`
	WorkHistory      *string              `json:"work_history"`
}

// workerView is a worker decorated with its derived occupancy fields
type workerView struct {
	models.Worker
	CurrentOrders int    `json:"current_orders"`
	Status        string `json:"status"`
}

// ListWorkers handles GET /api/v1/workers - lists all workers with their
// occupancy derived from assigned orders on this read, never stored
func ListWorkers(c *gin.Context) {
	db := config.GetDB()

	var workers []models.Worker
	if err := db.Preload("User").Preload("AssignedOrders").Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch workers",
			},
		})
		return
	}

	views := make([]workerView, 0, len(workers))
	for _, worker := range workers {
		views = append(views, workerView{
			Worker:        worker,
			CurrentOrders: worker.CurrentOrders(),
			Status:        worker.OccupancyStatus(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// GetWorker handles GET /api/v1/workers/:id - fetches a single worker with
// derived occupancy
func GetWorker(c *gin.Context) {
	db := config.GetDB()

	var worker models.Worker
	if err := db.Preload("User").Preload("AssignedOrders").
		First(&worker, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKER_NOT_FOUND",
				"message": "Worker not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": workerView{
			Worker:        worker,
			CurrentOrders: worker.CurrentOrders(),
			Status:        worker.OccupancyStatus(),
		},
	})
}

// UpdateWorker handles PUT /api/v1/workers/:id - updates the worker profile
// and its linked user record (admin only). When the payment type changes the
// rate fields of the other pay models are cleared so exactly one stays set.
func UpdateWorker(c *gin.Context) {
	var req UpdateWorkerRequest
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
	var worker models.Worker
	if err := db.Preload("User").First(&worker, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKER_NOT_FOUND",
				"message": "Worker not found",
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
			if err := tx.Model(&worker.User).Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		// Struct update with Select so the json serializer runs for skills,
		// working hours and work history; selected zero values (cleared rate
		// fields, is_active=false) still reach the database
		var patch models.Worker
		fields := make([]string, 0, 12)
		if req.Skills != nil {
			patch.Skills = req.Skills
			fields = append(fields, "skills")
		}
		if req.Specialization != nil {
			patch.Specialization = *req.Specialization
			fields = append(fields, "specialization")
		}
		if req.Experience != nil {
			patch.Experience = *req.Experience
			fields = append(fields, "experience")
		}
		if req.Address != nil {
			patch.Address = *req.Address
			fields = append(fields, "address")
		}
		if req.EmergencyContact != nil {
			patch.EmergencyContact = *req.EmergencyContact
			fields = append(fields, "emergency_contact")
		}
		if req.JoinDate != nil {
			patch.JoinDate = *req.JoinDate
			fields = append(fields, "join_date")
		}
		if req.IsActive != nil {
			patch.IsActive = *req.IsActive
			fields = append(fields, "is_active")
		}
		if req.WorkingHours != nil {
			patch.WorkingHours = *req.WorkingHours
			fields = append(fields, "working_hours")
		}
		if req.WorkHistory != nil {
			patch.WorkHistory = *req.WorkHistory
			fields = append(fields, "work_history")
		}

		paymentType := worker.PaymentType
		if req.PaymentType != nil {
			paymentType = *req.PaymentType
			patch.PaymentType = paymentType
			fields = append(fields, "payment_type")
		}
		if req.PaymentType != nil || req.HourlyRate != nil || req.MonthlyFee != nil || req.PieceRate != nil {
			// Exactly one pay-model field stays populated
			fields = append(fields, "hourly_rate", "monthly_fee", "piece_rate")
			switch paymentType {
			case models.PaymentHourly:
				patch.HourlyRate = req.HourlyRate
			case models.PaymentMonthly:
				patch.MonthlyFee = req.MonthlyFee
			case models.PaymentPerPiece:
				patch.PieceRate = req.PieceRate
			}
		}

		if len(fields) > 0 {
			return tx.Model(&worker).Select(fields).Updates(patch).Error
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
				"message": "Failed to update worker",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("AssignedOrders").First(&worker, worker.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated worker",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Worker updated successfully",
		"data": workerView{
			Worker:        worker,
			CurrentOrders: worker.CurrentOrders(),
			Status:        worker.OccupancyStatus(),
		},
	})
}

// DeleteWorker handles DELETE /api/v1/workers/:id - deletes a worker and
// their user account in one transaction (admin only). Assigned orders keep
// their rows; the reference is cleared.
func DeleteWorker(c *gin.Context) {
	db := config.GetDB()

	var worker models.Worker
	if err := db.First(&worker, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKER_NOT_FOUND",
				"message": "Worker not found",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("worker_id = ?", worker.ID).
			Update("worker_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&worker).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, worker.UserID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete worker",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Worker and associated user deleted successfully",
	})
}
