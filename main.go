package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/controllers"
	"github.com/suitsync/suitsync-api/middleware"
	"github.com/suitsync/suitsync-api/models"
	"github.com/suitsync/suitsync-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting SuitSync API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Worker{},
		&models.Order{},
		&models.OrderItem{},
		&models.Measurement{},
		&models.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize photo storage when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitPhotoService(); err != nil {
			log.Fatalf("Failed to initialize photo storage: %v", err)
		}
		log.Println("Photo storage initialized")
	} else {
		log.Println("AWS_S3_BUCKET not set, order photos disabled")
	}

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all middleware and routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	auth := middleware.RequireAuth(cfg)
	admin := middleware.RequireAdmin()

	v1 := router.Group("/api/v1")
	{
		// Health check endpoints
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Authentication
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Orders
		v1.GET("/orders", auth, controllers.ListOrders)
		v1.POST("/orders", auth, admin, controllers.CreateOrder)
		v1.GET("/orders/:id", auth, controllers.GetOrder)
		v1.PUT("/orders/:id", auth, admin, controllers.UpdateOrder)
		v1.DELETE("/orders/:id", auth, admin, controllers.DeleteOrder)
		v1.PUT("/orders/:id/status", auth, controllers.UpdateOrderStatus)
		v1.GET("/orders/:id/invoice", auth, controllers.GetInvoice)
		v1.GET("/orders/:id/measurements", auth, controllers.GetMeasurement)
		v1.PUT("/orders/:id/measurements", auth, admin, controllers.UpsertMeasurement)
		v1.POST("/orders/:id/photos", auth, admin, controllers.UploadOrderPhoto)
		v1.GET("/orders/:id/messages", auth, controllers.ListMessages)
		v1.POST("/orders/:id/messages", auth, controllers.SendMessage)

		// Customers
		v1.GET("/customers", auth, controllers.ListCustomers)
		v1.GET("/customers/:id", auth, controllers.GetCustomer)
		v1.PUT("/customers/:id", auth, admin, controllers.UpdateCustomer)
		v1.DELETE("/customers/:id", auth, admin, controllers.DeleteCustomer)

		// Workers
		v1.GET("/workers", auth, controllers.ListWorkers)
		v1.GET("/workers/:id", auth, controllers.GetWorker)
		v1.PUT("/workers/:id", auth, admin, controllers.UpdateWorker)
		v1.DELETE("/workers/:id", auth, admin, controllers.DeleteWorker)

		// Admin / reporting
		v1.GET("/admin/stats", auth, controllers.GetStats)
		v1.POST("/admin/fix-order-counts", auth, admin, controllers.FixOrderCounts)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SuitSync API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
