package integration

import (
	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/config"
	"github.com/suitsync/suitsync-api/controllers"
	"github.com/suitsync/suitsync-api/middleware"
	"github.com/suitsync/suitsync-api/models"
	"github.com/suitsync/suitsync-api/tests/testutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newIntegrationRouter assembles the API's full route table with the real
// authentication middleware, the way main wires it for production
func newIntegrationRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()

	auth := middleware.RequireAuth(cfg)
	admin := middleware.RequireAdmin()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

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

		v1.GET("/customers", auth, controllers.ListCustomers)
		v1.GET("/customers/:id", auth, controllers.GetCustomer)
		v1.PUT("/customers/:id", auth, admin, controllers.UpdateCustomer)
		v1.DELETE("/customers/:id", auth, admin, controllers.DeleteCustomer)

		v1.GET("/workers", auth, controllers.ListWorkers)
		v1.GET("/workers/:id", auth, controllers.GetWorker)
		v1.PUT("/workers/:id", auth, admin, controllers.UpdateWorker)
		v1.DELETE("/workers/:id", auth, admin, controllers.DeleteWorker)

		v1.GET("/admin/stats", auth, controllers.GetStats)
		v1.POST("/admin/fix-order-counts", auth, admin, controllers.FixOrderCounts)
	}

	return router
}

// newIntegrationDB opens an in-memory database with the full schema
func newIntegrationDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Worker{},
		&models.Order{},
		&models.OrderItem{},
		&models.Measurement{},
		&models.Message{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// newIntegrationConfig returns a config suitable for integration tests
func newIntegrationConfig() *config.Config {
	return &config.Config{
		DatabaseURL: "sqlite::memory:",
		GoEnv:       "test",
		JWTSecret:   testutil.TestJWTSecret,
	}
}
