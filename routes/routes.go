package routes

import (
	"os"
	"strings"

	"tailorpro-backend/config"
	"tailorpro-backend/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	api := r.Group("/api")
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PATCH("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PATCH("/:id", controllers.UpdateOrder)
			orders.DELETE("/:id", controllers.DeleteOrder)
		}

		// Measurement routes
		measurements := api.Group("/measurements")
		{
			measurements.POST("", controllers.CreateMeasurement)
			measurements.GET("", controllers.GetMeasurements)
			measurements.GET("/:id", controllers.GetMeasurement)
			measurements.PUT("/:id", controllers.UpdateMeasurement)
			measurements.DELETE("/:id", controllers.DeleteMeasurement)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
			payments.PATCH("/:id", controllers.UpdatePayment)
			payments.DELETE("/:id", controllers.DeletePayment)
		}

		// Dashboard stats
		api.GET("/stats", controllers.GetStats)

		// Reminder logs
		api.GET("/reminders/logs", controllers.GetReminderLogs)
	}

	return r
}
