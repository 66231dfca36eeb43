package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"tailorpro-backend/config"
	"tailorpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points config.DB at a fresh in-memory database. The handlers
// read the package-level handle, so tests swap it per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Measurement{},
		&models.Payment{},
		&models.OrderCounter{},
		&models.DeliveryReminderLog{},
	))

	config.DB = db
	return db
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	{
		customers := api.Group("/customers")
		customers.POST("", CreateCustomer)
		customers.GET("", GetCustomers)
		customers.GET("/:id", GetCustomer)
		customers.PATCH("/:id", UpdateCustomer)
		customers.DELETE("/:id", DeleteCustomer)

		orders := api.Group("/orders")
		orders.POST("", CreateOrder)
		orders.GET("", GetOrders)
		orders.GET("/:id", GetOrder)
		orders.PATCH("/:id", UpdateOrder)
		orders.DELETE("/:id", DeleteOrder)

		measurements := api.Group("/measurements")
		measurements.POST("", CreateMeasurement)
		measurements.GET("", GetMeasurements)
		measurements.GET("/:id", GetMeasurement)
		measurements.PUT("/:id", UpdateMeasurement)
		measurements.DELETE("/:id", DeleteMeasurement)

		payments := api.Group("/payments")
		payments.POST("", CreatePayment)
		payments.GET("", GetPayments)
		payments.PATCH("/:id", UpdatePayment)
		payments.DELETE("/:id", DeletePayment)

		api.GET("/stats", GetStats)
		api.GET("/reminders/logs", GetReminderLogs)
	}

	return r
}

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func orderDeliveryDate() string {
	return time.Now().AddDate(0, 0, 7).Format(time.RFC3339)
}

func createTestCustomer(t *testing.T, db *gorm.DB, name, phone string) models.Customer {
	t.Helper()
	customer := models.Customer{ID: uuid.New(), Name: name, Phone: phone}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func createTestOrder(t *testing.T, r *gin.Engine, customerID uuid.UUID, total, advance float64) map[string]interface{} {
	t.Helper()
	rec := performRequest(r, "POST", "/api/orders", map[string]interface{}{
		"customerId":   customerID,
		"deliveryDate": time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"totalAmount":  total,
		"advancePaid":  advance,
		"items": []map[string]interface{}{
			{"orderType": "barat", "description": "Sherwani with embroidery"},
		},
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}
