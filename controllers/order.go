// controllers/order.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"tailorpro-backend/config"
	"tailorpro-backend/models"
	"tailorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemInput defines the structure for one typed line entry
type OrderItemInput struct {
	OrderType   string `json:"orderType" binding:"required,oneof=nikkah mehndi barat wallima other"`
	Description string `json:"description"`
}

// CreateOrderInput defines the expected JSON structure for creating an order
type CreateOrderInput struct {
	CustomerID         uuid.UUID        `json:"customerId" binding:"required"`
	BookingDate        *time.Time       `json:"bookingDate"`
	DeliveryDate       time.Time        `json:"deliveryDate" binding:"required"`
	Status             string           `json:"status" binding:"omitempty,oneof='In Process' Delivered Cancelled"`
	Comments           string           `json:"comments"`
	TotalAmount        float64          `json:"totalAmount" binding:"min=0"`
	AdvancePaid        float64          `json:"advancePaid" binding:"min=0"`
	PaymentMethod      string           `json:"paymentMethod"`
	MeasurementID      *uuid.UUID       `json:"measurementId"`
	FittingPreferences string           `json:"fittingPreferences"`
	Items              []OrderItemInput `json:"items" binding:"required,min=1,max=4,dive"`
}

// UpdateOrderInput defines the expected JSON structure for updating an order
type UpdateOrderInput struct {
	CustomerID         *uuid.UUID        `json:"customerId"`
	BookingDate        *time.Time        `json:"bookingDate"`
	DeliveryDate       *time.Time        `json:"deliveryDate"`
	Status             *string           `json:"status" binding:"omitempty,oneof='In Process' Delivered Cancelled"`
	Comments           *string           `json:"comments"`
	TotalAmount        *float64          `json:"totalAmount" binding:"omitempty,min=0"`
	AdvancePaid        *float64          `json:"advancePaid" binding:"omitempty,min=0"`
	PaymentMethod      *string           `json:"paymentMethod"`
	MeasurementID      *uuid.UUID        `json:"measurementId"`
	FittingPreferences *string           `json:"fittingPreferences"`
	Items              *[]OrderItemInput `json:"items" binding:"omitempty,min=1,max=4,dive"`
}

// nextOrderNumber bumps the single counter row and formats the result.
// The UPDATE takes a row lock that lives until the surrounding transaction
// commits, so two concurrent creations serialize instead of racing.
func nextOrderNumber(tx *gorm.DB) (string, error) {
	res := tx.Model(&models.OrderCounter{}).
		Where("name = ?", models.OrderCounterName).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		// First order ever: seed the counter row.
		if err := tx.Create(&models.OrderCounter{Name: models.OrderCounterName, Value: 1}).Error; err != nil {
			return "", err
		}
	}

	var counter models.OrderCounter
	if err := tx.Where("name = ?", models.OrderCounterName).First(&counter).Error; err != nil {
		return "", err
	}
	return utils.FormatOrderNumber(counter.Value), nil
}

// validateOrderItems enforces 1-4 items with no repeated event type.
func validateOrderItems(items []OrderItemInput) string {
	if len(items) == 0 {
		return "Order needs at least one item"
	}
	if len(items) > models.MaxOrderItems {
		return "Order cannot have more than 4 items"
	}
	seen := make(map[string]bool)
	for _, item := range items {
		known := false
		for _, t := range models.OrderItemTypes {
			if item.OrderType == t {
				known = true
				break
			}
		}
		if !known {
			return "Unknown order item type: " + item.OrderType
		}
		if seen[item.OrderType] {
			return "Duplicate order item type: " + item.OrderType
		}
		seen[item.OrderType] = true
	}
	return ""
}

// ledgerSum totals the payment ledger for one order.
func ledgerSum(db *gorm.DB, orderID uuid.UUID) (float64, error) {
	var sum float64
	err := db.Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// ledgerBalance computes the balance shown to the user: total minus the
// advance minus every ledger row. The stored snapshot is never trusted.
func ledgerBalance(db *gorm.DB, order *models.Order) (float64, error) {
	paid, err := ledgerSum(db, order.ID)
	if err != nil {
		return 0, err
	}
	return order.TotalAmount - order.AdvancePaid - paid, nil
}

// CreateOrder creates a new order with its items
func CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", input.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	bookingDate := time.Now()
	if input.BookingDate != nil {
		bookingDate = *input.BookingDate
	}
	if utils.BeginningOfDay(input.DeliveryDate).Before(utils.BeginningOfDay(bookingDate)) {
		utils.RespondWithError(c, http.StatusBadRequest, "Delivery date cannot be before booking date")
		return
	}

	if input.AdvancePaid > input.TotalAmount {
		utils.RespondWithError(c, http.StatusBadRequest, "Advance paid cannot exceed total amount")
		return
	}

	if msg := validateOrderItems(input.Items); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if input.MeasurementID != nil {
		var measurement models.Measurement
		if err := config.DB.Where("id = ? AND customer_id = ?", *input.MeasurementID, input.CustomerID).
			First(&measurement).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Measurement not found for this customer")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	status := models.OrderStatusInProcess
	if input.Status != "" {
		status = input.Status
	}

	var items []models.OrderItem
	for _, item := range input.Items {
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			OrderType:   item.OrderType,
			Description: item.Description,
		})
	}

	order := models.Order{
		ID:                 uuid.New(),
		CustomerID:         input.CustomerID,
		BookingDate:        bookingDate,
		DeliveryDate:       input.DeliveryDate,
		Status:             status,
		Comments:           input.Comments,
		TotalAmount:        input.TotalAmount,
		AdvancePaid:        input.AdvancePaid,
		Balance:            input.TotalAmount - input.AdvancePaid,
		PaymentMethod:      input.PaymentMethod,
		MeasurementID:      input.MeasurementID,
		FittingPreferences: input.FittingPreferences,
		Items:              items,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	number, err := nextOrderNumber(tx)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate order number")
		return
	}
	order.OrderNumber = number

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, order)
}

// GetOrders retrieves a page of orders matching the search/filter query
func GetOrders(c *gin.Context) {
	q := utils.ParseListQuery(c, "order_number", "booking_date", "delivery_date", "total_amount", "created_at")

	query := config.DB.Model(&models.Order{})

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.
			Select("orders.*").
			Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(orders.order_number) LIKE LOWER(?) OR LOWER(customers.name) LIKE LOWER(?)", pattern, pattern)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer_id format")
			return
		}
		query = query.Where("orders.customer_id = ?", customerUUID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("orders.status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("orders.booking_date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("orders.booking_date <= ?", utils.EndOfDay(toDate))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count orders")
		return
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("orders." + q.OrderClause()).
		Offset(q.Offset()).Limit(q.PageSize).
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	// Replace each snapshot balance with the ledger-computed one.
	for i := range orders {
		balance, err := ledgerBalance(config.DB, &orders[i])
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balances")
			return
		}
		orders[i].Balance = balance
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orders,
		"pagination": utils.Paginate(q, total),
	})
}

// GetOrder retrieves a specific order with its items and payments
func GetOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").Preload("Payments").
		Where("id = ?", orderUUID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	balance, err := ledgerBalance(config.DB, &order)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
		return
	}
	order.Balance = balance

	c.JSON(http.StatusOK, order)
}

// UpdateOrder updates an existing order. The order number never changes.
func UpdateOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items").Where("id = ?", orderUUID).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := tx.Where("id = ?", *input.CustomerID).First(&customer).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		order.CustomerID = *input.CustomerID

		// The ledger rows carry the owning customer too.
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ?", order.ID).
			Update("customer_id", *input.CustomerID).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reassign payments")
			return
		}
	}

	if input.BookingDate != nil {
		order.BookingDate = *input.BookingDate
	}
	if input.DeliveryDate != nil {
		order.DeliveryDate = *input.DeliveryDate
	}
	if utils.BeginningOfDay(order.DeliveryDate).Before(utils.BeginningOfDay(order.BookingDate)) {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Delivery date cannot be before booking date")
		return
	}

	if input.TotalAmount != nil {
		order.TotalAmount = *input.TotalAmount
	}
	if input.AdvancePaid != nil {
		order.AdvancePaid = *input.AdvancePaid
	}
	if order.AdvancePaid > order.TotalAmount {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Advance paid cannot exceed total amount")
		return
	}

	if input.MeasurementID != nil {
		var measurement models.Measurement
		if err := tx.Where("id = ? AND customer_id = ?", *input.MeasurementID, order.CustomerID).
			First(&measurement).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Measurement not found for this customer")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		order.MeasurementID = input.MeasurementID
	}

	if input.Status != nil {
		order.Status = *input.Status
	}
	if input.Comments != nil {
		order.Comments = *input.Comments
	}
	if input.PaymentMethod != nil {
		order.PaymentMethod = *input.PaymentMethod
	}
	if input.FittingPreferences != nil {
		order.FittingPreferences = *input.FittingPreferences
	}

	// Items are replaced wholesale when provided.
	if input.Items != nil {
		if msg := validateOrderItems(*input.Items); msg != "" {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, msg)
			return
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}

		var newItems []models.OrderItem
		for _, item := range *input.Items {
			newItems = append(newItems, models.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				OrderType:   item.OrderType,
				Description: item.Description,
			})
		}
		order.Items = newItems
	}

	// Keep the snapshot consistent with the ledger. The new amounts must
	// still cover money already received.
	paid, err := ledgerSum(tx, order.ID)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
		return
	}
	if order.AdvancePaid+paid > order.TotalAmount {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Recorded payments would exceed the total amount")
		return
	}
	order.Balance = order.TotalAmount - order.AdvancePaid - paid

	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, order)
}

// DeleteOrder soft deletes an order and its items. Ledger rows are kept
// for bookkeeping.
func DeleteOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Where("id = ?", orderUUID).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order items")
		return
	}

	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
