// controllers/payment.go
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

// CreatePaymentInput defines the expected JSON structure for recording a payment
type CreatePaymentInput struct {
	OrderID       uuid.UUID  `json:"orderId" binding:"required"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	PaymentMethod string     `json:"paymentMethod" binding:"required"`
	PaymentDate   *time.Time `json:"paymentDate"`
	Notes         string     `json:"notes"`
}

// UpdatePaymentInput defines the expected JSON structure for amending a payment
type UpdatePaymentInput struct {
	Amount        *float64   `json:"amount" binding:"omitempty,gt=0"`
	PaymentMethod *string    `json:"paymentMethod"`
	PaymentDate   *time.Time `json:"paymentDate"`
	Notes         *string    `json:"notes"`
}

// refreshOrderBalance rewrites the order's snapshot from the ledger. Runs
// in the same transaction as the ledger write so the snapshot can never
// drift from the true balance.
func refreshOrderBalance(tx *gorm.DB, order *models.Order) error {
	paid, err := ledgerSum(tx, order.ID)
	if err != nil {
		return err
	}
	balance := order.TotalAmount - order.AdvancePaid - paid
	order.Balance = balance
	return tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("balance", balance).Error
}

// CreatePayment appends a ledger entry against an order
func CreatePayment(c *gin.Context) {
	var input CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}
	if utils.BeginningOfDay(paymentDate).After(utils.BeginningOfDay(time.Now())) {
		utils.RespondWithError(c, http.StatusBadRequest, "Payment date cannot be in the future")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Where("id = ?", input.OrderID).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Keep the ledger within the agreed total.
	paid, err := ledgerSum(tx, order.ID)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
		return
	}
	if order.AdvancePaid+paid+input.Amount > order.TotalAmount {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Payment exceeds the remaining balance")
		return
	}

	payment := models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentDate:   paymentDate,
		Notes:         input.Notes,
	}

	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	if err := refreshOrderBalance(tx, &order); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order balance")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, payment)
}

// GetPayments retrieves a page of ledger entries matching the filters
func GetPayments(c *gin.Context) {
	q := utils.ParseListQuery(c, "amount", "payment_date", "created_at")

	query := config.DB.Model(&models.Payment{})
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.
			Select("payments.*").
			Joins("JOIN orders ON orders.id = payments.order_id").
			Where("LOWER(orders.order_number) LIKE LOWER(?) OR LOWER(payments.notes) LIKE LOWER(?)", pattern, pattern)
	}
	if orderID := c.Query("order_id"); orderID != "" {
		orderUUID, err := uuid.Parse(orderID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid order_id format")
			return
		}
		query = query.Where("payments.order_id = ?", orderUUID)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer_id format")
			return
		}
		query = query.Where("payments.customer_id = ?", customerUUID)
	}
	if from := c.Query("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("payments.payment_date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("payments.payment_date <= ?", utils.EndOfDay(toDate))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count payments")
		return
	}

	var payments []models.Payment
	if err := query.Order("payments." + q.OrderClause()).
		Offset(q.Offset()).Limit(q.PageSize).
		Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       payments,
		"pagination": utils.Paginate(q, total),
	})
}

// UpdatePayment amends a ledger entry and refreshes the order snapshot
func UpdatePayment(c *gin.Context) {
	paymentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	var input UpdatePaymentInput
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

	var payment models.Payment
	if err := tx.Where("id = ?", paymentUUID).First(&payment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var order models.Order
	if err := tx.Where("id = ?", payment.OrderID).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Order for this payment has been deleted")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Amount != nil {
		paid, err := ledgerSum(tx, order.ID)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
			return
		}
		if order.AdvancePaid+paid-payment.Amount+*input.Amount > order.TotalAmount {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Payment exceeds the remaining balance")
			return
		}
		payment.Amount = *input.Amount
	}
	if input.PaymentMethod != nil {
		payment.PaymentMethod = *input.PaymentMethod
	}
	if input.PaymentDate != nil {
		if utils.BeginningOfDay(*input.PaymentDate).After(utils.BeginningOfDay(time.Now())) {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Payment date cannot be in the future")
			return
		}
		payment.PaymentDate = *input.PaymentDate
	}
	if input.Notes != nil {
		payment.Notes = *input.Notes
	}

	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment")
		return
	}

	if err := refreshOrderBalance(tx, &order); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order balance")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, payment)
}

// DeletePayment voids a ledger entry and refreshes the order snapshot
func DeletePayment(c *gin.Context) {
	paymentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var payment models.Payment
	if err := tx.Where("id = ?", paymentUUID).First(&payment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var order models.Order
	if err := tx.Where("id = ?", payment.OrderID).First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Order for this payment has been deleted")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Delete(&payment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment")
		return
	}

	if err := refreshOrderBalance(tx, &order); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order balance")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
