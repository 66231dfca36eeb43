package controllers

import (
	"fmt"
	"net/http"
	"time"

	"tailorpro-backend/config"
	"tailorpro-backend/models"
	"tailorpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderStatusCounts struct {
	InProcess int64 `json:"inProcess"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

type UpcomingDelivery struct {
	OrderNumber  string `json:"orderNumber"`
	CustomerName string `json:"customerName"`
	DeliveryDate string `json:"deliveryDate"`
	Due          string `json:"due"` // e.g. "Today", "Tomorrow", "3 days"
}

// GetStats returns the aggregate numbers behind the dashboard screen.
func GetStats(c *gin.Context) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count customers")
		return
	}

	var totalOrders int64
	if err := config.DB.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count orders")
		return
	}

	var byStatus OrderStatusCounts
	config.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusInProcess).Count(&byStatus.InProcess)
	config.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusDelivered).Count(&byStatus.Delivered)
	config.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&byStatus.Cancelled)

	// Revenue is money actually received: advances plus ledger entries.
	var totalAdvances, totalPayments float64
	config.DB.Model(&models.Order{}).Select("COALESCE(SUM(advance_paid), 0)").Scan(&totalAdvances)
	config.DB.Model(&models.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalPayments)
	totalRevenue := totalAdvances + totalPayments

	var monthAdvances, monthPayments float64
	config.DB.Model(&models.Order{}).
		Where("booking_date >= ?", firstOfMonth).
		Select("COALESCE(SUM(advance_paid), 0)").Scan(&monthAdvances)
	config.DB.Model(&models.Payment{}).
		Where("payment_date >= ?", firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthPayments)
	monthlyRevenue := monthAdvances + monthPayments

	// Outstanding money across open orders, always ledger-computed.
	var openAgreed, openPaid float64
	config.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusInProcess).
		Select("COALESCE(SUM(total_amount - advance_paid), 0)").Scan(&openAgreed)
	config.DB.Model(&models.Payment{}).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.status = ? AND orders.deleted_at IS NULL", models.OrderStatusInProcess).
		Select("COALESCE(SUM(payments.amount), 0)").Scan(&openPaid)
	outstandingBalance := openAgreed - openPaid

	upcoming := upcomingDeliveries(now, 7)

	trend := monthlyTrend(now, 6)

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers":     totalCustomers,
		"totalOrders":        totalOrders,
		"ordersByStatus":     byStatus,
		"totalRevenue":       totalRevenue,
		"monthlyRevenue":     monthlyRevenue,
		"outstandingBalance": outstandingBalance,
		"upcomingDeliveries": upcoming,
		"monthlyTrend":       trend,
	})
}

// upcomingDeliveries lists open orders due within the window, soonest first.
func upcomingDeliveries(now time.Time, days int) []UpcomingDelivery {
	windowEnd := utils.BeginningOfDay(now).AddDate(0, 0, days+1)

	type dueRow struct {
		OrderNumber  string
		Name         string
		DeliveryDate time.Time
	}
	var rows []dueRow
	config.DB.Model(&models.Order{}).
		Select("orders.order_number, customers.name, orders.delivery_date").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.status = ? AND orders.delivery_date >= ? AND orders.delivery_date < ?",
			models.OrderStatusInProcess, utils.BeginningOfDay(now), windowEnd).
		Order("orders.delivery_date ASC").
		Limit(10).
		Scan(&rows)

	deliveries := []UpcomingDelivery{}
	for _, r := range rows {
		daysUntil := utils.DaysBetween(now, r.DeliveryDate)
		var due string
		switch daysUntil {
		case 0:
			due = "Today"
		case 1:
			due = "Tomorrow"
		default:
			due = fmt.Sprintf("%d days", daysUntil)
		}
		deliveries = append(deliveries, UpcomingDelivery{
			OrderNumber:  r.OrderNumber,
			CustomerName: r.Name,
			DeliveryDate: r.DeliveryDate.Format("2006-01-02"),
			Due:          due,
		})
	}
	return deliveries
}

// monthlyTrend buckets received money by calendar month for the trailing
// window, oldest month first. Bucketing happens in Go so the query stays
// plain row fetches.
func monthlyTrend(now time.Time, months int) []MonthlyRevenue {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	buckets := make(map[string]float64)

	type orderRow struct {
		BookingDate time.Time
		AdvancePaid float64
	}
	var orderRows []orderRow
	config.DB.Model(&models.Order{}).
		Select("booking_date, advance_paid").
		Where("booking_date >= ?", start).
		Scan(&orderRows)
	for _, r := range orderRows {
		buckets[r.BookingDate.Format("2006-01")] += r.AdvancePaid
	}

	type paymentRow struct {
		PaymentDate time.Time
		Amount      float64
	}
	var paymentRows []paymentRow
	config.DB.Model(&models.Payment{}).
		Select("payment_date, amount").
		Where("payment_date >= ?", start).
		Scan(&paymentRows)
	for _, r := range paymentRows {
		buckets[r.PaymentDate.Format("2006-01")] += r.Amount
	}

	trend := make([]MonthlyRevenue, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		trend = append(trend, MonthlyRevenue{Month: month, Revenue: buckets[month]})
	}
	return trend
}
