// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tailorpro-backend/models"
	"tailorpro-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService texts customers whose orders are due for delivery soon.
type ReminderService struct {
	db         *gorm.DB
	client     *twilio.RestClient
	windowDays int
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	windowDays := 2
	if env := os.Getenv("REMINDER_WINDOW_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil && d > 0 {
			windowDays = d
		}
	}

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		windowDays: windowDays,
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDeliveryReminders)

	c.Start()
	log.Println("Delivery reminder scheduler started")
}

// SendDeliveryReminders texts every customer with an order due within the
// window that has not been reminded today.
func (s *ReminderService) SendDeliveryReminders() {
	log.Println("Starting delivery reminder processing...")

	orders, err := s.upcomingOrders()
	if err != nil {
		log.Printf("Failed to fetch upcoming orders: %v", err)
		return
	}

	for _, order := range orders {
		if s.remindedToday(order.ID) {
			continue
		}
		s.sendReminder(order)
	}

	log.Println("Delivery reminder processing completed")
}

func (s *ReminderService) upcomingOrders() ([]models.Order, error) {
	now := time.Now()
	windowEnd := utils.BeginningOfDay(now).AddDate(0, 0, s.windowDays+1)

	var orders []models.Order
	err := s.db.
		Where("status = ? AND delivery_date >= ? AND delivery_date < ?",
			models.OrderStatusInProcess, utils.BeginningOfDay(now), windowEnd).
		Find(&orders).Error
	return orders, err
}

func (s *ReminderService) remindedToday(orderID uuid.UUID) bool {
	var count int64
	s.db.Model(&models.DeliveryReminderLog{}).
		Where("order_id = ? AND status = ? AND sent_at >= ?",
			orderID, "sent", utils.BeginningOfDay(time.Now())).
		Count(&count)
	return count > 0
}

func (s *ReminderService) sendReminder(order models.Order) {
	var customer models.Customer
	if err := s.db.Where("id = ?", order.CustomerID).First(&customer).Error; err != nil {
		log.Printf("Order %s: customer lookup failed: %v", order.OrderNumber, err)
		return
	}

	daysLeft := utils.DaysBetween(time.Now(), order.DeliveryDate)
	var when string
	switch daysLeft {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", daysLeft)
	}
	message := fmt.Sprintf("Dear %s, your order %s is due for delivery %s. Please visit us to collect it.",
		customer.Name, order.OrderNumber, when)

	// WhatsApp for E.164 numbers, plain SMS otherwise.
	channel := "sms"
	to := customer.Phone
	if strings.HasPrefix(customer.Phone, "+") {
		to = "whatsapp:" + customer.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	status := "sent"
	errorMessage := ""
	if _, err := s.client.Api.CreateMessage(params); err != nil {
		status = "failed"
		errorMessage = err.Error()
		log.Printf("Order %s: reminder send failed: %v", order.OrderNumber, err)
	}

	logEntry := models.DeliveryReminderLog{
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		Channel:      channel,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMessage,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&logEntry).Error; err != nil {
		log.Printf("Order %s: failed to log reminder: %v", order.OrderNumber, err)
	}
}
