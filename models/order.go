package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses as stored in the status column.
const (
	OrderStatusInProcess = "In Process"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Event types an order item may carry. Each type appears at most once per order.
var OrderItemTypes = []string{"nikkah", "mehndi", "barat", "wallima", "other"}

const MaxOrderItems = 4

type Order struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	OrderNumber string    `gorm:"uniqueIndex;not null" json:"orderNumber"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	BookingDate  time.Time `gorm:"not null" json:"bookingDate"`
	DeliveryDate time.Time `gorm:"not null" json:"deliveryDate"`
	Status       string    `gorm:"type:varchar(20);default:'In Process'" json:"status"`
	Comments     string    `json:"comments"`

	TotalAmount   float64 `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	AdvancePaid   float64 `gorm:"type:decimal(10,2);default:0.0" json:"advancePaid"`
	Balance       float64 `gorm:"type:decimal(10,2);default:0.0" json:"balance"`
	PaymentMethod string  `json:"paymentMethod"`

	MeasurementID      *uuid.UUID `gorm:"type:uuid;index" json:"measurementId"`
	FittingPreferences string     `json:"fittingPreferences"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`

	gorm.Model
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	OrderType   string    `gorm:"type:varchar(20);not null" json:"orderType"`
	Description string    `gorm:"type:text" json:"description"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
