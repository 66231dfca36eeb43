package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryReminderLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time `json:"sentAt"`

	gorm.Model
}

func (r *DeliveryReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
