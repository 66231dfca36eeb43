package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is a ledger entry against an order. Entries are written once;
// amending or voiding one refreshes the order's balance snapshot in the
// same transaction.
type Payment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Amount        float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string    `gorm:"not null" json:"paymentMethod"`
	PaymentDate   time.Time `gorm:"not null" json:"paymentDate"`
	Notes         string    `json:"notes"`

	CreatedAt time.Time      `json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
