package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name    string `gorm:"not null" json:"name"`
	Phone   string `gorm:"not null;uniqueIndex" json:"phone"`
	Address string `json:"address"`

	Orders       []Order       `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
	Measurements []Measurement `gorm:"foreignKey:CustomerID" json:"measurements,omitempty"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
