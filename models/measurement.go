package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Measurement is a named set of body measurements for a customer. All
// measurement fields are inches; nil means the tailor never took that one.
type Measurement struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`

	Name      string `gorm:"not null" json:"name"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`
	Notes     string `json:"notes"`

	Neck       *float64 `gorm:"type:decimal(5,2)" json:"neck"`
	Shoulder   *float64 `gorm:"type:decimal(5,2)" json:"shoulder"`
	Chest      *float64 `gorm:"type:decimal(5,2)" json:"chest"`
	Waist      *float64 `gorm:"type:decimal(5,2)" json:"waist"`
	Hip        *float64 `gorm:"type:decimal(5,2)" json:"hip"`
	KameezLen  *float64 `gorm:"type:decimal(5,2)" json:"kameezLength"`
	SleeveLen  *float64 `gorm:"type:decimal(5,2)" json:"sleeveLength"`
	Cuff       *float64 `gorm:"type:decimal(5,2)" json:"cuff"`
	Bicep      *float64 `gorm:"type:decimal(5,2)" json:"bicep"`
	Wrist      *float64 `gorm:"type:decimal(5,2)" json:"wrist"`
	Armhole    *float64 `gorm:"type:decimal(5,2)" json:"armhole"`
	FrontWidth *float64 `gorm:"type:decimal(5,2)" json:"frontWidth"`
	BackWidth  *float64 `gorm:"type:decimal(5,2)" json:"backWidth"`
	Daman      *float64 `gorm:"type:decimal(5,2)" json:"daman"`
	ShalwarLen *float64 `gorm:"type:decimal(5,2)" json:"shalwarLength"`
	BottomWid  *float64 `gorm:"type:decimal(5,2)" json:"bottomWidth"`
	TrouserLen *float64 `gorm:"type:decimal(5,2)" json:"trouserLength"`
	Inseam     *float64 `gorm:"type:decimal(5,2)" json:"inseam"`
	Thigh      *float64 `gorm:"type:decimal(5,2)" json:"thigh"`
	Knee       *float64 `gorm:"type:decimal(5,2)" json:"knee"`

	gorm.Model
}

func (m *Measurement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
