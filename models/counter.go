package models

// OrderCounter is a single-row sequence backing order numbers. The row is
// bumped with an UPDATE inside the order-creation transaction so two
// concurrent creations can never read the same value.
type OrderCounter struct {
	Name  string `gorm:"primary_key"`
	Value int64  `gorm:"not null;default:0"`
}

const OrderCounterName = "orders"
