// utils/ordernumber.go
package utils

import "fmt"

const OrderNumberPrefix = "ORD-"

// FormatOrderNumber renders a counter value as the human-readable order
// number, e.g. 7 -> "ORD-00007". Values past 99999 widen instead of
// wrapping.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("%s%05d", OrderNumberPrefix, seq)
}
