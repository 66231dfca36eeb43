package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "ORD-00001", FormatOrderNumber(1))
	assert.Equal(t, "ORD-00042", FormatOrderNumber(42))
	assert.Equal(t, "ORD-99999", FormatOrderNumber(99999))
	assert.Equal(t, "ORD-100000", FormatOrderNumber(100000))
}
