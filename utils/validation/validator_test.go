package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAadhaarNumber(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		value string
		want  bool
	}{
		{"123456789012", true},
		{"000000000000", true},
		{"12345", false},
		{"12345678901A", false},
		{"1234567890123", false},
		{"", false},
		{"+12345678901", false},
		{"1234 5678 90", false},
		{"१२३४५६७८९०१२", false}, // Devanagari digits
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsAadhaarNumber(tt.value))
		})
	}
}

func TestFormatValidationErrorsUsesWireNames(t *testing.T) {
	type request struct {
		WalletAddress string `json:"wallet_address" validate:"required"`
		AadhaarID     string `form:"aadhaar_id" validate:"required"`
		Year          int    `json:"graduation_year" validate:"gte=1900"`
	}

	err := NewValidator().ValidateStruct(request{Year: 10})
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	assert.Equal(t, "wallet_address is required", errs["wallet_address"])
	assert.Equal(t, "aadhaar_id is required", errs["aadhaar_id"])
	assert.Equal(t, "graduation_year must be greater than or equal to 1900", errs["graduation_year"])
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(assert.AnError))
}
