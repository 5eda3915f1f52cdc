package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
	"github.com/stretchr/testify/assert"
)

func TestCheckIdentityFormat(t *testing.T) {
	m := metrics.New()
	identity := NewIdentityService(nil, m)

	tests := []struct {
		aadhaarID string
		name      string
		want      model.IdentityCheckResult
	}{
		{"123456789012", "Alice", model.IdentityCheckResult{Verified: true, Name: "Alice", AadhaarID: "123456789012", Message: "Aadhaar verification successful"}},
		{"12345", "Bob", model.IdentityCheckResult{Verified: false, Name: "Bob", AadhaarID: "12345", Message: "Invalid Aadhaar number"}},
		{"12345678901A", "Bob", model.IdentityCheckResult{Verified: false, Name: "Bob", AadhaarID: "12345678901A", Message: "Invalid Aadhaar number"}},
	}

	for _, tt := range tests {
		t.Run(tt.aadhaarID, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.CheckIdentityFormat(tt.aadhaarID, tt.name))
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdentityChecks.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.IdentityChecks.WithLabelValues("false")))
}
