package services

import (
	"strconv"

	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
	"github.com/sahilchouksey/shikshachain/utils/validation"
)

const (
	msgAadhaarVerified = "Aadhaar verification successful"
	msgAadhaarInvalid  = "Invalid Aadhaar number"
)

// IdentityService is the mock Aadhaar check. It keeps no state and calls nothing external.
type IdentityService struct {
	validator *validation.Validator
	metrics   *metrics.Metrics
}

func NewIdentityService(v *validation.Validator, m *metrics.Metrics) *IdentityService {
	if v == nil {
		v = validation.NewValidator()
	}
	return &IdentityService{validator: v, metrics: m}
}

// CheckIdentityFormat accepts exactly twelve decimal digits. It never fails.
func (s *IdentityService) CheckIdentityFormat(aadhaarID, name string) model.IdentityCheckResult {
	verified := s.validator.IsAadhaarNumber(aadhaarID)

	if s.metrics != nil {
		s.metrics.IdentityChecks.WithLabelValues(strconv.FormatBool(verified)).Inc()
	}

	message := msgAadhaarInvalid
	if verified {
		message = msgAadhaarVerified
	}
	return model.IdentityCheckResult{
		Verified:  verified,
		Name:      name,
		AadhaarID: aadhaarID,
		Message:   message,
	}
}
