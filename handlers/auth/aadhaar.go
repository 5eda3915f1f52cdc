package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/shikshachain/services"
	"github.com/sahilchouksey/shikshachain/utils/response"
	"github.com/sahilchouksey/shikshachain/utils/validation"
)

// AadhaarHandler serves the mock Aadhaar check
type AadhaarHandler struct {
	identity  *services.IdentityService
	validator *validation.Validator
}

// NewAadhaarHandler creates a new Aadhaar handler
func NewAadhaarHandler(identity *services.IdentityService) *AadhaarHandler {
	return &AadhaarHandler{
		identity:  identity,
		validator: validation.NewValidator(),
	}
}

// VerifyAadhaarRequest is the form posted to the Aadhaar check
type VerifyAadhaarRequest struct {
	AadhaarID string `form:"aadhaar_id" validate:"required"`
	Name      string `form:"name" validate:"required"`
}

// VerifyAadhaar handles POST /api/auth/verify-aadhaar.
// A malformed number is a verified=false result, not an error.
func (h *AadhaarHandler) VerifyAadhaar(c *fiber.Ctx) error {
	req := VerifyAadhaarRequest{
		AadhaarID: c.FormValue("aadhaar_id"),
		Name:      c.FormValue("name"),
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	return response.Success(c, h.identity.CheckIdentityFormat(req.AadhaarID, req.Name))
}
