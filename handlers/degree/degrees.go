package degree

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/shikshachain/services"
	"github.com/sahilchouksey/shikshachain/utils/middleware"
	"github.com/sahilchouksey/shikshachain/utils/response"
	"github.com/sahilchouksey/shikshachain/utils/validation"
)

// DegreeHandler handles minting, verification and degree listings
type DegreeHandler struct {
	degrees      *services.DegreeService
	verification *services.VerificationService
	validator    *validation.Validator
}

// NewDegreeHandler creates a new degree handler
func NewDegreeHandler(degrees *services.DegreeService, verification *services.VerificationService) *DegreeHandler {
	return &DegreeHandler{
		degrees:      degrees,
		verification: verification,
		validator:    validation.NewValidator(),
	}
}

// MintDegree handles POST /api/degrees/mint
func (h *DegreeHandler) MintDegree(c *fiber.Ctx) error {
	var req services.MintDegreeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if issuer := middleware.IssuerSubject(c); issuer != "" {
		log.Infof("Issuer %s is minting a degree for student %s", issuer, req.StudentID)
	}

	result, err := h.degrees.Mint(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"message": "Degree NFT minted successfully",
		"degree":  result.Degree,
		"qr_data": result.Payload,
	})
}

// VerifyDegree handles GET /api/degrees/verify/:degree_id
func (h *DegreeHandler) VerifyDegree(c *fiber.Ctx) error {
	degreeID, err := strconv.ParseInt(c.Params("degree_id"), 10, 64)
	if err != nil {
		return response.Error(c, fiber.StatusUnprocessableEntity, "degree_id must be an integer")
	}

	view, err := h.verification.Verify(c.UserContext(), degreeID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"verification": view})
}

// ListStudentDegrees handles GET /api/degrees/student/:student_id
func (h *DegreeHandler) ListStudentDegrees(c *fiber.Ctx) error {
	degrees, err := h.verification.ListByStudent(c.UserContext(), c.Params("student_id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"degrees": degrees})
}

// ListWalletDegrees handles GET /api/degrees/wallet/:wallet_address
func (h *DegreeHandler) ListWalletDegrees(c *fiber.Ctx) error {
	degrees, err := h.verification.ListByWallet(c.UserContext(), c.Params("wallet_address"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"degrees": degrees})
}

// ListDegrees handles GET /api/degrees
func (h *DegreeHandler) ListDegrees(c *fiber.Ctx) error {
	degrees, err := h.verification.ListAll(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"degrees": degrees})
}
