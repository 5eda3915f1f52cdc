package university

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/shikshachain/services"
	"github.com/sahilchouksey/shikshachain/utils/response"
	"github.com/sahilchouksey/shikshachain/utils/validation"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	registry  *services.RegistryService
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(registry *services.RegistryService) *UniversityHandler {
	return &UniversityHandler{
		registry:  registry,
		validator: validation.NewValidator(),
	}
}

// CreateUniversity handles POST /api/universities
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req services.RegisterUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university, err := h.registry.RegisterUniversity(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"message":    "University created successfully",
		"university": university,
	})
}

// ListUniversities handles GET /api/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	universities, err := h.registry.ListUniversities(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"universities": universities})
}

// GetUniversity handles GET /api/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	university, err := h.registry.GetUniversity(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"university": university})
}
