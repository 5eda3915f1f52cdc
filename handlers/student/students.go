package student

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/shikshachain/services"
	"github.com/sahilchouksey/shikshachain/utils/response"
	"github.com/sahilchouksey/shikshachain/utils/validation"
)

// StudentHandler handles student-related requests
type StudentHandler struct {
	registry  *services.RegistryService
	validator *validation.Validator
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(registry *services.RegistryService) *StudentHandler {
	return &StudentHandler{
		registry:  registry,
		validator: validation.NewValidator(),
	}
}

// CreateStudent handles POST /api/students
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req services.RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	student, err := h.registry.RegisterStudent(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// GetStudent handles GET /api/students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	student, err := h.registry.GetStudent(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"student": student})
}

// GetStudentByWallet handles GET /api/students/wallet/:wallet_address
func (h *StudentHandler) GetStudentByWallet(c *fiber.Ctx) error {
	student, err := h.registry.GetStudentByWallet(c.UserContext(), c.Params("wallet_address"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"student": student})
}
