package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sahilchouksey/shikshachain/handlers"
	auth_handlers "github.com/sahilchouksey/shikshachain/handlers/auth"
	degree_handlers "github.com/sahilchouksey/shikshachain/handlers/degree"
	student_handlers "github.com/sahilchouksey/shikshachain/handlers/student"
	university_handlers "github.com/sahilchouksey/shikshachain/handlers/university"
	"github.com/sahilchouksey/shikshachain/services"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
	"github.com/sahilchouksey/shikshachain/utils/middleware"
)

// Dependencies are the services the routes are served from
type Dependencies struct {
	APIPrefix    string
	Registry     *services.RegistryService
	Degrees      *services.DegreeService
	Verification *services.VerificationService
	Identity     *services.IdentityService
	IssuerAuth   *middleware.IssuerAuth
	Metrics      *metrics.Metrics
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	universityHandler := university_handlers.NewUniversityHandler(deps.Registry)
	studentHandler := student_handlers.NewStudentHandler(deps.Registry)
	degreeHandler := degree_handlers.NewDegreeHandler(deps.Degrees, deps.Verification)
	aadhaarHandler := auth_handlers.NewAadhaarHandler(deps.Identity)

	// Nil guard lets every request through
	issuerOnly := deps.IssuerAuth.Required()

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	prefix := deps.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := app.Group(prefix)

	// Health
	api.Get("/health", handlers.HandleCheckHealth)

	// Universities
	universities := api.Group("/universities")
	universities.Post("/", issuerOnly, universityHandler.CreateUniversity)
	universities.Get("/", universityHandler.ListUniversities)
	universities.Get("/:id", universityHandler.GetUniversity)

	// Students
	students := api.Group("/students")
	students.Post("/", issuerOnly, studentHandler.CreateStudent)
	students.Get("/wallet/:wallet_address", studentHandler.GetStudentByWallet)
	students.Get("/:id", studentHandler.GetStudent)

	// Degrees
	degrees := api.Group("/degrees")
	degrees.Post("/mint", issuerOnly, degreeHandler.MintDegree)
	degrees.Get("/verify/:degree_id", degreeHandler.VerifyDegree)
	degrees.Get("/student/:student_id", degreeHandler.ListStudentDegrees)
	degrees.Get("/wallet/:wallet_address", degreeHandler.ListWalletDegrees)
	degrees.Get("/", degreeHandler.ListDegrees)

	// Mock identity check
	api.Post("/auth/verify-aadhaar", aadhaarHandler.VerifyAadhaar)
}
