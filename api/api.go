package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/shikshachain/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "ShikshaChain API",
			ErrorHandler: errorHandler,
		}),
		listenAddress: listenAddress,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run blocks until the server stops listening
func (s *APIServer) Run() error {
	log.Info("Starting API Server")
	log.Infof("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *APIServer) Shutdown(ctx context.Context) error {
	log.Info("Shutting down API Server")
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders errors that escape handlers (unknown routes, bad
// methods, panics) with the same {"detail": ...} body as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return response.Error(c, fiberErr.Code, fiberErr.Message)
	}
	log.Errorf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, err.Error())
}
