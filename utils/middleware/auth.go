package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/shikshachain/utils/auth"
	"github.com/sahilchouksey/shikshachain/utils/response"
)

const issuerSubjectKey = "issuer_subject"

// IssuerAuth guards the routes that write to the registry
type IssuerAuth struct {
	jwtManager *auth.JWTManager
}

// NewIssuerAuth creates the guard. A nil manager disables it.
func NewIssuerAuth(jwtManager *auth.JWTManager) *IssuerAuth {
	return &IssuerAuth{jwtManager: jwtManager}
}

// Enabled reports whether requests are actually checked
func (m *IssuerAuth) Enabled() bool {
	return m != nil && m.jwtManager != nil
}

// Required is middleware that requires a valid issuer JWT when the guard is enabled
func (m *IssuerAuth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.Enabled() {
			return c.Next()
		}

		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		if claims.Role != auth.RoleIssuer {
			return response.Forbidden(c, "Insufficient permissions")
		}

		c.Locals(issuerSubjectKey, claims.Subject)

		return c.Next()
	}
}

// IssuerSubject returns the subject of the verified issuer token, or "" when
// the guard is disabled.
func IssuerSubject(c *fiber.Ctx) string {
	subject, _ := c.Locals(issuerSubjectKey).(string)
	return subject
}
