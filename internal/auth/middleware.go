package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/crmdesk/ticketd/internal/domain"
)

const principalKey = "auth.principal"

// Principal is the authenticated agent identity on a request.
type Principal struct {
	AgentID string
	Role    domain.AgentRole
}

// Middleware resolves a bearer token into a Principal. Requests
// without a token pass through unauthenticated; operations that need
// an actor reject them downstream.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware builds the middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle extracts and validates the Authorization header.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Next()
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == header {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		// An invalid token is treated the same as no token; the
		// operation decides whether an actor is required.
		return c.Next()
	}

	c.Locals(principalKey, &Principal{AgentID: claims.AgentID, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
