package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/petsafe/pettag-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated identity resolved for the current
// request. It is built entirely from validated token claims, lives only in
// the request's locals, and is never persisted.
type Principal struct {
	SubjectID string
	Name      string
	Email     string
}

// Middleware resolves bearer tokens into principals. It holds no storage
// dependencies: resolution is a pure function of the token and the signing
// secret, cheap enough to run on every request.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the resolver.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// ResolvePrincipal runs once per request, before any business handler. A
// missing, malformed, or expired token leaves the request anonymous rather
// than rejecting it; whether authentication is required is decided by the
// route itself (the public tag lookup is intentionally anonymous).
func (m *Middleware) ResolvePrincipal(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.Next()
	}

	claims, err := m.tokens.Validate(token)
	if err != nil {
		return c.Next()
	}

	c.Locals(principalKey, &Principal{
		SubjectID: claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the principal resolved for this request.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAuth rejects anonymous requests. Routes that serve only
// authenticated owners compose this after ResolvePrincipal.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

func bearerToken(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
