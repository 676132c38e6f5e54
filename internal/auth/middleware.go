package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tech-help/helpdesk-service/internal/domain"
	apperrors "github.com/tech-help/helpdesk-service/pkg/util"
)

const claimKey = "auth_claim"

// AuthMiddleware validates bearer tokens and stores the caller claim.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claim, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(claimKey, claim)
	return c.Next()
}

// ClaimFromContext retrieves the authenticated caller claim.
func ClaimFromContext(c *fiber.Ctx) (domain.Claim, bool) {
	val := c.Locals(claimKey)
	if val == nil {
		return domain.Claim{}, false
	}
	claim, ok := val.(domain.Claim)
	return claim, ok
}
