package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User         *domain.User
	RefreshCount int
}

// Middleware validates bearer tokens and loads the acting user.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. Only live tokens pass
// here; expired tokens are handled exclusively by the refresh endpoint.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get("Authorization"))
	if !ok {
		return apperrors.NewInvalidToken("missing or invalid authorization header")
	}

	parsed := m.tokens.Parse(token)
	if parsed.State != TokenStateValid {
		return apperrors.NewInvalidToken("")
	}

	user, err := m.users.FindByUsername(c.Context(), parsed.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewInvalidToken("unknown subject")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, RefreshCount: parsed.RefreshCount})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
