package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"admin-service/internal/rbac"
	apperrors "admin-service/pkg/errors"
)

// Middleware guards API routes. RequireAuth is the authentication gate;
// RequireRole composes authorization on top of it. Authentication failures
// are always 401, role failures always 403, and the 401 check runs first.
type Middleware struct {
	tokens *TokenService
}

func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// decoded identity to the request context for the wrapped handler.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := m.authenticate(c); err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidToken)
			}
			return next(c)
		}
	}
}

// RequireRole rejects requests whose authenticated identity holds none of
// the allowed roles. It runs the authentication gate itself, so a request
// with no token gets 401 rather than 403 regardless of route stacking.
// Stacked role checks each apply independently; the request must pass
// every wrapper it crosses.
func (m *Middleware) RequireRole(allowed ...rbac.Role) echo.MiddlewareFunc {
	allowedSet := make(map[rbac.Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.authenticate(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidToken)
			}

			if !allowedSet[claims.Role] {
				return respondError(c, http.StatusForbidden, msgForbidden)
			}

			return next(c)
		}
	}
}

// authenticate resolves the request identity. A previously attached identity
// is reused, so stacking guards verifies the token once per request and the
// check stays idempotent.
func (m *Middleware) authenticate(c echo.Context) (*Claims, error) {
	if claims, ok := c.Get(contextKeyClaims).(*Claims); ok && claims != nil {
		return claims, nil
	}

	token := extractBearerToken(c)
	if token == "" {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken)
	}

	c.Set(contextKeyClaims, claims)
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRole, claims.Role)

	return claims, nil
}

const contextKeyClaims = "auth_claims"

// extractBearerToken pulls the token out of the Authorization header. The
// header must be exactly two fields with the literal scheme "Bearer";
// anything else is treated as absent.
func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || parts[0] != bearerScheme {
		return ""
	}

	return parts[1]
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

// GetUserID returns the authenticated subject id attached by RequireAuth.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID := c.Get(ContextKeyUserID)
	if userID == nil {
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(msgInvalidIdentityCtx, nil)
	}

	return id, nil
}

// GetEmail returns the authenticated email attached by RequireAuth.
func GetEmail(c echo.Context) (string, error) {
	email := c.Get(ContextKeyEmail)
	if email == nil {
		return "", apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	e, ok := email.(string)
	if !ok {
		return "", apperrors.InternalServer(msgInvalidIdentityCtx, nil)
	}

	return e, nil
}

// GetRole returns the authenticated role attached by RequireAuth.
func GetRole(c echo.Context) (rbac.Role, error) {
	role := c.Get(ContextKeyRole)
	if role == nil {
		return "", apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	r, ok := role.(rbac.Role)
	if !ok {
		return "", apperrors.InternalServer(msgInvalidIdentityCtx, nil)
	}

	return r, nil
}
