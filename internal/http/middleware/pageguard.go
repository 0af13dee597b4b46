package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"admin-service/internal/auth"
)

// PageGuard steers browser navigation based on the presence of the token
// cookie alone: no signature check happens here. It is a UX convenience for
// page routes; API routes are protected by the bearer-token middleware,
// which is the actual security boundary.
type PageGuard struct {
	publicPaths     map[string]bool
	protectedPrefix string
	loginPath       string
	homePath        string
}

// NewPageGuard builds the default policy for the dashboard pages.
func NewPageGuard() *PageGuard {
	return &PageGuard{
		publicPaths: map[string]bool{
			"/login":           true,
			"/register":        true,
			"/forgot-password": true,
		},
		protectedPrefix: "/dashboard",
		loginPath:       "/login",
		homePath:        "/dashboard",
	}
}

// Middleware applies the redirect policy:
//   - no cookie and a path under the protected prefix redirects to login
//   - a cookie on the login/register pages redirects to the home page
//   - every other path passes through unchanged
func (g *PageGuard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			hasToken := false
			if cookie, err := c.Cookie(auth.TokenCookieName); err == nil && cookie.Value != "" {
				hasToken = true
			}

			if hasToken && (path == g.loginPath || path == "/register") {
				return c.Redirect(http.StatusFound, g.homePath)
			}

			if g.publicPaths[path] {
				return next(c)
			}

			if !hasToken && strings.HasPrefix(path, g.protectedPrefix) {
				return c.Redirect(http.StatusFound, g.loginPath)
			}

			return next(c)
		}
	}
}
