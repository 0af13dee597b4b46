package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/domain/activity"
	"admin-service/internal/domain/user"
	"admin-service/internal/rbac"
	"admin-service/internal/repository"
	apperrors "admin-service/pkg/errors"
	"admin-service/pkg/password"
	"admin-service/pkg/validator"
)

// AuthHandler serves registration, login, logout and the authenticated
// profile endpoint.
type AuthHandler struct {
	users       repository.UserRepository
	media       MediaStorage
	tokens      *auth.TokenService
	audit       *audit.Recorder
	tokenExpiry time.Duration
}

func NewAuthHandler(users repository.UserRepository, media MediaStorage, tokens *auth.TokenService, audit *audit.Recorder, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		users:       users,
		media:       media,
		tokens:      tokens,
		audit:       audit,
		tokenExpiry: tokenExpiry,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register creates an account. The role is always USER here; elevated roles
// are granted only through the admin user management endpoints.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Name(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	created, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         rbac.RoleUser,
		Status:       user.StatusActive,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	token, err := h.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.setTokenCookie(c, token)
	h.audit.Record(c, created.ID, activity.ActionRegister, activity.EntityAuth, nil, created.Email)

	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: presentUser(c, h.media, created)})
}

// Login authenticates with email and password. Unknown emails and wrong
// passwords produce the same 401 after the same bcrypt work, so response
// timing does not leak which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := h.users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		password.Verify(req.Password, password.DummyHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	token, err := h.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	h.setTokenCookie(c, token)
	h.audit.Record(c, u.ID, activity.ActionLogin, activity.EntityAuth, nil, u.Email)

	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: presentUser(c, h.media, u)})
}

// Logout clears the token cookie. The bearer token itself stays valid until
// expiry; there is no server-side session to revoke.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return respondMessage(c, http.StatusOK, msgLoggedOut)
}

// Profile returns the authenticated user's own record.
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgNotAuthenticated)
	}

	u, err := h.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	return c.JSON(http.StatusOK, presentUser(c, h.media, u))
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
