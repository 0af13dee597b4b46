package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/domain/user"
	"admin-service/internal/rbac"
	"admin-service/pkg/password"
)

const testSecret = "handler-test-secret"

func newAuthTestHandler(t *testing.T) (*AuthHandler, *fakeUserRepo, *fakeActivityRepo) {
	t.Helper()
	users := newFakeUserRepo()
	activities := newFakeActivityRepo()
	tokens := auth.NewTokenService(testSecret, time.Hour)
	h := NewAuthHandler(users, nil, tokens, audit.NewRecorder(activities), time.Hour)
	return h, users, activities
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestRegisterForcesUserRole(t *testing.T) {
	h, users, activities := newAuthTestHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"New.User@Example.com","name":"New User","password":"supersecret"}`)
	c := e.NewContext(req, rec)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, rbac.RoleUser, resp.User.Role)
	assert.Equal(t, "new.user@example.com", resp.User.Email)
	assert.Equal(t, string(user.StatusActive), resp.User.Status)

	stored, err := users.GetByEmail(c.Request().Context(), "new.user@example.com")
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleUser, stored.Role)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
	assert.True(t, password.Verify("supersecret", stored.PasswordHash))

	cookie := findCookie(rec, auth.TokenCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	assert.Equal(t, 1, activities.count())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _, _ := newAuthTestHandler(t)
	e := echo.New()

	body := `{"email":"dup@example.com","name":"First","password":"supersecret"}`
	req, rec := jsonRequest(http.MethodPost, "/api/auth/register", body)
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, http.StatusCreated, rec.Code)

	req, rec = jsonRequest(http.MethodPost, "/api/auth/register", body)
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), msgEmailAlreadyExists)
}

func TestRegisterRejectsUnknownFields(t *testing.T) {
	h, _, _ := newAuthTestHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","name":"A","password":"supersecret","role":"ADMIN"}`)
	require.NoError(t, h.Register(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	h, _, _ := newAuthTestHandler(t)
	e := echo.New()

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","name":"A","password":"supersecret"}`},
		{"short password", `{"email":"a@example.com","name":"A","password":"short"}`},
		{"empty name", `{"email":"a@example.com","name":"  ","password":"supersecret"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := jsonRequest(http.MethodPost, "/api/auth/register", tt.body)
			require.NoError(t, h.Register(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	h, users, activities := newAuthTestHandler(t)
	e := echo.New()

	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)
	seeded, err := users.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), user.CreateUserInput{
		Email:        "manager@example.com",
		Name:         "Manager",
		PasswordHash: hash,
		Role:         rbac.RoleManager,
		Status:       user.StatusActive,
	})
	require.NoError(t, err)

	req, rec := jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"Manager@Example.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, seeded.ID.String(), resp.User.ID)
	assert.Equal(t, rbac.RoleManager, resp.User.Role)
	require.NotNil(t, findCookie(rec, auth.TokenCookieName))

	tokens := auth.NewTokenService(testSecret, time.Hour)
	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, rbac.RoleManager, claims.Role)

	assert.Equal(t, 1, activities.count())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, users, _ := newAuthTestHandler(t)
	e := echo.New()

	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)
	_, err = users.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), user.CreateUserInput{
		Email:        "known@example.com",
		Name:         "Known",
		PasswordHash: hash,
		Role:         rbac.RoleUser,
		Status:       user.StatusActive,
	})
	require.NoError(t, err)

	req, wrongPass := jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"known@example.com","password":"wrong-password"}`)
	require.NoError(t, h.Login(e.NewContext(req, wrongPass)))

	req, unknownUser := jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"whatever-password"}`)
	require.NoError(t, h.Login(e.NewContext(req, unknownUser)))

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknownUser.Body.String())
	assert.Contains(t, wrongPass.Body.String(), msgInvalidCredentials)
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _, _ := newAuthTestHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, auth.TokenCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestProfileReturnsOwnUser(t *testing.T) {
	h, users, _ := newAuthTestHandler(t)
	e := echo.New()

	seeded, err := users.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), user.CreateUserInput{
		Email:        "me@example.com",
		Name:         "Me",
		PasswordHash: "irrelevant",
		Role:         rbac.RoleUser,
		Status:       user.StatusActive,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.ContextKeyUserID, seeded.ID)

	require.NoError(t, h.Profile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, seeded.ID.String(), resp.ID)
	assert.NotContains(t, rec.Body.String(), "irrelevant")
}
