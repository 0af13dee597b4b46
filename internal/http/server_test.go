package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/config"
	"admin-service/internal/domain/activity"
	"admin-service/internal/domain/order"
	"admin-service/internal/domain/product"
	"admin-service/internal/domain/user"
	"admin-service/internal/rbac"
	apperrors "admin-service/pkg/errors"
)

// Empty-but-valid repository stubs. The guard matrix tests only care about
// which requests get past authentication and authorization; handlers behind
// the guards see an empty data set.

type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, user.CreateUserInput) (*user.User, error) {
	return nil, apperrors.Conflict("not implemented")
}
func (stubUserRepo) GetByID(context.Context, uuid.UUID) (*user.User, error) {
	return nil, apperrors.NotFound("user not found")
}
func (stubUserRepo) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, apperrors.NotFound("user not found")
}
func (stubUserRepo) List(context.Context, user.ListFilter, int, int) ([]*user.User, int, error) {
	return nil, 0, nil
}
func (stubUserRepo) Update(context.Context, uuid.UUID, user.UpdateUserInput) error {
	return apperrors.NotFound("user not found")
}
func (stubUserRepo) Delete(context.Context, uuid.UUID) error {
	return apperrors.NotFound("user not found")
}

type stubProductRepo struct{}

func (stubProductRepo) Create(context.Context, product.CreateProductInput) (*product.Product, error) {
	return nil, apperrors.Conflict("not implemented")
}
func (stubProductRepo) GetByID(context.Context, uuid.UUID) (*product.Product, error) {
	return nil, apperrors.NotFound("product not found")
}
func (stubProductRepo) List(context.Context, product.ListFilter, int, int) ([]*product.Product, int, error) {
	return nil, 0, nil
}
func (stubProductRepo) Update(context.Context, uuid.UUID, product.UpdateProductInput) error {
	return apperrors.NotFound("product not found")
}
func (stubProductRepo) Delete(context.Context, uuid.UUID) error {
	return apperrors.NotFound("product not found")
}

type stubOrderRepo struct{}

func (stubOrderRepo) Create(context.Context, order.CreateOrderInput) (*order.Order, error) {
	return nil, apperrors.BadRequest("not implemented")
}
func (stubOrderRepo) GetByID(context.Context, uuid.UUID) (*order.Order, error) {
	return nil, apperrors.NotFound("order not found")
}
func (stubOrderRepo) List(context.Context, order.ListFilter, int, int) ([]*order.Order, int, error) {
	return nil, 0, nil
}
func (stubOrderRepo) UpdateStatus(context.Context, uuid.UUID, order.Status) error {
	return apperrors.NotFound("order not found")
}

type stubActivityRepo struct{}

func (stubActivityRepo) Insert(context.Context, *activity.Entry) error { return nil }
func (stubActivityRepo) List(context.Context, activity.ListFilter, int, int) ([]*activity.Entry, int, error) {
	return nil, 0, nil
}

func newTestServer(t *testing.T) (*Server, *auth.TokenService) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         "0",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		JWT: config.JWTConfig{
			Secret: "route-guard-test-secret",
			Expiry: time.Hour,
		},
		App: config.AppConfig{
			PageSize: 10,
		},
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry)
	activityRepo := stubActivityRepo{}

	server := NewServer(&ServerDependencies{
		Config:         cfg,
		UserRepo:       stubUserRepo{},
		ProductRepo:    stubProductRepo{},
		OrderRepo:      stubOrderRepo{},
		ActivityRepo:   activityRepo,
		TokenService:   tokens,
		AuthMiddleware: auth.NewMiddleware(tokens),
		AuditRecorder:  audit.NewRecorder(activityRepo),
	})

	return server, tokens
}

func bearerFor(t *testing.T, tokens *auth.TokenService, role rbac.Role) string {
	t.Helper()
	token, err := tokens.Issue(uuid.New(), string(role)+"@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouteGuardMatrix(t *testing.T) {
	server, tokens := newTestServer(t)

	adminAuth := bearerFor(t, tokens, rbac.RoleAdmin)
	managerAuth := bearerFor(t, tokens, rbac.RoleManager)
	userAuth := bearerFor(t, tokens, rbac.RoleUser)

	tests := []struct {
		name     string
		method   string
		target   string
		auth     string
		wantCode int
	}{
		{"health is public", stdhttp.MethodGet, "/health", "", stdhttp.StatusOK},

		{"users without token", stdhttp.MethodGet, "/api/users", "", stdhttp.StatusUnauthorized},
		{"users wrong scheme", stdhttp.MethodGet, "/api/users", "Token abc", stdhttp.StatusUnauthorized},
		{"users as USER", stdhttp.MethodGet, "/api/users", userAuth, stdhttp.StatusForbidden},
		{"users as MANAGER", stdhttp.MethodGet, "/api/users", managerAuth, stdhttp.StatusForbidden},
		{"users as ADMIN", stdhttp.MethodGet, "/api/users", adminAuth, stdhttp.StatusOK},

		{"product list without token", stdhttp.MethodGet, "/api/products", "", stdhttp.StatusUnauthorized},
		{"product list as USER", stdhttp.MethodGet, "/api/products", userAuth, stdhttp.StatusOK},
		{"product delete as USER", stdhttp.MethodDelete, "/api/products/" + uuid.New().String(), userAuth, stdhttp.StatusForbidden},
		{"product delete as MANAGER", stdhttp.MethodDelete, "/api/products/" + uuid.New().String(), managerAuth, stdhttp.StatusNotFound},

		{"order list as USER", stdhttp.MethodGet, "/api/orders", userAuth, stdhttp.StatusOK},
		{"order status as USER", stdhttp.MethodPut, "/api/orders/" + uuid.New().String() + "/status", userAuth, stdhttp.StatusForbidden},
		{"order status without token", stdhttp.MethodPut, "/api/orders/" + uuid.New().String() + "/status", "", stdhttp.StatusUnauthorized},

		{"activity as USER", stdhttp.MethodGet, "/api/activity-logs", userAuth, stdhttp.StatusForbidden},
		{"activity as MANAGER", stdhttp.MethodGet, "/api/activity-logs", managerAuth, stdhttp.StatusOK},
		{"activity as ADMIN", stdhttp.MethodGet, "/api/activity-logs", adminAuth, stdhttp.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			server.Echo().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestForbiddenBodyShape(t *testing.T) {
	server, tokens := newTestServer(t)

	req := httptest.NewRequest(stdhttp.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, rbac.RoleManager))
	rec := httptest.NewRecorder()

	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
}

func TestUnauthorizedBeforeForbidden(t *testing.T) {
	server, _ := newTestServer(t)

	// A request failing both authentication and authorization gets 401.
	req := httptest.NewRequest(stdhttp.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing or invalid authorization token")
}

func TestRateLimiterRunsAfterAuthGuard(t *testing.T) {
	server, tokens := newTestServer(t)

	// Authenticated requests pass the guard first, so the limiter sees the
	// identity in context and accounts against the user's bucket.
	req := httptest.NewRequest(stdhttp.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, rbac.RoleUser))
	rec := httptest.NewRecorder()

	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))

	// A request the guard rejects never reaches the limiter.
	req = httptest.NewRequest(stdhttp.MethodGet, "/api/products", nil)
	rec = httptest.NewRecorder()

	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestMediaEndpointsUnavailableWithoutStorage(t *testing.T) {
	server, tokens := newTestServer(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/users/"+uuid.New().String()+"/avatar-upload-url", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, rbac.RoleAdmin))
	rec := httptest.NewRecorder()

	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
}
