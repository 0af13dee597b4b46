package http

import (
	"context"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/config"
	"admin-service/internal/http/handler"
	"admin-service/internal/http/middleware"
	"admin-service/internal/rbac"
	"admin-service/internal/repository"
	"admin-service/pkg/metrics"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config         *config.Config
	UserRepo       repository.UserRepository
	ProductRepo    repository.ProductRepository
	OrderRepo      repository.OrderRepository
	ActivityRepo   repository.ActivityRepository
	Media          handler.MediaStorage
	TokenService   *auth.TokenService
	AuthMiddleware *auth.Middleware
	AuditRecorder  *audit.Recorder
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	requestMetrics := metrics.New()
	e.Use(requestMetrics.Middleware())

	// Strict rate limiting for credential endpoints. The general API limiter
	// is registered per route behind the auth guards, so authenticated
	// traffic is bucketed by user id rather than by shared client IP.
	strictRateLimiter := middleware.NewStrictRateLimiter()
	apiRateLimiter := middleware.NewGlobalRateLimiter()
	limitAPI := apiRateLimiter.Middleware()

	pageSize := deps.Config.App.PageSize
	authHandler := handler.NewAuthHandler(deps.UserRepo, deps.Media, deps.TokenService, deps.AuditRecorder, deps.Config.JWT.Expiry)
	userHandler := handler.NewUserHandler(deps.UserRepo, deps.Media, deps.AuditRecorder, pageSize)
	productHandler := handler.NewProductHandler(deps.ProductRepo, deps.Media, deps.AuditRecorder, pageSize)
	orderHandler := handler.NewOrderHandler(deps.OrderRepo, deps.AuditRecorder, pageSize)
	activityHandler := handler.NewActivityHandler(deps.ActivityRepo, pageSize)

	e.GET("/health", healthCheck)

	api := e.Group("/api")

	api.POST("/auth/register", authHandler.Register, strictRateLimiter.Middleware())
	api.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	api.POST("/auth/logout", authHandler.Logout, limitAPI)
	api.GET("/auth/profile", authHandler.Profile, deps.AuthMiddleware.RequireAuth(), limitAPI)

	// User management is ADMIN-only (manage-users).
	users := api.Group("/users", deps.AuthMiddleware.RequireRole(rbac.RoleAdmin), limitAPI)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/avatar-upload-url", userHandler.AvatarUploadURL)

	// Catalog reads are open to any authenticated user; writes take
	// manage-products (ADMIN or MANAGER).
	products := api.Group("/products")
	products.GET("", productHandler.List, deps.AuthMiddleware.RequireAuth(), limitAPI)
	products.GET("/:id", productHandler.Get, deps.AuthMiddleware.RequireAuth(), limitAPI)
	products.POST("", productHandler.Create, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleManager), limitAPI)
	products.PUT("/:id", productHandler.Update, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleManager), limitAPI)
	products.DELETE("/:id", productHandler.Delete, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleManager), limitAPI)
	products.POST("/:id/image-upload-url", productHandler.ImageUploadURL, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleManager), limitAPI)

	// Orders: any authenticated user may create and read (handlers pin
	// USER to their own orders); status changes take manage-orders.
	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create, deps.AuthMiddleware.RequireAuth(), limitAPI)
	orders.GET("", orderHandler.List, deps.AuthMiddleware.RequireAuth(), limitAPI)
	orders.GET("/:id", orderHandler.Get, deps.AuthMiddleware.RequireAuth(), limitAPI)
	orders.PUT("/:id/status", orderHandler.UpdateStatus, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleManager), limitAPI)

	api.GET("/activity-logs", activityHandler.List, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin, rbac.RoleManager), limitAPI)

	// Operational counters are a settings-level concern, ADMIN only.
	api.GET("/metrics", requestMetrics.Handler, deps.AuthMiddleware.RequireRole(rbac.RoleAdmin), limitAPI)

	// Page routes: cookie-presence redirects only, no token verification.
	// The static bundle is optional; the API works headless without it.
	if deps.Config.App.StaticDir != "" {
		pages := e.Group("", middleware.NewPageGuard().Middleware())
		pages.Static("/", deps.Config.App.StaticDir)
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
