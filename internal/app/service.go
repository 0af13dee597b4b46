package app

import (
	"context"
	"log"

	"admin-service/internal/audit"
	"admin-service/internal/auth"
	"admin-service/internal/config"
	apphttp "admin-service/internal/http"
	"admin-service/internal/http/handler"
	"admin-service/internal/repository/postgres"
	"admin-service/internal/storage/s3"
)

const serverAddrPrefix = ":"

// Service owns the wired application: config, database pool and HTTP server.
// Every dependency is constructed here and injected explicitly; nothing in
// the request path reaches for package-level state.
type Service struct {
	config *config.Config
	db     *postgres.DB
	server *apphttp.Server
}

func NewService(cfg *config.Config) (*Service, error) {
	if cfg.JWT.UsingDefaultSecret {
		log.Printf("WARNING: JWT_SECRET is not set; falling back to the built-in default secret %q. "+
			"Tokens signed with it can be forged by anyone. Set JWT_SECRET in any real deployment.",
			config.DefaultJWTSecret)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	activityRepo := postgres.NewActivityRepository(db)

	tokenService := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry)
	authMiddleware := auth.NewMiddleware(tokenService)
	auditRecorder := audit.NewRecorder(activityRepo)

	// Media uploads are optional; without AWS config the upload-url
	// endpoints answer 503 and everything else works.
	var media handler.MediaStorage
	if cfg.MediaEnabled() {
		client, err := s3.NewClient(&cfg.AWS, cfg.App.UploadURLExpiry)
		if err != nil {
			db.Close()
			return nil, err
		}
		media = client
	} else {
		log.Println("Media storage not configured; avatar and product image uploads are disabled")
	}

	server := apphttp.NewServer(&apphttp.ServerDependencies{
		Config:         cfg,
		UserRepo:       userRepo,
		ProductRepo:    productRepo,
		OrderRepo:      orderRepo,
		ActivityRepo:   activityRepo,
		Media:          media,
		TokenService:   tokenService,
		AuthMiddleware: authMiddleware,
		AuditRecorder:  auditRecorder,
	})

	return &Service{
		config: cfg,
		db:     db,
		server: server,
	}, nil
}

func (s *Service) Start() error {
	return s.server.Start(serverAddrPrefix + s.config.Server.Port)
}

// Shutdown stops the HTTP server and closes the database pool.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.db.Close()
	return err
}
