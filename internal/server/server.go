package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/nutritrack/backend/config"
	"github.com/pageza/nutritrack/backend/internal/api"
	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	http    *http.Server
	backend *storage.Backend
	log     *zap.Logger
}

// New opens the configured storage backend and builds a server on it
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	srv, err := NewWithBackend(ctx, cfg, backend, log)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return srv, nil
}

// NewWithBackend wires the services and routes on an already opened backend
func NewWithBackend(ctx context.Context, cfg *config.Config, backend *storage.Backend, log *zap.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	images, err := newImageStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	identity := service.NewIdentityStore(backend.Store, log)
	deps := api.Deps{
		Identity:   identity,
		Profiles:   service.NewProfileStore(identity, log),
		FoodLog:    service.NewFoodLogStore(backend.Store, log, service.WithImageStore(images), service.WithLocation(loc)),
		Recognizer: service.NewMockRecognizer(log, service.WithDelay(cfg.RecognitionDelay)),
		Tokens:     service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, service.WithRevocationList(newRevocationList(cfg, backend))),
		Limiter:    newLimiter(cfg, backend),
		Health:     backend.Ping,
		Location:   loc,
		Logger:     log,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
	)
	api.RegisterRoutes(router, deps)

	return &Server{
		router:  router,
		backend: backend,
		log:     log,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.ImageStore, error) {
	if cfg.ImageStorage != config.ImageStorageS3 {
		return service.InlineImageStore{}, nil
	}
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3: %w", err)
	}
	log.Info("storing food images in S3", zap.String("bucket", s3Config.BucketName))
	return service.NewS3ImageStore(s3Config, log), nil
}

// newRevocationList keeps logged-out tokens where every API process can see
// them.
func newRevocationList(cfg *config.Config, backend *storage.Backend) service.RevocationList {
	if backend.Redis != nil {
		return service.NewRedisRevocationList(backend.Redis, cfg.RedisKeyPrefix)
	}
	return service.NewStoreRevocationList(backend.Store)
}

// newLimiter shares counters through Redis when the backend has a client.
func newLimiter(cfg *config.Config, backend *storage.Backend) middleware.Limiter {
	if backend.Redis != nil {
		return middleware.NewRecognitionRateLimiter(backend.Redis, cfg.RecognitionRateLimit, cfg.RecognitionRateWindow)
	}
	return middleware.NewLocalLimiter(middleware.RateLimitConfig{
		Window: cfg.RecognitionRateWindow,
		Limit:  cfg.RecognitionRateLimit,
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("starting server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the storage backend
func (s *Server) Close() error {
	return s.backend.Close()
}
