package main

import (
	"context"
	"errors"
	"fmt"
	"go-profile-backend/config"
	_ "go-profile-backend/docs" // Important for Swagger
	v1 "go-profile-backend/internal/delivery/http/v1"
	"go-profile-backend/internal/repository/postgres"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/database"
	"go-profile-backend/pkg/logger"
	redisclient "go-profile-backend/pkg/redis"
	"go-profile-backend/pkg/security"
	"go-profile-backend/pkg/validation"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Profile API
// @version         1.0
// @description     Developer profile records: handle, skills, social links, experience and education.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	os.Exit(run())
}

// run wires and serves the API. Deferred cleanup runs before the exit code
// is returned.
func run() int {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Logger
	logger.Init(cfg.IsRelease())
	secLog := security.Init(cfg.IsRelease())
	defer secLog.Sync()
	logger.Log.Info("Starting profile backend", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, cfg.DBMaxConns)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisclient.NewClient(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	identityRepo := postgres.NewIdentityRepository(dbPool)
	txManager := postgres.NewTxManager(dbPool)

	// 6. Setup UseCases
	profileUC := usecase.NewProfileUsecase(profileRepo, identityRepo, txManager, validation.New())
	healthDeps := map[string]usecase.Pinger{"database": dbPool}
	if redisClient != nil {
		healthDeps["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthUC := usecase.NewHealthUsecase(healthDeps)

	// 7. Setup Auth Provider (JWKS, optional)
	var jwksProvider *auth.Provider
	if cfg.JWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSURL)
	}

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ProfileUC:    profileUC,
		HealthUC:     healthUC,
		Identities:   identityRepo,
		JWKSProvider: jwksProvider,
		Redis:        redisClient,
		Config:       cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(srv, quit, 5*time.Second); err != nil {
		logger.Log.Error("Server stopped", "error", err)
		return 1
	}

	logger.Log.Info("Server exiting")
	return 0
}

// serve runs srv until it fails or a signal arrives on quit. A signal starts
// a graceful shutdown bounded by timeout.
func serve(srv *http.Server, quit <-chan os.Signal, timeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
