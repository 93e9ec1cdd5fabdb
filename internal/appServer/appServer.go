package appServer

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equiplend/config"
	repository "equiplend/internal/database/postgres"
	rediscache "equiplend/internal/database/redis"
	"equiplend/internal/service"
	"equiplend/internal/transport"
	"equiplend/internal/worker"
	"equiplend/pkg/auth"
	"equiplend/pkg/postgres"
	redisclient "equiplend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AppServer struct {
	cfg    *config.Config
	db     *sql.DB
	server *http.Server
	worker *worker.LifecycleWorker
}

func NewAppServer(cfg *config.Config) (*AppServer, error) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(db); err != nil {
		return nil, err
	}

	redisClient := redisclient.NewRedisClient(&cfg.Redis)
	cache := rediscache.NewCacheRepository(redisClient, cfg.Cache.CategoryTTL)

	bookingRepo := repository.NewBookingRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)

	clock := service.NewSystemClock()
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	bookingService := service.NewBookingService(bookingRepo, equipmentRepo, clock)
	equipmentService := service.NewEquipmentService(equipmentRepo, bookingRepo)
	categoryService := service.NewCategoryService(categoryRepo, equipmentRepo, cache)
	userService := service.NewUserService(userRepo, tokens, clock)
	adminService := service.NewAdminService(bookingRepo, equipmentRepo, categoryRepo, userRepo, clock)

	router := transport.InitRoutes(
		cfg,
		transport.NewBookingHandler(bookingService),
		transport.NewEquipmentHandler(equipmentService, bookingService),
		transport.NewCategoryHandler(categoryService),
		transport.NewUserHandler(userService),
		transport.NewAdminHandler(adminService, bookingService, userService),
		tokens,
		userService,
	)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &AppServer{
		cfg:    cfg,
		db:     db,
		server: server,
		worker: worker.NewLifecycleWorker(bookingService, cfg.Worker.SweepInterval),
	}, nil
}

// Run starts the lifecycle worker and the HTTP server, then blocks
// until SIGINT/SIGTERM and shuts both down.
func (a *AppServer) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.worker.Start(ctx)

	go func() {
		logrus.WithField("addr", a.server.Addr).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down")

	a.worker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	if err := a.db.Close(); err != nil {
		logrus.Errorf("Database close error: %v", err)
	}

	logrus.Info("Server stopped")
	return nil
}
