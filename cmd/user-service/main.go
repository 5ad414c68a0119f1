package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-notification-system/internal/api/handlers"
	apimiddleware "user-notification-system/internal/api/middleware"
	"user-notification-system/internal/auth"
	"user-notification-system/internal/config"
	"user-notification-system/internal/domain"
	"user-notification-system/internal/infrastructure/authclient"
	"user-notification-system/internal/infrastructure/mysql"
	"user-notification-system/internal/infrastructure/notifier"
	"user-notification-system/internal/infrastructure/redis"
	"user-notification-system/internal/services"
	"user-notification-system/pkg/logger"
	"user-notification-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.UserService)
	if err != nil {
		logger.New().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(cfg.Log.Level)
	log.Info("Starting user service", "config", cfg.GetConfigString())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Initialize MySQL
	db, err := utils.InitializeMysql(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := mysql.EnsureUsersSchema(ctx, db); err != nil {
		log.Error("Failed to prepare users table", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	// Redis only backs the read cache, so the service runs without it.
	var cache domain.UserCache
	rdb, err := utils.InitializeRedis(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, user cache disabled", "error", err)
	} else {
		defer rdb.Close()
		cache = redis.NewRedisUserCache(rdb, cfg.Redis.CacheTTL)
		log.Info("Connected to Redis", "address", cfg.Redis.Address)
	}

	userRepo := mysql.NewMySQLUserRepository(db)
	logins := authclient.New(cfg.Auth.ServiceURL, cfg.Auth.Timeout)
	userNotifier := notifier.NewHTTPNotifier(cfg.Notifier.URL, cfg.Notifier.Timeout, log)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	userService := services.NewUserService(userRepo, cache, logins, userNotifier, hasher, cfg.Notifier.Timeout, log)

	healthMonitor := services.NewNotifierHealthMonitor(userNotifier, cfg.Notifier.HealthInterval, cfg.Notifier.Timeout, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","method":"${method}","uri":"${uri}","status":${status},"error":"${error}","latency_human":"${latency_human}"}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "User service is running"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":           "ok",
			"service":          config.UserService,
			"timestamp":        time.Now().Format(time.RFC3339),
			"notifier_healthy": healthMonitor.Healthy(),
		})
	})

	api := e.Group("")
	if cfg.Auth.RequireToken {
		api.Use(apimiddleware.BearerAuth(auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.TokenTTL)))
	}
	handlers.NewUserHandler(userService, log).Register(api)

	// Start background services
	if err := healthMonitor.Start(context.Background()); err != nil {
		log.Error("Failed to start notifier health monitor", "error", err)
	}

	go func() {
		log.Info("Starting user service server", "address", cfg.Address())
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down user service...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	healthMonitor.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	userService.Wait()

	log.Info("User service stopped")
}
