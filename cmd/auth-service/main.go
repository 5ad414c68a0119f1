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
	"user-notification-system/internal/auth"
	"user-notification-system/internal/config"
	"user-notification-system/internal/infrastructure/mysql"
	"user-notification-system/internal/services"
	"user-notification-system/pkg/logger"
	"user-notification-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.AuthService)
	if err != nil {
		logger.New().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(cfg.Log.Level)
	log.Info("Starting auth service", "config", cfg.GetConfigString())
	if cfg.UsesDefaultSecret() {
		log.Warn("SECRET_KEY is not set; tokens are signed with the development secret")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Initialize MySQL
	db, err := utils.InitializeMysql(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := mysql.EnsureLoginSchema(ctx, db); err != nil {
		log.Error("Failed to prepare login table", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	loginService := services.NewLoginService(
		mysql.NewMySQLLoginRepository(db),
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		log,
	)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","method":"${method}","uri":"${uri}","status":${status},"error":"${error}","latency_human":"${latency_human}"}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	loginLimit := middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.Auth.LoginRate),
			Burst:     cfg.Auth.LoginBurst,
			ExpiresIn: 3 * time.Minute,
		},
	))
	handlers.NewAuthHandler(loginService, log).Register(e, loginLimit)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   config.AuthService,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	go func() {
		log.Info("Starting auth service server", "address", cfg.Address())
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auth service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auth service stopped")
}
