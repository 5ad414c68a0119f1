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
	"user-notification-system/internal/api/middleware"
	"user-notification-system/internal/config"
	"user-notification-system/internal/infrastructure/websocket"
	"user-notification-system/internal/services"
	"user-notification-system/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.NotificationService)
	if err != nil {
		logger.New().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(cfg.Log.Level)
	log.Info("Starting notification service", "config", cfg.GetConfigString())

	// Initialize connection manager
	connManager := websocket.NewConnectionManager(log)
	dispatcher := websocket.NewDispatcher(connManager, cfg.WebSocket.BroadcastWorkers, log)
	notifications := services.NewNotificationService(connManager, dispatcher, cfg.WebSocket.QueueSize, log)
	statsReporter := services.NewStatsReporter(connManager, cfg.WebSocket.StatsInterval, log)

	ingressLimit := middleware.NewRateLimiter(cfg.WebSocket.IngressRate, cfg.WebSocket.IngressBurst)
	defer ingressLimit.Stop()

	// Setup routes
	router := handlers.NewRouter(handlers.Routes{
		WebSocketPath: cfg.WebSocket.Path,
		WebSocket:     websocket.NewWebSocketHandler(connManager, dispatcher, cfg.WebSocket, cfg.Server.AllowedOrigins, log),
		Notify:        handlers.NewNotifyHandler(notifications, log),
		IngressLimit:  ingressLimit,
	})

	// CORS wraps the router so preflights are answered before route matching.
	handler := middleware.CORS(cfg.Server.AllowedOrigins, log)(middleware.RequestLogger(log)(router))

	if err := statsReporter.Start(); err != nil {
		log.Error("Failed to start stats reporter", "error", err)
	}

	// Start HTTP server
	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting notification server", "address", server.Addr, "websocket_path", cfg.WebSocket.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notification service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statsReporter.Stop()

	// Shutdown does not track hijacked connections, so close them explicitly.
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	notifications.Close()
	connManager.CloseAll()

	log.Info("Notification service stopped")
}
