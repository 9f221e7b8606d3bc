package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"perfectapi/internal/handler"
	"perfectapi/internal/repository/sqlite"
	"perfectapi/internal/service"
	"perfectapi/internal/store"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "perfectapi.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if len(jwtSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}
	writeToken := os.Getenv("WRITE_TOKEN")
	apiKey := os.Getenv("API_KEY")

	bcryptCost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid BCRYPT_COST", "error", err)
			os.Exit(1)
		}
		if parsed < 4 || parsed > 14 {
			slog.Error("BCRYPT_COST must be between 4 and 14", "value", parsed)
			os.Exit(1)
		}
		bcryptCost = parsed
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	st := store.New()
	if os.Getenv("SEED_DEMO_DATA") != "false" {
		service.SeedDemoData(st)
		slog.Info("demo data seeded")
	}

	authService, err := service.NewAuthService(jwtSecret, writeToken, apiKey, bcryptCost)
	if err != nil {
		slog.Error("failed to build auth service", "error", err)
		os.Exit(1)
	}
	audit := db.AuditLogs()
	userService := service.NewUserService(st, audit)
	productService := service.NewProductService(st, audit)
	orderService := service.NewOrderService(st, audit)
	quota := service.NewQuota(10, 600)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Auth:     authService,
		Users:    handler.NewUserHandler(userService),
		Products: handler.NewProductHandler(productService),
		Orders:   handler.NewOrderHandler(orderService),
		Utility:  handler.NewUtilityHandler(),
		Token:    handler.NewTokenHandler(authService),
		Audit:    handler.NewAuditHandler(service.NewAuditService(audit)),
	})

	root := handler.RequestLogging(handler.SecurityHeaders(handler.RateLimitHeaders(quota, handler.BodyLimit(mux))))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
