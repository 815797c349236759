package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/lnvinh/moneykeeper/internal/auth"
	"github.com/lnvinh/moneykeeper/internal/handlers"
	"github.com/lnvinh/moneykeeper/internal/middleware"
	"github.com/lnvinh/moneykeeper/internal/service"
	"github.com/lnvinh/moneykeeper/internal/storage"
	"github.com/lnvinh/moneykeeper/internal/storage/memory"
	"github.com/lnvinh/moneykeeper/internal/storage/sqlite"
	"github.com/lnvinh/moneykeeper/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func openStore() (storage.Store, error) {
	if getEnv("STORE", "sqlite") == "memory" {
		slog.Warn("Using in-memory storage, data will not survive restarts")
		return memory.New(), nil
	}
	return sqlite.New(getEnv("DB_PATH", "./data/moneykeeper.db"))
}

func main() {
	// Optional .env for local development; env vars win.
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}
	logging.Setup()

	store, err := openStore()
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		slog.Error("Invalid TOKEN_TTL", "error", err)
		os.Exit(1)
	}
	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store.Accounts())

	api := handlers.New(
		authenticator,
		jwtManager,
		service.NewWalletService(store),
		service.NewTransactionService(store),
		service.NewBillSplitService(store),
		service.NewLoanService(store),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", api.Routes)

	// h2c allows HTTP/2 without TLS when the server runs behind a proxy
	// that terminates it.
	handler := h2c.NewHandler(corsMiddleware(r), &http2.Server{})

	addr := fmt.Sprintf(":%s", getEnv("PORT", "8080"))
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", getEnv("CORS_ORIGIN", "*"))
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
