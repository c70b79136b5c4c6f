package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gyiad-org/membership-api/internal/adapters/expopush"
	"github.com/gyiad-org/membership-api/internal/adapters/gotrue"
	"github.com/gyiad-org/membership-api/internal/adapters/httpapi"
	memaccounts "github.com/gyiad-org/membership-api/internal/adapters/memory/accounts"
	memmemberrepo "github.com/gyiad-org/membership-api/internal/adapters/memory/memberrepo"
	memnotifier "github.com/gyiad-org/membership-api/internal/adapters/memory/notifier"
	memrequestrepo "github.com/gyiad-org/membership-api/internal/adapters/memory/requestrepo"
	memsettingsstore "github.com/gyiad-org/membership-api/internal/adapters/memory/settingsstore"
	postgres "github.com/gyiad-org/membership-api/internal/adapters/postgres"
	pgmemberrepo "github.com/gyiad-org/membership-api/internal/adapters/postgres/memberrepo"
	pgrequestrepo "github.com/gyiad-org/membership-api/internal/adapters/postgres/requestrepo"
	pgsettingsstore "github.com/gyiad-org/membership-api/internal/adapters/postgres/settingsstore"
	"github.com/gyiad-org/membership-api/internal/adapters/resendmail"
	"github.com/gyiad-org/membership-api/internal/app/directory"
	"github.com/gyiad-org/membership-api/internal/app/members"
	"github.com/gyiad-org/membership-api/internal/app/passwordreset"
	"github.com/gyiad-org/membership-api/internal/app/requests"
	"github.com/gyiad-org/membership-api/internal/app/settings"
	"github.com/gyiad-org/membership-api/internal/app/stats"
	"github.com/gyiad-org/membership-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/gyiad-org/membership-api/internal/platform/clock"
	"github.com/gyiad-org/membership-api/internal/platform/config"
	accountsport "github.com/gyiad-org/membership-api/internal/ports/out/accounts"
	memberrepoport "github.com/gyiad-org/membership-api/internal/ports/out/memberrepo"
	"github.com/gyiad-org/membership-api/internal/ports/out/notifier"
	requestrepoport "github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
	settingsstoreport "github.com/gyiad-org/membership-api/internal/ports/out/settingsstore"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	port := getenv("PORT", "8080")

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	authMode := getenv("AUTH_MODE", "jwt")
	var authMW func(http.Handler) http.Handler
	switch authMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(getenv("DEV_SUBJECT", "dev|local"))
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatalf("invalid auth config: %v", err)
		}
		verifier := jwtverifier.New(jwtCfg)
		authMW = httpapi.NewAuthMiddleware(verifier)
	}

	clk := platformclock.NewSystemClock()

	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		memberRepo    memberrepoport.Repository
		requestRepo   requestrepoport.Repository
		settingsStore settingsstoreport.Store
		cleanup       func()
	)

	switch storageBackend {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		pool, err := postgres.NewPool(context.Background(), dsn)
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close
		if err := postgres.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalf("apply schema: %v", err)
		}

		memberRepo = pgmemberrepo.NewRepo(pool)
		requestRepo = pgrequestrepo.NewRepo(pool)
		settingsStore = pgsettingsstore.NewStore(pool)
	default:
		mem := memmemberrepo.NewRepo()
		memberRepo = mem
		requestRepo = memrequestrepo.NewRepo(mem)
		settingsStore = memsettingsstore.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	// Outbound integrations fall back to in-process fakes when unconfigured so
	// a bare `go run ./cmd/api` works locally.
	var mailer notifier.Mailer
	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		mailer = resendmail.NewMailer(key, getenv("MAIL_FROM", "GYİAD <noreply@gyiad.com>"))
	} else {
		logger.Warn("RESEND_API_KEY not set, dropping outbound email")
		mailer = memnotifier.NewMailer()
	}

	push := expopush.NewSender()

	var accounts accountsport.Service
	if url := os.Getenv("GOTRUE_URL"); url != "" {
		accounts = gotrue.NewService(url, os.Getenv("GOTRUE_SERVICE_KEY"))
	} else {
		logger.Warn("GOTRUE_URL not set, using in-memory account store")
		accounts = memaccounts.NewService()
	}

	loginURL := getenv("LOGIN_URL", "https://uyelik.gyiad.com/login")

	directorySvc := directory.NewService(memberRepo)
	memberSvc := members.NewService(memberRepo, accounts, mailer, clk, logger, loginURL)
	requestSvc := requests.NewService(requestRepo, memberRepo, mailer, push, clk, logger, requests.NotifyConfig{
		FallbackAdminEmail: getenv("FALLBACK_ADMIN_EMAIL", "info@gyiad.com"),
		LoginURL:           loginURL,
	})
	statsSvc := stats.NewService(memberRepo, clk)
	settingsSvc := settings.NewService(settingsStore)
	resetSvc := passwordreset.NewService(memberRepo, accounts, mailer, clk, logger)

	api := &httpapi.Server{
		Directory: directorySvc,
		Members:   memberSvc,
		Requests:  requestSvc,
		Stats:     statsSvc,
		Settings:  settingsSvc,
		Reset:     resetSvc,
		Repo:      memberRepo,
	}

	metrics := httpapi.NewMetrics()
	handler := httpapi.NewRouter(api, metrics, authMW)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", "port", port, "storage", storageBackend, "auth", authMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
