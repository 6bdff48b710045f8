package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"blogjobs/cmd"
	httpin "blogjobs/internal/adapters/in/http"
	"blogjobs/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is fine; the environment may already carry the settings.
	_ = godotenv.Load(".env")

	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := newLogger(configs.LogLevel)

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	defer app.Close()

	if err := app.JobManager().StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}

	e := startWebServer(app, configs.HTTPPort, configs.AbuseThreshold, logger)

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if err := app.JobManager().StopAll(shutdownCtx); err != nil {
		logger.Error("Job shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),
		LogLevel:   envOr("LOG_LEVEL", "info"),

		SiteTitle:         goDotEnvVariable("SITE_TITLE"),
		SiteDomain:        goDotEnvVariable("SITE_DOMAIN"),
		SiteURL:           goDotEnvVariable("SITE_URL"),
		AdminEmail:        goDotEnvVariable("ADMIN_EMAIL"),
		UnsubscribeSecret: goDotEnvVariable("UNSUBSCRIBE_SECRET"),

		SMTPHost:       goDotEnvVariable("SMTP_HOST"),
		SMTPPort:       envInt("SMTP_PORT", 587),
		SMTPUser:       goDotEnvVariable("SMTP_USER"),
		SMTPPassword:   goDotEnvVariable("SMTP_PASSWORD"),
		SMTPFrom:       goDotEnvVariable("SMTP_FROM"),
		MailRatePerSec: envInt("MAIL_RATE_PER_SEC", 5),

		GeoAPIURL:  goDotEnvVariable("GEO_API_URL"),
		GeoAPIKey:  goDotEnvVariable("GEO_API_KEY"),
		IPRegionDB: goDotEnvVariable("IP_REGION_DB"),

		LinkCheckConcurrency: envInt("LINK_CHECK_CONCURRENCY", 8),
		LinkCheckTimeout:     envDuration("LINK_CHECK_TIMEOUT", 10*time.Second),
		BroadcastStagger:     envDuration("BROADCAST_STAGGER", 0),
		BroadcastRetryDelay:  envDuration("BROADCAST_RETRY_DELAY", time.Minute),
		AbuseThreshold:       int64(envInt("ABUSE_THRESHOLD", 100)),
		SearchRankLimit:      envInt("SEARCH_RANK_LIMIT", 10),
		JobWorkers:           envInt("JOB_WORKERS", 4),
		InterceptLogSize:     envInt("INTERCEPT_LOG_SIZE", 500),
		DeadJobsLogSize:      envInt("DEAD_JOBS_LOG_SIZE", 1000),

		CronCheckLinks:   envOr("CRON_CHECK_LINKS", "0 0 4 * * *"),
		CronRebuildIndex: envOr("CRON_REBUILD_INDEX", "0 0 */6 * * *"),
		CronEveryday:     envOr("CRON_EVERYDAY", "0 0 0 * * *"),
		CronSearchStats:  envOr("CRON_SEARCH_STATS", "0 0 * * * *"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envOr(key, fallback string) string {
	if v := goDotEnvVariable(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := goDotEnvVariable(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := goDotEnvVariable(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func startWebServer(app *cmd.CompositionRoot, port string, abuseThreshold int64, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(httpin.AbuseCounterMiddleware(app.AbuseCounter(), abuseThreshold, logger))
	app.CreateHTTPServer().Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()
	return e
}
