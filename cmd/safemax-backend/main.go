package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/PaddyWebDev/safemax-backend/internal/handlers"
	"github.com/PaddyWebDev/safemax-backend/internal/metrics"
	"github.com/PaddyWebDev/safemax-backend/internal/notify"
	"github.com/PaddyWebDev/safemax-backend/internal/realtime"
	"github.com/PaddyWebDev/safemax-backend/internal/storage"
	"github.com/PaddyWebDev/safemax-backend/libs/config"
	"github.com/PaddyWebDev/safemax-backend/libs/db"
	"github.com/PaddyWebDev/safemax-backend/libs/httpx"
	otelx "github.com/PaddyWebDev/safemax-backend/libs/otel"
	"github.com/PaddyWebDev/safemax-backend/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "safemax-backend")
	port, err := config.Port("PORT", "5000")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.Options{
		MaxConns: int32(config.Int("DB_MAX_CONNS", 10)),
		MinConns: 1,
	})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	repo := storage.NewAppointmentRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "err", err)
		panic(err)
	}

	frontendURL := config.String("FRONTEND_URL", "")
	if frontendURL == "" {
		logger.Warn("FRONTEND_URL not set; cross-origin requests are not restricted")
	}

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	sender := notify.NewMailSender(
		config.String("SMTP_HOST", "smtp.gmail.com"),
		config.Int("SMTP_PORT", 587),
		config.String("SMTP_USERNAME", ""),
		config.String("SMTP_PASSWORD", ""),
		config.String("SMTP_FROM", ""),
	)
	notifier := notify.NewStatusNotifier(sender, logger)

	apptHandler := handlers.NewAppointmentHandler(repo, hub, notifier, logger)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
	)
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "DONE"})
	})
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/appointments/week", apptHandler.Week)
	mux.HandleFunc("/appointments/book", apptHandler.Book)
	mux.HandleFunc("/appointments/update-status/{id}", apptHandler.UpdateStatus)
	mux.HandleFunc("/ws", realtime.ServeWS(hub, frontendURL, logger))

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "safemax"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	bodyLimit := int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))
	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigin:    frontendURL,
			AllowedMethods:   config.List("CORS_ALLOWED_METHODS", "GET,POST,PATCH,PUT,OPTIONS"),
			AllowedHeaders:   config.List("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id"),
			AllowCredentials: true,
			MaxAge:           5 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(bodyLimit),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, service)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
