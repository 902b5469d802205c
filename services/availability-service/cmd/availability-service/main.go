package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/openhours/libs/config"
	"github.com/md-rashed-zaman/openhours/libs/db"
	"github.com/md-rashed-zaman/openhours/libs/httpx"
	"github.com/md-rashed-zaman/openhours/libs/kafkax"
	otelx "github.com/md-rashed-zaman/openhours/libs/otel"
	"github.com/md-rashed-zaman/openhours/libs/runtime"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/cache"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/handlers"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/outbox"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/retention"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/schedule"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/storage"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8086")
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
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if err := storage.Migrate(ctx, pool); err != nil {
		logger.Error("migrations failed", "err", err)
		panic(err)
	}

	var rdb *redis.Client
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
	}

	repo := storage.NewDayRepository(pool)
	var weekCache schedule.WeekCache
	if rdb != nil {
		weekCache = cache.NewWeekCache(rdb, logger, config.DurationSeconds("WEEK_CACHE_TTL_SECONDS", 5*time.Minute))
	}
	svc := schedule.NewService(repo, weekCache, logger)
	ops := schedule.NewWeekOpService(svc, repo, logger)

	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	purger := retention.NewPurger(repo, logger, retention.NewMetrics(promReg), retention.Config{
		OlderThanDays:  config.Int("RETENTION_OLDER_THAN_DAYS", 90),
		KeepRecentDays: config.Int("RETENTION_KEEP_RECENT_DAYS", 30),
		ChunkSize:      config.Int("RETENTION_CHUNK_SIZE", 1000),
		DryRun:         config.Bool("RETENTION_DRY_RUN", false),
		Interval:       config.DurationSeconds("RETENTION_INTERVAL_SECONDS", 24*time.Hour),
		SiteMode:       config.String("SITE_MODE", "default"),
	})
	purger.Events = outboxRepo
	go purger.Run(ctx)

	availabilityHandler := handlers.NewAvailabilityHandler(svc, ops, repo, outboxRepo, logger)
	retentionHandler := handlers.NewRetentionHandler(purger, logger)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/v1/availability/week", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			availabilityHandler.GetWeek(w, r)
			return
		}
		availabilityHandler.SaveWeek(w, r)
	})
	mux.HandleFunc("/api/v1/availability/day", availabilityHandler.GetDay)
	mux.HandleFunc("/api/v1/availability/week/copy", availabilityHandler.CopyWeek)
	mux.HandleFunc("/api/v1/availability/week/apply", availabilityHandler.ApplyRange)
	mux.HandleFunc("/api/v1/availability/week/validate", availabilityHandler.ValidateChanges)
	mux.HandleFunc("/api/v1/availability/provider/cleanup", availabilityHandler.DeleteProviderDays)
	mux.HandleFunc("/api/v1/admin/retention/purge", retentionHandler.Purge)

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1 << 20),
		httpx.WithTimeout(15 * time.Second),
	}
	if origins := config.String("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		middlewares = append(middlewares, httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(origins, ","),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			MaxAge:         10 * time.Minute,
		}))
	}
	rateLimit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if rdb != nil {
		limiter := httpx.NewRedisRateLimiter(rdb, rateLimit, time.Minute, "rl:availability")
		middlewares = append(middlewares, limiter.Middleware(logger, true))
	} else {
		middlewares = append(middlewares, httpx.NewRateLimiter(rateLimit, time.Minute).Middleware())
	}
	httpHandler := httpx.Chain(mux, middlewares...)
	httpHandler = otelhttp.NewHandler(httpHandler, "availability")

	if err := startGrpcServer(ctx, logger, svc); err != nil {
		logger.Error("grpc server start failed", "err", err)
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
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
