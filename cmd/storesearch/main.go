package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storesearch/internal/config"
	dbRedis "github.com/kailas-cloud/storesearch/internal/db/redis"
	"github.com/kailas-cloud/storesearch/internal/domain"
	logpkg "github.com/kailas-cloud/storesearch/internal/logger"
	"github.com/kailas-cloud/storesearch/internal/metrics"
	catalogrepo "github.com/kailas-cloud/storesearch/internal/repository/catalog"
	"github.com/kailas-cloud/storesearch/internal/repository/searchcache"
	tenantrepo "github.com/kailas-cloud/storesearch/internal/repository/tenant"
	chiTransport "github.com/kailas-cloud/storesearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/storesearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/storesearch/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/storesearch/internal/usecase/ranking"
	searchuc "github.com/kailas-cloud/storesearch/internal/usecase/search"
	tenantuc "github.com/kailas-cloud/storesearch/internal/usecase/tenant"
	"github.com/kailas-cloud/storesearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Every key this service writes is namespaced by the configured prefix.
	domain.KeyPrefix = cfg.Storage.KeyPrefix

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search store not ready", zap.Error(err))
	}
	logger.Info("Connected to search store")

	// Tenant registry database
	pool, err := pgxpool.New(ctx, cfg.TenantDB.DSN)
	if err != nil {
		logger.Fatal("Failed to create tenant db pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Tenant db not reachable", zap.Error(err))
	}
	logger.Info("Connected to tenant db")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Take the first vectorizer config
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}
	provCfg := cfg.Embedding.Providers[provName]

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	// Query embedder: instruction prefix, no caching. Query text is embedded
	// fresh on every vector-tier execution.
	var queryEmbedder domain.Embedder = base
	if vecCfg.QueryInstruction != "" {
		queryEmbedder = domain.NewInstructionEmbedder(base, vecCfg.QueryInstruction)
	}
	logger.Info("Embedder created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vecCfg.Dimensions),
	)

	// Repositories
	catalog := catalogrepo.New(store, cfg.Search.FallbackScanLimit)
	resultCache := searchcache.New(
		store,
		time.Duration(cfg.Search.ResultTTLSec)*time.Second,
		metrics.ResultCacheTotal,
		logger,
	)
	tenantRepo := tenantrepo.New(pool)

	// Use case services
	resolver := tenantuc.New(tenantRepo, logger)
	ranker := rankinguc.NewDefault()
	orchestrator := searchuc.New(
		resolver,
		catalog,
		searchuc.AdaptEmbedder(queryEmbedder),
		resultCache,
		ranker,
		logger,
		searchuc.Options{
			DefaultLimit:      cfg.Search.DefaultLimit,
			MaxLimit:          cfg.Search.MaxLimit,
			TierTimeout:       time.Duration(cfg.Search.TierTimeoutMs) * time.Millisecond,
			KeywordConfidence: cfg.Search.KeywordConfidence,
		},
	)

	healthSvc := healthuc.New(store, pool, base)

	// HTTP server
	server := chiTransport.NewServer(orchestrator, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
