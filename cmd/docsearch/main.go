package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	"github.com/kailas-cloud/docsearch/internal/db"
	dbQdrant "github.com/kailas-cloud/docsearch/internal/db/qdrant"
	dbValkey "github.com/kailas-cloud/docsearch/internal/db/valkey"
	"github.com/kailas-cloud/docsearch/internal/domain"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/repository/embcache"
	searchrepo "github.com/kailas-cloud/docsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/docsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/docsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/docsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	"github.com/kailas-cloud/docsearch/internal/version"
)

// indexStore is what the composition root needs from a vector index driver.
type indexStore interface {
	db.Searcher
	db.Pinger
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

func main() {
	// Load configuration based on ENV (.env is read inside config.Load)
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

	logger.Info("Starting docsearch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.String("collection", cfg.Index.Collection),
		zap.String("model", cfg.Embedding.Model),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	ctx := context.Background()

	store, repoCfg, err := openIndex(cfg.Index)
	if err != nil {
		logger.Fatal("Failed to create index store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, cfg.Index.ReadinessTimeoutDuration()); err != nil {
		logger.Fatal("Vector index not ready", zap.Error(err))
	}
	logger.Info("Connected to vector index", zap.String("index", repoCfg.Index))

	// Embedding cache store (optional)
	var cacheStore *dbValkey.Store
	if cfg.Cache.Enabled {
		cacheStore, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache store", zap.Error(err))
		}
		defer cacheStore.Close()
	}

	model := embeddinguc.NewModel(buildEmbedder(cfg.Embedding, cfg.Cache, cacheStore, logger), embeddinguc.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	searchSvc := searchuc.New(searchrepo.New(store, repoCfg), model)
	healthSvc := healthuc.New(store, model, model)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// The server accepts traffic while the model loads; /search fails fast until it is ready.
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Embedding.LoadTimeoutSec)*time.Second)
		defer cancel()
		if err := model.Load(loadCtx); err != nil {
			logger.Fatal("Failed to load embedding model", zap.Error(err))
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

// openIndex creates the configured vector index driver and the repository naming for it.
func openIndex(cfg config.IndexConfig) (indexStore, searchrepo.Config, error) {
	switch cfg.Driver {
	case config.DriverQdrant:
		s, err := dbQdrant.NewStore(dbQdrant.Config{URL: cfg.URL, APIKey: cfg.APIKey})
		if err != nil {
			return nil, searchrepo.Config{}, fmt.Errorf("qdrant: %w", err)
		}
		return s, searchrepo.Config{
			Driver:       config.DriverQdrant,
			Index:        cfg.Collection,
			ReturnFields: searchuc.PayloadFields,
		}, nil
	case config.DriverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, searchrepo.Config{}, fmt.Errorf("valkey: %w", err)
		}
		return s, searchrepo.Config{
			Driver:       config.DriverValkey,
			Index:        cfg.Collection + ":idx",
			KeyPrefix:    cfg.Collection + ":",
			ReturnFields: searchuc.PayloadFields,
		}, nil
	default:
		return nil, searchrepo.Config{}, fmt.Errorf("unknown index driver %q", cfg.Driver)
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// cacheStore may be nil.
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	cacheCfg config.CacheConfig,
	cacheStore *dbValkey.Store,
	logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	var embedder domain.Embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Provider:   embCfg.Provider,
		Timeout:    time.Duration(embCfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	// Checked as a concrete pointer: a typed nil wrapped in embcache's store interface != nil.
	if cacheStore != nil {
		embedder = embcache.New(embedder, cacheStore, embCfg.Model, cacheCfg.TTL(), metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost, so cache key includes instruction)
	if embCfg.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, embCfg.QueryInstruction)
	}

	return embedder
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{Error: "Internal error"})
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.Query().Get("q")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
