package di

import (
	"context"
	"fmt"

	"AstroChart/internal/domain/repository"
	"AstroChart/internal/handler/api"
	kafkarepo "AstroChart/internal/repository"
	"AstroChart/internal/service/aspects"
	"AstroChart/internal/service/ephemeris"
	"AstroChart/internal/service/houses"
	"AstroChart/internal/service/ratelimit"
	"AstroChart/internal/service/transits"
	"AstroChart/internal/usecase"
	"AstroChart/pkg/cache"
	"AstroChart/pkg/config"
	apphttp "AstroChart/pkg/http"
	"AstroChart/pkg/kafka"
	"AstroChart/pkg/logger"
	"AstroChart/pkg/metrics"
	"AstroChart/pkg/server"
)

// ProvideLogger builds the structured logger from configuration.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideCache selects the chart/position cache backend.
func ProvideCache(cfg *config.Config) (cache.BytesCache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(cfg.Cache.MemoryMaxSize), nil
	case "redis":
		return cache.NewRedisCache(context.Background(), &cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	case "layered":
		remote, err := cache.NewRedisCache(context.Background(), &cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		local := cache.NewMemoryCache(cfg.Cache.MemoryMaxSize)
		return cache.NewLayeredCache(local, remote, cfg.Cache.ChartTTL.Std()), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideMetrics builds the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.NewRecorder()
}

// ProvidePositionProvider builds the ephemeris provider and wraps it
// with position caching.
func ProvidePositionProvider(cfg *config.Config, store cache.BytesCache) (repository.PositionProvider, error) {
	var inner repository.PositionProvider
	switch cfg.Ephemeris.Provider {
	case "builtin":
		inner = ephemeris.NewBuiltin()
	case "sidecar":
		sidecar, err := ephemeris.NewSidecar(&ephemeris.SidecarConfig{
			BaseURL:       cfg.Ephemeris.SidecarURL,
			Timeout:       cfg.Ephemeris.Timeout.Std(),
			MaxInFlight:   cfg.Ephemeris.MaxInFlight,
			RetryAttempts: cfg.Ephemeris.RetryAttempts,
		})
		if err != nil {
			return nil, err
		}
		inner = sidecar
	default:
		return nil, fmt.Errorf("unknown ephemeris provider %q", cfg.Ephemeris.Provider)
	}

	return ephemeris.NewCached(inner, store, cfg.Ephemeris.CacheTTL.Std()), nil
}

// ProvideEventPublisher builds the Kafka publisher, or a noop one when
// eventing is disabled.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return kafkarepo.NoopEventPublisher{}, nil
	}

	producer, err := kafka.NewProducer(&kafka.ProducerConfig{
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
		Compression:  cfg.Events.Compression,
		RequiredAcks: cfg.Events.RequiredAcks,
	})
	if err != nil {
		return nil, err
	}
	return kafkarepo.NewKafkaEventPublisher(producer), nil
}

// ProvideSearcher builds the transit searcher. The configured search
// settings are server-side defaults; request values override them.
func ProvideSearcher(cfg *config.Config, provider repository.PositionProvider) *transits.Searcher {
	return transits.NewSearcher(provider, cfg.Search.Workers, transits.WithDefaults(transits.Defaults{
		Step:          cfg.Search.Step.Std(),
		Tolerance:     cfg.Search.Tolerance,
		MaxIterations: cfg.Search.MaxIterations,
		DedupWindow:   cfg.Search.DedupWindow.Std(),
	}))
}

// ProvideChartUsecase wires the chart pipeline.
func ProvideChartUsecase(
	provider repository.PositionProvider,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.ChartUsecase {
	return usecase.NewChartUsecase(provider, houses.NewCalculator(), aspects.NewEngine(), m, log)
}

// ProvideTransitUsecase wires the transit pipeline.
func ProvideTransitUsecase(
	cfg *config.Config,
	charts *usecase.ChartUsecase,
	searcher *transits.Searcher,
	publisher repository.EventPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.TransitUsecase {
	return usecase.NewTransitUsecase(charts, aspects.NewEngine(), searcher, publisher, m, log, cfg.Search.Deadline.Std())
}

// ProvideBatchUsecase wires the batch processor.
func ProvideBatchUsecase(cfg *config.Config, charts *usecase.ChartUsecase, transitsUC *usecase.TransitUsecase) *usecase.BatchUsecase {
	return usecase.NewBatchUsecase(charts, transitsUC, cfg.Search.Workers)
}

// ProvideLimiter guards the range-search endpoints. One search per
// second sustained, small burst.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.NewLimiter(1, 5)
}

// ProvideHandler builds the API handler.
func ProvideHandler(
	cfg *config.Config,
	charts *usecase.ChartUsecase,
	transitsUC *usecase.TransitUsecase,
	batch *usecase.BatchUsecase,
	limiter *ratelimit.Limiter,
	store cache.BytesCache,
	m repository.Metrics,
	log *logger.Logger,
) *api.Handler {
	return api.NewHandler(charts, transitsUC, batch, limiter, store, cfg.Cache.ChartTTL.Std(), m, log)
}

// ProvideServer builds the HTTP server.
func ProvideServer(cfg *config.Config, handler *api.Handler, log *logger.Logger) *apphttp.Server {
	return apphttp.NewServer(handler,
		apphttp.WithPort(cfg.Server.Port),
		apphttp.WithTimeouts(cfg.Server.ReadTimeout.Std(), cfg.Server.WriteTimeout.Std(), cfg.Server.ShutdownTimeout.Std()),
		apphttp.WithLogger(log),
	)
}

// ProvideApp assembles the application with its shutdown hooks.
func ProvideApp(
	cfg *config.Config,
	srv *apphttp.Server,
	log *logger.Logger,
	store cache.BytesCache,
	publisher repository.EventPublisher,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(srv, log, cfg.Server.ShutdownTimeout.Std(),
		publisher.Close,
		store.Close,
		func() error {
			limiter.Close()
			return nil
		},
	)
}
