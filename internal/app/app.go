// Package app собирает зависимости сервиса из конфигурации.
// Используется всеми командами: api, worker и precalc.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ous-demographics/internal/config"
	"github.com/ous-demographics/internal/delivery/http/handler"
	"github.com/ous-demographics/internal/domain/repository"
	"github.com/ous-demographics/internal/overlap"
	"github.com/ous-demographics/internal/pkg/metrics"
	"github.com/ous-demographics/internal/repository/cache"
	"github.com/ous-demographics/internal/repository/file"
	"github.com/ous-demographics/internal/repository/objectstore"
	"github.com/ous-demographics/internal/repository/postgres"
	"github.com/ous-demographics/internal/usecase"
)

// Options - какие подключения нужны команде помимо источника данных
type Options struct {
	// NeedRedis - Redis нужен независимо от настройки кеша (воркер)
	NeedRedis bool
}

// App - собранные зависимости
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB      *postgres.DB
	Redis   *cache.Redis
	Objects *objectstore.Client
	Metrics *metrics.Collector

	Survey        repository.SurveyRepository
	Baselines     repository.BaselineRepository
	Cache         repository.CacheRepository
	Calculator    *overlap.Calculator
	BaselineUC    *usecase.BaselineUseCase
	DemographicUC *usecase.DemographicUseCase

	closers []func() error
}

// New подключается к хранилищам и создает use case'ы. При ошибке уже
// открытые подключения закрываются.
func New(cfg *config.Config, log *zap.Logger, opts Options) (a *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a = &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// 1. Подключения
	if cfg.NeedsDatabase() {
		if a.DB, err = postgres.New(&cfg.Database, log); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, a.DB.Close)
	}

	if cfg.Cache.Enabled || opts.NeedRedis {
		if a.Redis, err = cache.NewRedis(&cfg.Redis, log); err != nil {
			return nil, err
		}
		a.closers = append(a.closers, a.Redis.Close)
	}

	if cfg.Survey.Source == config.SurveySourceMinio {
		if a.Objects, err = objectstore.NewClient(&cfg.Storage, log); err != nil {
			return nil, err
		}
	}

	var observer overlap.Observer = overlap.NewLogObserver(log)
	if cfg.Metrics.Enabled {
		if a.Metrics, err = metrics.NewCollector(metrics.Config{Namespace: cfg.Metrics.Namespace, EnableGoStats: true}); err != nil {
			return nil, fmt.Errorf("create metrics collector: %w", err)
		}
		observer = overlap.MultiObserver{observer, a.Metrics}
	}

	// 2. Репозитории
	switch cfg.Survey.Source {
	case config.SurveySourcePostgres:
		a.Survey = postgres.NewSurveyRepository(a.DB, cfg.Survey.Atolls, log)
	case config.SurveySourceMinio:
		a.Survey = objectstore.NewSurveyRepository(a.Objects, cfg.Survey.ObjectKey, log)
	default:
		a.Survey = file.NewSurveyRepository(cfg.Survey.FilePath, log)
	}

	stores := []repository.BaselineRepository{file.NewBaselineRepository(cfg.Survey.BaselinePath, log)}
	if a.DB != nil {
		stores = append(stores, postgres.NewBaselineRepository(a.DB, log))
	}
	// Читаем из последнего: база данных общая для всех экземпляров
	a.Baselines = stores[len(stores)-1]

	if cfg.Cache.Enabled {
		a.Cache = cache.NewCacheRepository(a.Redis)
	}

	// 3. Use cases
	a.Calculator = overlap.NewCalculator(overlap.Config{
		Parallelism:       cfg.Overlap.Parallelism,
		Timeout:           cfg.Overlap.Timeout,
		SimplifyTolerance: cfg.Overlap.SimplifyTolerance,
	}, observer, log)

	a.BaselineUC = usecase.NewBaselineUseCase(a.Survey, stores, a.Cache, a.Calculator,
		cfg.Survey.DatasetVer, cfg.Cache.BaselineTTL, log)

	demographicOpts := usecase.DemographicOptions{OverlapTTL: cfg.Cache.OverlapTTL}
	if a.Metrics != nil {
		demographicOpts.Recorder = a.Metrics
	}
	a.DemographicUC = usecase.NewDemographicUseCase(a.Survey, a.Baselines, a.Cache, a.Calculator,
		a.BaselineUC, demographicOpts, log)

	log.Info("Application initialized",
		zap.String("survey_source", cfg.Survey.Source),
		zap.String("dataset_version", cfg.Survey.DatasetVer),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("database", a.DB != nil),
		zap.Int("parallelism", a.Calculator.Config().Parallelism),
		zap.Duration("timeout", a.Calculator.Config().Timeout))

	return a, nil
}

// HealthCheckers возвращает проверки подключенных зависимостей
func (a *App) HealthCheckers() map[string]handler.HealthChecker {
	checkers := map[string]handler.HealthChecker{}
	if a.DB != nil {
		checkers["postgres"] = a.DB
	}
	if a.Redis != nil {
		checkers["redis"] = a.Redis
	}
	if a.Objects != nil {
		checkers["object_storage"] = a.Objects
	}
	return checkers
}

// Ping проверяет все подключения разом
func (a *App) Ping(ctx context.Context) error {
	for name, c := range a.HealthCheckers() {
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("%s health check failed: %w", name, err)
		}
	}
	return nil
}

// Close закрывает подключения в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Error("Failed to close connection", zap.Error(err))
		}
	}
	a.closers = nil
}
