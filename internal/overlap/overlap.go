// Package overlap считает демографию респондентов опроса, чьи районы
// активности пересекаются с участком планирования.
//
// Записи сортируются по респонденту, делятся на части без разрыва респондента,
// каждая часть считается отдельной горутиной, результаты сливаются.
package overlap

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ous-demographics/internal/domain"
	apperrors "github.com/ous-demographics/internal/pkg/errors"
)

const (
	DefaultParallelism = 6
	DefaultTimeout     = 900 * time.Second
)

// Config - параметры расчета
type Config struct {
	Parallelism       int
	Timeout           time.Duration
	SimplifyTolerance float64
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		Parallelism:       DefaultParallelism,
		Timeout:           DefaultTimeout,
		SimplifyTolerance: DefaultSimplifyTolerance,
	}
}

// Calculator распределяет записи по горутинам и сливает результаты
type Calculator struct {
	cfg      Config
	observer Observer
	logger   *zap.Logger
}

// NewCalculator создает калькулятор; нулевые поля cfg заменяются значениями по умолчанию
func NewCalculator(cfg Config, observer Observer, logger *zap.Logger) *Calculator {
	def := DefaultConfig()
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = def.Parallelism
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.SimplifyTolerance < 0 {
		cfg.SimplifyTolerance = 0
	}
	if observer == nil {
		observer = NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{cfg: cfg, observer: observer, logger: logger}
}

// Config возвращает действующие параметры
func (c *Calculator) Config() Config {
	return c.cfg
}

// Calculate считает демографию записей, пересекающих area. При area == nil
// считается базовая линия по всем записям, sketchId метрик равен nil.
// Ошибка любой части или истечение таймаута прерывает весь расчет.
func (c *Calculator) Calculate(ctx context.Context, records []domain.SurveyRecord, area *domain.PlanningArea) (*domain.OusReportResult, error) {
	start := time.Now()
	run := RunStats{Mode: ModeBaseline, Records: len(records)}
	if area != nil {
		run.Mode = ModeSketch
		run.SketchID = area.ID
		run.SketchName = area.Name
	}

	result, partitions, skipped, err := c.calculate(ctx, records, area)

	run.Partitions = partitions
	run.Skipped = skipped
	run.Duration = time.Since(start)
	run.Err = err
	c.observer.RunCompleted(run)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Calculator) calculate(ctx context.Context, records []domain.SurveyRecord, area *domain.PlanningArea) (*domain.OusReportResult, int, int, error) {
	var combined orb.MultiPolygon
	if area != nil {
		combined = Combine(SimplifyArea(area, c.cfg.SimplifyTolerance))
	}
	sketchID := area.SketchID()

	parts := Partition(SortByRespondent(records), c.cfg.Parallelism)
	if len(parts) == 0 {
		stats := domain.OusStats{}
		return &domain.OusReportResult{Stats: stats, Metrics: EmitMetrics(stats, sketchID)}, 0, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	results := make([]*domain.OusReportResult, len(parts))
	var skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallelism)

	for i, part := range parts {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("Partition panicked",
						zap.Int("partition", i),
						zap.Any("panic", r),
						zap.ByteString("stack", debug.Stack()),
					)
					err = fmt.Errorf("partition %d panicked: %v", i, r)
				}
			}()

			engine := NewEngine(combined, sketchID, c.observer, c.logger)
			res, err := engine.Run(gctx, part)
			skipped.Add(int64(engine.Skipped()))
			if err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, len(parts), int(skipped.Load()), classify(ctx, err)
	}

	return Merge(results), len(parts), int(skipped.Load()), nil
}

// classify приводит ошибку расчета к ошибке приложения
func classify(ctx context.Context, err error) error {
	switch {
	case stderrors.Is(err, domain.ErrMalformedPeopleCount):
		return apperrors.Wrap(apperrors.ErrInvalidPeopleCount, err)
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrComputationTimeout, err)
	case stderrors.Is(err, context.Canceled):
		return err
	default:
		return apperrors.Wrap(apperrors.ErrComputationFailed, err)
	}
}
