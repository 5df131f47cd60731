package overlap

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
)

// ctxCheckEvery - как часто движок проверяет отмену контекста
const ctxCheckEvery = 256

// Engine считает демографию для одной части записей. Экземпляр не разделяется
// между горутинами: каждая часть получает свой.
type Engine struct {
	area     orb.MultiPolygon
	sketchID *string
	observer Observer
	logger   *zap.Logger

	seen    map[string]struct{}
	sectors map[respondentCategory]struct{}
	gears   map[respondentCategory]struct{}
	stats   domain.OusStats
	skipped int
}

type respondentCategory struct {
	respondent string
	category   string
}

// NewEngine создает движок. area == nil означает расчет базовой линии (без участка).
func NewEngine(area orb.MultiPolygon, sketchID *string, observer Observer, logger *zap.Logger) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		area:     area,
		sketchID: sketchID,
		observer: observer,
		logger:   logger,
		seen:     make(map[string]struct{}),
		sectors:  make(map[respondentCategory]struct{}),
		gears:    make(map[respondentCategory]struct{}),
	}
}

// Run обрабатывает записи по порядку и возвращает статистику с метриками
func (e *Engine) Run(ctx context.Context, records []domain.SurveyRecord) (*domain.OusReportResult, error) {
	for i := range records {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := e.add(i, &records[i]); err != nil {
			return nil, err
		}
	}

	return &domain.OusReportResult{
		Stats:   e.stats,
		Metrics: EmitMetrics(e.stats, e.sketchID),
	}, nil
}

// Skipped возвращает число пропущенных записей
func (e *Engine) Skipped() int {
	return e.skipped
}

func (e *Engine) add(index int, r *domain.SurveyRecord) error {
	p := r.Properties
	resp := p.RespondentID

	if resp == "" {
		e.skipped++
		e.logger.Warn("Missing respondent ID, skipping survey record", zap.Int("index", index))
		e.observer.RecordSkipped(SkipMissingRespondent)
		return nil
	}

	if e.area != nil && !Intersects(r.Geometry, e.area) {
		return nil
	}

	cat := resolveCategories(p)
	people, err := p.PeopleCount.Resolve()
	if err != nil {
		return fmt.Errorf("respondent %q: %w", resp, err)
	}

	// атолл и остров считаются один раз на респондента
	if _, ok := e.seen[resp]; !ok {
		e.seen[resp] = struct{}{}
		e.stats.Respondents++
		e.stats.People += people
		e.stats.ByAtoll.Increment(cat.atoll, people)
		e.stats.ByIsland.Increment(cat.island, people)
	}

	for _, gear := range cat.gears {
		key := respondentCategory{respondent: resp, category: gear}
		if _, ok := e.gears[key]; ok {
			continue
		}
		e.gears[key] = struct{}{}
		e.stats.ByGear.Increment(gear, people)
	}

	key := respondentCategory{respondent: resp, category: cat.sector}
	if _, ok := e.sectors[key]; !ok {
		e.sectors[key] = struct{}{}
		e.stats.BySector.Increment(cat.sector, people)
	}

	return nil
}
