package usecase

import (
	"context"
	stderrors "errors"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
	"github.com/ous-demographics/internal/domain/repository"
	"github.com/ous-demographics/internal/overlap"
	"github.com/ous-demographics/internal/pkg/errors"
	"github.com/ous-demographics/internal/pkg/utils"
	"github.com/ous-demographics/internal/pkg/validator"
	"github.com/ous-demographics/internal/usecase/dto"
)

// Виды обращений к кешу для CacheRecorder
const (
	CacheKindOverlap  = "overlap"
	CacheKindBaseline = "baseline"
)

// CacheRecorder учитывает попадания и промахи кеша
type CacheRecorder interface {
	CacheLookup(kind string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, bool) {}

// DemographicOptions - параметры DemographicUseCase
type DemographicOptions struct {
	OverlapTTL time.Duration
	Recorder   CacheRecorder
}

// DemographicUseCase считает демографию пересечения участков с данными опроса
type DemographicUseCase struct {
	surveyRepo   repository.SurveyRepository
	baselineRepo repository.BaselineRepository
	cacheRepo    repository.CacheRepository
	calculator   *overlap.Calculator
	baselineUC   *BaselineUseCase
	overlapTTL   time.Duration
	recorder     CacheRecorder
	logger       *zap.Logger
}

// NewDemographicUseCase создает новый экземпляр DemographicUseCase.
// cacheRepo может быть nil, если кеш выключен.
func NewDemographicUseCase(
	surveyRepo repository.SurveyRepository,
	baselineRepo repository.BaselineRepository,
	cacheRepo repository.CacheRepository,
	calculator *overlap.Calculator,
	baselineUC *BaselineUseCase,
	opts DemographicOptions,
	logger *zap.Logger,
) *DemographicUseCase {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &DemographicUseCase{
		surveyRepo:   surveyRepo,
		baselineRepo: baselineRepo,
		cacheRepo:    cacheRepo,
		calculator:   calculator,
		baselineUC:   baselineUC,
		overlapTTL:   opts.OverlapTTL,
		recorder:     opts.Recorder,
		logger:       logger,
	}
}

// OverlapSketch возвращает демографию пересечения участка из запроса
func (uc *DemographicUseCase) OverlapSketch(ctx context.Context, req dto.OverlapRequest) (*dto.OverlapResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err))
	}

	area, err := parseArea(req.Sketch)
	if err != nil {
		return nil, err
	}

	fingerprint, err := area.Fingerprint()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidSketch, err)
	}

	// 1. Проверяем кеш
	version := uc.baselineUC.DatasetVersion()
	resp := &dto.OverlapResponse{Sketch: area.ToNullSketch()}
	result := uc.cachedOverlap(ctx, version, area.ID, fingerprint)
	if result != nil {
		resp.Cached = true
	} else {
		// 2. Считаем по всем фигурам опроса
		uc.logger.Debug("Calculating sketch overlap",
			zap.String("sketch_id", area.ID),
			zap.Int("polygons", len(area.Polygons())),
			zap.Float64("bbox_km2", utils.ApproxAreaKm2(area.Polygons().Bound())))

		records, err := uc.surveyRepo.LoadAll(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrSurveyDataUnavailable, err)
		}
		result, err = uc.calculator.Calculate(ctx, records, area)
		if err != nil {
			uc.logger.Error("Overlap calculation failed",
				zap.String("sketch_id", area.ID),
				zap.Error(err))
			return nil, err
		}
		resp.Records = len(records)

		// 3. Кешируем
		if uc.cacheRepo != nil {
			if err := uc.cacheRepo.SetOverlap(ctx, version, area.ID, fingerprint, result, uc.overlapTTL); err != nil {
				uc.logger.Warn("Failed to cache overlap result", zap.Error(err))
			}
		}
	}

	resp.Metrics = result.Metrics
	resp.Stats = result.Stats

	if req.IncludePercent {
		baseline, err := uc.Baseline(ctx)
		if err != nil {
			return nil, err
		}
		resp.PercMetrics = ToPercentMetrics(result.Metrics, baseline.Metrics)
	}

	return resp, nil
}

// Baseline возвращает итоги по всему опросу: кеш, затем хранилище, затем расчет
func (uc *DemographicUseCase) Baseline(ctx context.Context) (*dto.BaselineResponse, error) {
	version := uc.baselineUC.DatasetVersion()
	resp := &dto.BaselineResponse{DatasetVersion: version}

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetBaseline(ctx, version)
		if err != nil {
			uc.logger.Warn("Failed to get baseline from cache", zap.Error(err))
		}
		uc.recorder.CacheLookup(CacheKindBaseline, cached != nil)
		if cached != nil {
			resp.Metrics, resp.Stats, resp.Cached = cached.Metrics, cached.Stats, true
			return resp, nil
		}
	}

	result, err := uc.baselineRepo.GetBaseline(ctx, version)
	if stderrors.Is(err, errors.ErrBaselineNotFound) {
		uc.logger.Info("Baseline not stored, precalculating", zap.String("dataset_version", version))
		result, err = uc.baselineUC.Precalculate(ctx)
	} else if err == nil && uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetBaseline(ctx, version, result, uc.baselineUC.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache baseline", zap.Error(err))
		}
	}
	if err != nil {
		return nil, err
	}

	resp.Metrics, resp.Stats = result.Metrics, result.Stats
	return resp, nil
}

func (uc *DemographicUseCase) cachedOverlap(ctx context.Context, version, sketchID, fingerprint string) *domain.OusReportResult {
	if uc.cacheRepo == nil {
		return nil
	}
	cached, err := uc.cacheRepo.GetOverlap(ctx, version, sketchID, fingerprint)
	if err != nil {
		uc.logger.Warn("Failed to get overlap from cache", zap.Error(err))
	}
	uc.recorder.CacheLookup(CacheKindOverlap, cached != nil)
	if cached != nil {
		uc.logger.Debug("Overlap result fetched from cache", zap.String("sketch_id", sketchID))
	}
	return cached
}

// parseArea проверяет заголовок, разбирает участок и его охват
func parseArea(raw json.RawMessage) (*domain.PlanningArea, error) {
	var env dto.SketchEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidSketch, err)
	}
	if err := validator.Validate(env); err != nil {
		return nil, errors.ErrInvalidSketch.WithDetails(validator.FieldErrors(err))
	}

	area, err := domain.ParsePlanningArea(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidSketch, err)
	}
	if b := area.Polygons().Bound(); !utils.ValidateBound(b) {
		return nil, errors.ErrInvalidSketch.WithDetails(map[string]interface{}{
			"bbox": []float64{b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()},
		})
	}
	return area, nil
}
