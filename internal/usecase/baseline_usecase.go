package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
	"github.com/ous-demographics/internal/domain/repository"
	"github.com/ous-demographics/internal/overlap"
	"github.com/ous-demographics/internal/pkg/errors"
)

// BaselineUseCase рассчитывает итоги по всему опросу и сохраняет их в хранилища
type BaselineUseCase struct {
	surveyRepo     repository.SurveyRepository
	stores         []repository.BaselineRepository
	cacheRepo      repository.CacheRepository
	calculator     *overlap.Calculator
	datasetVersion string
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewBaselineUseCase создает новый экземпляр BaselineUseCase.
// cacheRepo может быть nil, если кеш выключен.
func NewBaselineUseCase(
	surveyRepo repository.SurveyRepository,
	stores []repository.BaselineRepository,
	cacheRepo repository.CacheRepository,
	calculator *overlap.Calculator,
	datasetVersion string,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *BaselineUseCase {
	return &BaselineUseCase{
		surveyRepo:     surveyRepo,
		stores:         stores,
		cacheRepo:      cacheRepo,
		calculator:     calculator,
		datasetVersion: datasetVersion,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

func (uc *BaselineUseCase) DatasetVersion() string {
	return uc.datasetVersion
}

// Precalculate считает базовую линию и записывает ее во все хранилища
func (uc *BaselineUseCase) Precalculate(ctx context.Context) (*domain.OusReportResult, error) {
	start := time.Now()

	records, err := uc.surveyRepo.LoadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSurveyDataUnavailable, err)
	}

	result, err := uc.calculator.Calculate(ctx, records, nil)
	if err != nil {
		return nil, err
	}

	for _, store := range uc.stores {
		if err := store.SaveBaseline(ctx, uc.datasetVersion, result); err != nil {
			return nil, fmt.Errorf("save baseline: %w", err)
		}
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetBaseline(ctx, uc.datasetVersion, result, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache baseline", zap.Error(err))
		}
	}

	uc.logger.Info("Baseline precalculated",
		zap.String("dataset_version", uc.datasetVersion),
		zap.Int("records", len(records)),
		zap.Int("respondents", result.Stats.Respondents),
		zap.Float64("people", result.Stats.People),
		zap.Duration("took", time.Since(start)))

	return result, nil
}
