package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
	apperrors "github.com/ous-demographics/internal/pkg/errors"
)

// BaselineRepository хранит итоги по всему опросу в таблице ous_baseline
type BaselineRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewBaselineRepository(db *DB, logger *zap.Logger) *BaselineRepository {
	return &BaselineRepository{db: db, logger: logger}
}

// GetBaseline возвращает итоги версии набора данных
func (r *BaselineRepository) GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw,
		`SELECT result FROM ous_baseline WHERE dataset_version = $1`, datasetVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrBaselineNotFound.WithDetails(map[string]interface{}{
			"dataset_version": datasetVersion,
		})
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, fmt.Errorf("select baseline: %w", err))
	}

	var result domain.OusReportResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unmarshal baseline: %w", err)
	}
	return &result, nil
}

// SaveBaseline сохраняет итоги, заменяя существующие для той же версии
func (r *BaselineRepository) SaveBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ous_baseline (dataset_version, respondents, people, result)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dataset_version) DO UPDATE
		SET respondents = EXCLUDED.respondents,
		    people = EXCLUDED.people,
		    result = EXCLUDED.result,
		    updated_at = now()`,
		datasetVersion, result.Stats.Respondents, result.Stats.People, raw)
	if err != nil {
		r.logger.Error("Failed to save baseline", zap.String("dataset_version", datasetVersion), zap.Error(err))
		return apperrors.Wrap(apperrors.ErrDatabaseError, fmt.Errorf("upsert baseline: %w", err))
	}

	r.logger.Info("Baseline saved",
		zap.String("dataset_version", datasetVersion),
		zap.Int("respondents", result.Stats.Respondents),
		zap.Float64("people", result.Stats.People))
	return nil
}
