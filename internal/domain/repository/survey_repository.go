package repository

import (
	"context"

	"github.com/ous-demographics/internal/domain"
)

// SurveyRepository загружает фигуры опроса из источника данных
type SurveyRepository interface {
	// LoadAll возвращает все фигуры опроса
	LoadAll(ctx context.Context) ([]domain.SurveyRecord, error)
}

// BaselineRepository хранит предрасчитанные итоги по всему опросу
type BaselineRepository interface {
	// GetBaseline возвращает итоги версии набора данных; errors.ErrBaselineNotFound если их нет
	GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error)

	// SaveBaseline сохраняет (или заменяет) итоги версии набора данных
	SaveBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult) error
}
