package file

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
)

// SurveyRepository читает фигуры опроса из GeoJSON файла
type SurveyRepository struct {
	path   string
	logger *zap.Logger
}

func NewSurveyRepository(path string, logger *zap.Logger) *SurveyRepository {
	return &SurveyRepository{path: path, logger: logger}
}

func (r *SurveyRepository) LoadAll(ctx context.Context) ([]domain.SurveyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()

	records, err := domain.DecodeSurveyCollection(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	r.logger.Debug("Survey file loaded",
		zap.String("path", r.path),
		zap.Int("count", len(records)))
	return records, nil
}
