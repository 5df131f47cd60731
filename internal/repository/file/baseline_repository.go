package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
	apperrors "github.com/ous-demographics/internal/pkg/errors"
)

// baselineFile - содержимое файла предрасчитанных итогов
type baselineFile struct {
	DatasetVersion string                  `json:"datasetVersion"`
	Result         *domain.OusReportResult `json:"result"`
}

// BaselineRepository хранит итоги по всему опросу в одном JSON файле
type BaselineRepository struct {
	path   string
	logger *zap.Logger
}

func NewBaselineRepository(path string, logger *zap.Logger) *BaselineRepository {
	return &BaselineRepository{path: path, logger: logger}
}

// GetBaseline читает итоги; файл другой версии набора данных считается отсутствующим
func (r *BaselineRepository) GetBaseline(ctx context.Context, datasetVersion string) (*domain.OusReportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, r.notFound(datasetVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("read baseline file: %w", err)
	}

	var stored baselineFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode baseline file %s: %w", r.path, err)
	}
	if stored.DatasetVersion != datasetVersion || stored.Result == nil {
		r.logger.Warn("Baseline file version mismatch",
			zap.String("path", r.path),
			zap.String("stored", stored.DatasetVersion),
			zap.String("requested", datasetVersion))
		return nil, r.notFound(datasetVersion)
	}
	return stored.Result, nil
}

// SaveBaseline записывает итоги через временный файл и rename
func (r *BaselineRepository) SaveBaseline(ctx context.Context, datasetVersion string, result *domain.OusReportResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(baselineFile{DatasetVersion: datasetVersion, Result: result}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create baseline dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".baseline-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close baseline: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace baseline file: %w", err)
	}

	r.logger.Info("Baseline written",
		zap.String("path", r.path),
		zap.String("dataset_version", datasetVersion))
	return nil
}

func (r *BaselineRepository) notFound(datasetVersion string) error {
	return apperrors.ErrBaselineNotFound.WithDetails(map[string]interface{}{
		"dataset_version": datasetVersion,
	})
}
