package objectstore

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
)

const geoJSONContentType = "application/geo+json"

// SurveyRepository читает набор фигур опроса, опубликованный в object storage
type SurveyRepository struct {
	client *Client
	key    string
	logger *zap.Logger
}

func NewSurveyRepository(client *Client, key string, logger *zap.Logger) *SurveyRepository {
	return &SurveyRepository{client: client, key: key, logger: logger}
}

func (r *SurveyRepository) LoadAll(ctx context.Context) ([]domain.SurveyRecord, error) {
	obj, err := r.client.Open(ctx, r.key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	records, err := domain.DecodeSurveyCollection(obj)
	if err != nil {
		return nil, fmt.Errorf("object %s/%s: %w", r.client.Bucket(), r.key, err)
	}

	r.logger.Debug("Survey object loaded",
		zap.String("bucket", r.client.Bucket()),
		zap.String("key", r.key),
		zap.Int("count", len(records)))
	return records, nil
}

// Publish загружает записи как FeatureCollection под ключом репозитория
func (r *SurveyRepository) Publish(ctx context.Context, records []domain.SurveyRecord) error {
	data, err := json.Marshal(domain.SurveyCollection{Type: "FeatureCollection", Features: records})
	if err != nil {
		return fmt.Errorf("encode survey collection: %w", err)
	}
	return r.client.Put(ctx, r.key, bytes.NewReader(data), int64(len(data)), geoJSONContentType)
}
