package repository

import (
	"context"
	"time"

	"github.com/ous-demographics/internal/domain"
)

// ConsumeOptions - параметры чтения из consumer group
type ConsumeOptions struct {
	// Count - сколько сообщений читать за один XREADGROUP
	Count int64
	// Block - сколько ждать новых сообщений
	Block time.Duration
	// ClaimMinIdle - через сколько простоя неподтвержденное сообщение группы
	// забирается себе (XAUTOCLAIM). Проверка выполняется при старте и затем
	// с тем же интервалом. 0 - не забирать.
	ClaimMinIdle time.Duration
}

// StreamRepository - очередь заданий на расчет поверх Redis Streams
type StreamRepository interface {
	// ConsumeStream читает сообщения группы, канал закрывается при отмене ctx
	ConsumeStream(ctx context.Context, stream, group, consumer string, opts ConsumeOptions) (<-chan domain.StreamMessage, error)

	// ClaimPending забирает у любых consumer группы сообщения, простаивающие дольше minIdle
	ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]domain.StreamMessage, error)

	// AckMessage подтверждает обработку сообщения
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// CreateConsumerGroup создаёт consumer group (повторный вызов не ошибка)
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream сериализует data в JSON и публикует в поле "data"
	PublishToStream(ctx context.Context, stream string, data interface{}) (string, error)

	// Pending возвращает число выданных, но не подтвержденных сообщений группы
	Pending(ctx context.Context, stream, group string) (int64, error)
}
