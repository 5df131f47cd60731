package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
	"github.com/ous-demographics/internal/domain/repository"
)

const (
	defaultReadCount = 10
	defaultReadBlock = time.Second
	retryDelay       = time.Second
)

type streamRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreamRepository создает новый экземпляр StreamRepository
func NewStreamRepository(client *redis.Client, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт consumer group для стрима
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	// "0" - группа получит и задания, опубликованные до ее создания
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeStream читает сообщения из стрима с использованием consumer group
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string, opts repository.ConsumeOptions) (<-chan domain.StreamMessage, error) {
	if opts.Count <= 0 {
		opts.Count = defaultReadCount
	}
	if opts.Block <= 0 {
		opts.Block = defaultReadBlock
	}

	msgChan := make(chan domain.StreamMessage, opts.Count)

	send := func(msgs []domain.StreamMessage) bool {
		for _, m := range msgs {
			select {
			case msgChan <- m:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	go func() {
		defer close(msgChan)

		var lastClaim time.Time
		for {
			if ctx.Err() != nil {
				r.logger.Info("Stream consumer stopped",
					zap.String("stream", stream),
					zap.String("consumer", consumer))
				return
			}

			// Задания, брошенные остановленными consumer, забираем себе
			if opts.ClaimMinIdle > 0 && time.Since(lastClaim) >= opts.ClaimMinIdle {
				lastClaim = time.Now()
				claimed, err := r.ClaimPending(ctx, stream, group, consumer, opts.ClaimMinIdle, opts.Count)
				if err != nil && ctx.Err() == nil {
					r.logger.Error("Failed to claim pending messages",
						zap.String("stream", stream),
						zap.Error(err))
				}
				if !send(claimed) {
					return
				}
			}

			result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    opts.Count,
				Block:    opts.Block,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))
				select {
				case <-time.After(retryDelay):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, s := range result {
				if !send(r.toMessages(ctx, stream, group, s.Messages)) {
					return
				}
			}
		}
	}()

	return msgChan, nil
}

// ClaimPending забирает простаивающие сообщения группы, проходя PEL целиком
func (r *streamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]domain.StreamMessage, error) {
	if count <= 0 {
		count = defaultReadCount
	}

	var claimed []domain.StreamMessage
	start := "0-0"
	for {
		msgs, next, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   stream,
			Group:    group,
			Consumer: consumer,
			MinIdle:  minIdle,
			Start:    start,
			Count:    count,
		}).Result()
		if err != nil {
			return claimed, fmt.Errorf("failed to claim pending messages: %w", err)
		}
		claimed = append(claimed, r.toMessages(ctx, stream, group, msgs)...)
		if next == "" || next == "0-0" {
			break
		}
		start = next
	}

	if len(claimed) > 0 {
		r.logger.Info("Claimed pending messages",
			zap.String("stream", stream),
			zap.String("consumer", consumer),
			zap.Int("count", len(claimed)))
	}
	return claimed, nil
}

// toMessages извлекает поле data. Сообщения без него подтверждаются сразу,
// иначе они навсегда остались бы в pending.
func (r *streamRepository) toMessages(ctx context.Context, stream, group string, msgs []redis.XMessage) []domain.StreamMessage {
	out := make([]domain.StreamMessage, 0, len(msgs))
	for _, msg := range msgs {
		data, ok := msg.Values["data"].(string)
		if !ok {
			r.logger.Warn("Message does not contain 'data' field, acknowledging",
				zap.String("message_id", msg.ID))
			_ = r.AckMessage(ctx, stream, group, msg.ID)
			continue
		}
		out = append(out, domain.StreamMessage{ID: msg.ID, Data: data})
	}
	return out
}

// AckMessage подтверждает обработку сообщения
func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}
	return nil
}

// PublishToStream публикует сообщение в стрим и возвращает его ID
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return "", fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id),
		zap.Int("bytes", len(jsonData)))
	return id, nil
}

// Pending возвращает число неподтвержденных сообщений группы
func (r *streamRepository) Pending(ctx context.Context, stream, group string) (int64, error) {
	res, err := r.client.XPending(ctx, stream, group).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending messages: %w", err)
	}
	return res.Count, nil
}
