package overlap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ous-demographics/internal/domain"
	"github.com/ous-demographics/internal/domain/repository"
	"github.com/ous-demographics/internal/pkg/errors"
	"github.com/ous-demographics/internal/usecase/dto"
	"github.com/ous-demographics/internal/worker"
)

const (
	defaultRetryBackoff = 2 * time.Second
	defaultClaimMinIdle = 30 * time.Minute
)

// DemographicService - операции, которые выполняет воркер
type DemographicService interface {
	OverlapSketch(ctx context.Context, req dto.OverlapRequest) (*dto.OverlapResponse, error)
	Baseline(ctx context.Context) (*dto.BaselineResponse, error)
}

// Options - параметры воркера
type Options struct {
	ConsumerGroup string
	// Concurrency - сколько заданий выполняется одновременно
	Concurrency int
	ReadTimeout time.Duration
	MaxRetries  int
	// RetryBackoff - пауза перед повтором, растет линейно с номером попытки
	RetryBackoff time.Duration
	// ClaimMinIdle - простой, после которого неподтвержденное задание группы
	// забирается этим воркером. Должен превышать таймаут расчета.
	ClaimMinIdle time.Duration
}

// OverlapWorker выполняет задания расчета пересечения из stream:ous:overlap
// и публикует результаты в stream:ous:overlap:done
type OverlapWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	demographics DemographicService
	consumerName string
	opts         Options
}

// NewOverlapWorker создает новый OverlapWorker
func NewOverlapWorker(
	streamRepo repository.StreamRepository,
	demographics DemographicService,
	opts Options,
	logger *zap.Logger,
) *OverlapWorker {
	hostname, _ := os.Hostname()
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	if opts.ClaimMinIdle <= 0 {
		opts.ClaimMinIdle = defaultClaimMinIdle
	}

	return &OverlapWorker{
		BaseWorker:   worker.NewBaseWorker("ous-overlap", opts.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		demographics: demographics,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		opts:         opts,
	}
}

// Start запускает воркер и блокируется до Stop или отмены ctx
func (w *OverlapWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting OverlapWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("concurrency", w.opts.Concurrency))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamOverlapRequest, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	if pending, err := w.streamRepo.Pending(ctx, domain.StreamOverlapRequest, w.ConsumerGroup()); err != nil {
		logger.Warn("Failed to get pending jobs", zap.Error(err))
	} else if pending > 0 {
		logger.Info("Group has unacknowledged jobs",
			zap.Int64("pending", pending),
			zap.Duration("claim_min_idle", w.opts.ClaimMinIdle))
	}

	runCtx, cancel := w.RunContext(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(runCtx, domain.StreamOverlapRequest, w.ConsumerGroup(), w.consumerName,
		repository.ConsumeOptions{
			Count:        int64(w.opts.Concurrency),
			Block:        w.opts.ReadTimeout,
			ClaimMinIdle: w.opts.ClaimMinIdle,
		})
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	g := new(errgroup.Group)
	g.SetLimit(w.opts.Concurrency)
	for msg := range messages {
		g.Go(func() error {
			w.handle(runCtx, msg)
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("Worker stopped")
	return nil
}

// handle выполняет одно задание. Сообщение подтверждается после публикации результата.
// Прерванное остановкой задание и задание с неудачной публикацией остаются в pending
// и забираются повторно через ClaimMinIdle, поэтому результат может прийти дважды.
func (w *OverlapWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.OverlapRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		// ACK битое сообщение чтобы не застревало
		w.ack(ctx, msg.ID)
		return
	}
	logger = logger.With(zap.String("job_id", event.JobID.String()))

	start := time.Now()
	done := w.process(ctx, &event)
	if ctx.Err() != nil {
		logger.Info("Job interrupted, left pending")
		return
	}

	if _, err := w.streamRepo.PublishToStream(ctx, domain.StreamOverlapDone, done); err != nil {
		logger.Error("Failed to publish done event", zap.Error(err))
		return
	}
	w.ack(ctx, msg.ID)

	logger.Info("Job processed",
		zap.Bool("baseline", event.IsBaseline()),
		zap.String("code", done.Code),
		zap.Duration("took", time.Since(start)))
}

// process считает результат задания, повторяя попытки при недоступности данных
func (w *OverlapWorker) process(ctx context.Context, event *domain.OverlapRequestEvent) *domain.OverlapDoneEvent {
	done := &domain.OverlapDoneEvent{JobID: event.JobID}

	var err error
	for attempt := 0; attempt <= w.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(w.opts.RetryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return done
			}
		}

		err = w.run(ctx, event, done)
		if err == nil || !stderrors.Is(err, errors.ErrSurveyDataUnavailable) {
			break
		}
		w.Logger().Warn("Survey data unavailable, retrying",
			zap.String("job_id", event.JobID.String()),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	if err != nil {
		done.Result = nil
		done.Error = err.Error()
		done.Code = errors.ErrInternalServer.Code
		if appErr, ok := errors.As(err); ok {
			done.Code = appErr.Code
		}
	}
	return done
}

func (w *OverlapWorker) run(ctx context.Context, event *domain.OverlapRequestEvent, done *domain.OverlapDoneEvent) error {
	if event.IsBaseline() {
		resp, err := w.demographics.Baseline(ctx)
		if err != nil {
			return err
		}
		done.Result = &domain.OusReportResult{Stats: resp.Stats, Metrics: resp.Metrics}
		return nil
	}

	resp, err := w.demographics.OverlapSketch(ctx, dto.OverlapRequest{Sketch: event.Sketch})
	if err != nil {
		return err
	}
	sketch := resp.Sketch
	done.Sketch = &sketch
	done.Result = &domain.OusReportResult{Stats: resp.Stats, Metrics: resp.Metrics}
	return nil
}

func (w *OverlapWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamOverlapRequest, w.ConsumerGroup(), id); err != nil {
		w.Logger().Error("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}
