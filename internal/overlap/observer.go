package overlap

import (
	"time"

	"go.uber.org/zap"
)

// Mode - режим расчета
type Mode string

const (
	ModeBaseline Mode = "baseline"
	ModeSketch   Mode = "sketch"
)

// RunStats - сводка одного расчета для наблюдателя
type RunStats struct {
	Mode       Mode
	SketchID   string
	SketchName string
	Records    int
	Partitions int
	Skipped    int
	Duration   time.Duration
	Err        error
}

// Observer получает события расчета. Реализации должны быть безопасны
// для вызова из нескольких горутин.
type Observer interface {
	RunCompleted(stats RunStats)
	RecordSkipped(reason string)
}

// Причины пропуска записей
const (
	SkipMissingRespondent = "missing_respondent_id"
)

// NopObserver игнорирует события
type NopObserver struct{}

func (NopObserver) RunCompleted(RunStats) {}
func (NopObserver) RecordSkipped(string) {}

// LogObserver пишет сводку расчета в лог
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) RunCompleted(stats RunStats) {
	fields := []zap.Field{
		zap.String("mode", string(stats.Mode)),
		zap.String("sketch_id", stats.SketchID),
		zap.String("sketch_name", stats.SketchName),
		zap.Int("records", stats.Records),
		zap.Int("partitions", stats.Partitions),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration),
	}
	if stats.Err != nil {
		o.logger.Error("Demographic overlap failed", append(fields, zap.Error(stats.Err))...)
		return
	}
	o.logger.Info("Demographic overlap completed", fields...)
}

func (o *LogObserver) RecordSkipped(reason string) {
	o.logger.Debug("Survey record skipped", zap.String("reason", reason))
}

// MultiObserver рассылает события нескольким наблюдателям
type MultiObserver []Observer

func (m MultiObserver) RunCompleted(stats RunStats) {
	for _, o := range m {
		o.RunCompleted(stats)
	}
}

func (m MultiObserver) RecordSkipped(reason string) {
	for _, o := range m {
		o.RecordSkipped(reason)
	}
}
