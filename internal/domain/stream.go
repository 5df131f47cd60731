package domain

import (
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Stream names
const (
	StreamOverlapRequest = "stream:ous:overlap"
	StreamOverlapDone    = "stream:ous:overlap:done"
)

// OverlapRequestEvent - входящее задание на расчет пересечения.
// Пустой Sketch означает расчет базовой линии по всему опросу.
type OverlapRequestEvent struct {
	JobID  uuid.UUID       `json:"job_id"`
	Sketch json.RawMessage `json:"sketch,omitempty"`
}

// IsBaseline проверяет, что задание без участка
func (e *OverlapRequestEvent) IsBaseline() bool {
	s := string(e.Sketch)
	return s == "" || s == "null"
}

// OverlapDoneEvent - результат задания
type OverlapDoneEvent struct {
	JobID  uuid.UUID        `json:"job_id"`
	Sketch *NullSketch      `json:"sketch,omitempty"`
	Result *OusReportResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
	Code   string           `json:"code,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
