package domain

// Идентификаторы метрик
const (
	MetricPeopleCount     = "peopleCount"
	MetricRespondentCount = "respondentCount"

	ClassPeopleCountAll     = MetricPeopleCount + "_all"
	ClassRespondentCountAll = MetricRespondentCount + "_all"

	// PercentSuffix добавляется к metricId для метрик доли от базовой линии
	PercentSuffix = "Perc"
)

// Metric - плоский числовой факт для последующего форматирования
type Metric struct {
	MetricID    string  `json:"metricId"`
	ClassID     string  `json:"classId"`
	GroupID     *string `json:"groupId"`
	GeographyID *string `json:"geographyId"`
	SketchID    *string `json:"sketchId"`
	Value       float64 `json:"value"`
}

// NewMetric создает метрику; sketchID == nil для расчета без участка
func NewMetric(metricID, classID string, value float64, sketchID *string) Metric {
	m := Metric{
		MetricID: metricID,
		ClassID:  classID,
		Value:    value,
	}
	if sketchID != nil {
		id := *sketchID
		m.SketchID = &id
	}
	return m
}

// MetricKey идентифицирует метрику при слиянии результатов
type MetricKey struct {
	MetricID  string
	ClassID   string
	SketchID  string
	HasSketch bool
}

func (m Metric) Key() MetricKey {
	k := MetricKey{MetricID: m.MetricID, ClassID: m.ClassID}
	if m.SketchID != nil {
		k.SketchID = *m.SketchID
		k.HasSketch = true
	}
	return k
}

// Clone копирует метрику вместе с указателями
func (m Metric) Clone() Metric {
	out := m
	out.GroupID = cloneString(m.GroupID)
	out.GeographyID = cloneString(m.GeographyID)
	out.SketchID = cloneString(m.SketchID)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
