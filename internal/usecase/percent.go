package usecase

import "github.com/ous-demographics/internal/domain"

// ToPercentMetrics переводит метрики участка в доли от базовой линии.
// Для каждой метрики ищется базовая с тем же metricId и classId;
// metricId результата получает суффикс Perc. Нулевая база дает 0.
func ToPercentMetrics(sketch, baseline []domain.Metric) []domain.Metric {
	type key struct{ metricID, classID string }
	base := make(map[key]float64, len(baseline))
	for _, m := range baseline {
		base[key{m.MetricID, m.ClassID}] = m.Value
	}

	out := make([]domain.Metric, 0, len(sketch))
	for _, m := range sketch {
		pm := m.Clone()
		pm.MetricID = m.MetricID + domain.PercentSuffix
		pm.Value = 0
		if b := base[key{m.MetricID, m.ClassID}]; b != 0 {
			pm.Value = m.Value / b
		}
		out = append(out, pm)
	}
	return out
}
