package overlap

import "github.com/ous-demographics/internal/domain"

// EmitMetrics превращает статистику в плоский список метрик: сначала общие итоги,
// затем пары peopleCount/respondentCount для секторов, атоллов, островов и снастей
// в порядке появления ключей.
func EmitMetrics(stats domain.OusStats, sketchID *string) []domain.Metric {
	n := 2 + 2*(stats.BySector.Len()+stats.ByAtoll.Len()+stats.ByIsland.Len()+stats.ByGear.Len())
	metrics := make([]domain.Metric, 0, n)

	metrics = append(metrics,
		domain.NewMetric(domain.MetricPeopleCount, domain.ClassPeopleCountAll, stats.People, sketchID),
		domain.NewMetric(domain.MetricRespondentCount, domain.ClassRespondentCountAll, float64(stats.Respondents), sketchID),
	)

	for _, classes := range []domain.ClassCountStats{stats.BySector, stats.ByAtoll, stats.ByIsland, stats.ByGear} {
		metrics = append(metrics, classMetrics(classes, sketchID)...)
	}
	return metrics
}

func classMetrics(classes domain.ClassCountStats, sketchID *string) []domain.Metric {
	metrics := make([]domain.Metric, 0, 2*classes.Len())
	for _, key := range classes.Keys() {
		s, _ := classes.Get(key)
		metrics = append(metrics,
			domain.NewMetric(domain.MetricPeopleCount, key, s.People, sketchID),
			domain.NewMetric(domain.MetricRespondentCount, key, float64(s.Respondents), sketchID),
		)
	}
	return metrics
}
