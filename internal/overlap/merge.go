package overlap

import "github.com/ous-demographics/internal/domain"

// Merge объединяет результаты частей в один. Входные результаты не изменяются.
// Метрики с одинаковыми (metricId, classId, sketchId) суммируются.
func Merge(results []*domain.OusReportResult) *domain.OusReportResult {
	if len(results) == 0 {
		return nil
	}

	acc := results[0].Clone()
	index := make(map[domain.MetricKey]int, len(acc.Metrics))
	for i, m := range acc.Metrics {
		index[m.Key()] = i
	}

	for _, r := range results[1:] {
		mergeStats(&acc.Stats, r.Stats)

		for _, m := range r.Metrics {
			key := m.Key()
			if i, ok := index[key]; ok {
				acc.Metrics[i].Value += m.Value
				continue
			}
			index[key] = len(acc.Metrics)
			acc.Metrics = append(acc.Metrics, m.Clone())
		}
	}

	return acc
}

func mergeStats(acc *domain.OusStats, in domain.OusStats) {
	acc.BaseCountStats.Add(in.BaseCountStats)
	mergeClasses(&acc.BySector, in.BySector)
	mergeClasses(&acc.ByAtoll, in.ByAtoll)
	mergeClasses(&acc.ByIsland, in.ByIsland)
	mergeClasses(&acc.ByGear, in.ByGear)
}

func mergeClasses(acc *domain.ClassCountStats, in domain.ClassCountStats) {
	for _, key := range in.Keys() {
		s, _ := in.Get(key)
		acc.Add(key, s)
	}
}
