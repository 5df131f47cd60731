package overlap

import (
	"sort"

	"github.com/ous-demographics/internal/domain"
)

// SortByRespondent упорядочивает записи по resp_id (стабильно, исходный срез не меняется)
func SortByRespondent(records []domain.SurveyRecord) []domain.SurveyRecord {
	sorted := make([]domain.SurveyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Properties.RespondentID < sorted[j].Properties.RespondentID
	})
	return sorted
}

// Partition делит отсортированные по респонденту записи не более чем на k
// непрерывных непустых частей. Записи одного респондента всегда попадают в одну часть.
func Partition(records []domain.SurveyRecord, k int) [][]domain.SurveyRecord {
	n := len(records)
	if n == 0 {
		return nil
	}
	if k <= 1 || n < k {
		return [][]domain.SurveyRecord{records}
	}

	size := (n + k - 1) / k
	parts := make([][]domain.SurveyRecord, 0, k)
	start := 0

	for i := 1; i < k && start < n; i++ {
		end := i * size
		if end <= start {
			// предыдущий разрез уже ушел дальше номинальной границы
			continue
		}
		for end < n && sameRespondent(records, end-1, end) {
			end++
		}
		if end >= n {
			break
		}
		parts = append(parts, records[start:end])
		start = end
	}

	if start < n {
		parts = append(parts, records[start:])
	}
	return parts
}

func sameRespondent(records []domain.SurveyRecord, i, j int) bool {
	return records[i].Properties.RespondentID == records[j].Properties.RespondentID
}
