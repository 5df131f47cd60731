package overlap

import (
	"regexp"

	"github.com/ous-demographics/internal/domain"
)

// gearSeparator - разделитель списка снастей в исходных данных (2+ пробельных символа)
var gearSeparator = regexp.MustCompile(`\s{2,}`)

// categories - ключи категорий одной записи опроса
type categories struct {
	atoll  string
	island string
	sector string
	gears  []string
}

func resolveCategories(p domain.SurveyProperties) categories {
	c := categories{
		atoll:  p.Atoll.OrDefault(domain.UnknownAtoll),
		island: islandKey(p.Atoll, p.Island),
		sector: p.Sector.OrDefault(domain.UnknownSector),
		gears:  splitGear(p.Gear),
	}
	return c
}

// islandKey составляет ключ "{atoll} - {island}", если оба атрибута заданы
func islandKey(atoll, island domain.Attribute) string {
	a, okA := atoll.Value()
	i, okI := island.Value()
	if !okA || !okI {
		return domain.UnknownIsland
	}
	return a + " - " + i
}

func splitGear(gear domain.Attribute) []string {
	g, ok := gear.Value()
	if !ok {
		return []string{domain.UnknownGear}
	}
	return gearSeparator.Split(g, -1)
}
