package overlap

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/ous-demographics/internal/domain"
)

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}}
}

type recordOpts struct {
	atoll, island, sector, gear string
	people                      domain.PeopleCount
	geometry                    orb.Geometry
}

func record(resp string, o recordOpts) domain.SurveyRecord {
	g := o.geometry
	if g == nil {
		g = square(0, 0, 1)
	}
	return domain.SurveyRecord{
		Geometry: g,
		Properties: domain.SurveyProperties{
			RespondentID: resp,
			Weight:       1,
			Atoll:        domain.Present(o.atoll),
			Island:       domain.Present(o.island),
			Sector:       domain.Present(o.sector),
			Gear:         domain.Present(o.gear),
			PeopleCount:  o.people,
		},
	}
}

func loadFixture(t *testing.T) []domain.SurveyRecord {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "ous_fixture.json"))
	require.NoError(t, err)
	defer f.Close()

	records, err := domain.DecodeSurveyCollection(f)
	require.NoError(t, err)
	return records
}

func sketchArea(id string, g orb.Geometry) *domain.PlanningArea {
	return &domain.PlanningArea{
		ID:       id,
		Name:     "Sketch " + id,
		Sketches: []domain.Sketch{{ID: id, Name: "Sketch " + id, Geometry: g}},
	}
}

// generateRecords строит детерминированный набор записей с повторяющимися респондентами
func generateRecords(seed int64, respondents int) []domain.SurveyRecord {
	rnd := rand.New(rand.NewSource(seed))
	atolls := []string{"HA", "HDh", "Sh", "Lh", ""}
	islands := []string{"Dhidhdhoo", "Kulhudhuffushi", "Funadhoo", "", "Naifaru"}
	sectors := []string{"tuna fishing", "bait fishing", "reef fishing", "tourism", ""}
	gears := []string{"Pole and line", "Handline  Trolling", "Nets   Jigging", "", "Longline"}

	var records []domain.SurveyRecord
	for i := 0; i < respondents; i++ {
		resp := fmt.Sprintf("R%03d", rnd.Intn(respondents*2))
		atoll := atolls[rnd.Intn(len(atolls))]
		island := islands[rnd.Intn(len(islands))]
		people := domain.PeopleUnset()
		switch rnd.Intn(3) {
		case 1:
			people = domain.PeopleNumber(float64(rnd.Intn(30) + 1))
		case 2:
			people = domain.PeopleText(fmt.Sprintf("%d", rnd.Intn(30)+1))
		}

		shapes := rnd.Intn(4) + 1
		for s := 0; s < shapes; s++ {
			records = append(records, record(resp, recordOpts{
				atoll:    atoll,
				island:   island,
				sector:   sectors[rnd.Intn(len(sectors))],
				gear:     gears[rnd.Intn(len(gears))],
				people:   people,
				geometry: square(float64(rnd.Intn(10)), float64(rnd.Intn(10)), 1),
			}))
		}
		if rnd.Intn(10) == 0 {
			records = append(records, record("", recordOpts{}))
		}
	}
	return records
}
