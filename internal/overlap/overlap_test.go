package overlap

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/ous-demographics/internal/domain"
	apperrors "github.com/ous-demographics/internal/pkg/errors"
)

type recordingObserver struct {
	mu      sync.Mutex
	runs    []RunStats
	skipped []string
}

func (o *recordingObserver) RunCompleted(stats RunStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, stats)
}

func (o *recordingObserver) RecordSkipped(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped = append(o.skipped, reason)
}

// panickingObserver падает на пропущенной записи
type panickingObserver struct{ NopObserver }

func (panickingObserver) RecordSkipped(reason string) {
	panic("observer failed on " + reason)
}

type CalculatorTestSuite struct {
	suite.Suite
	observer *recordingObserver
	calc     *Calculator
}

func (s *CalculatorTestSuite) SetupTest() {
	s.observer = &recordingObserver{}
	s.calc = NewCalculator(DefaultConfig(), s.observer, zaptest.NewLogger(s.T()))
}

func (s *CalculatorTestSuite) calculator(parallelism int) *Calculator {
	cfg := DefaultConfig()
	cfg.Parallelism = parallelism
	return NewCalculator(cfg, s.observer, zaptest.NewLogger(s.T()))
}

func TestCalculatorTestSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}

func (s *CalculatorTestSuite) TestBaselineFixture() {
	result, err := s.calc.Calculate(context.Background(), loadFixture(s.T()), nil)
	s.Require().NoError(err)

	stats := result.Stats
	s.Equal(2, stats.Respondents)
	s.InDelta(21.0, stats.People, 1e-9)

	s.Equal([]string{"artisanal fishing", "tuna fishing", "bait fishing"}, stats.BySector.Keys())
	s.Equal([]string{"Lh", "HA"}, stats.ByAtoll.Keys())
	s.Equal([]string{"Lh - Kurendhoo", "HA - Filladhoo"}, stats.ByIsland.Keys())
	s.Equal([]string{"Nets", "Jigging", "Longline"}, stats.ByGear.Keys())

	bait, ok := stats.BySector.Get("bait fishing")
	s.Require().True(ok)
	s.Equal(domain.BaseCountStats{Respondents: 1, People: 20}, bait)

	s.Len(result.Metrics, 22)
	for _, m := range result.Metrics {
		s.Nil(m.SketchID)
	}
	s.Equal(domain.NewMetric(domain.MetricPeopleCount, domain.ClassPeopleCountAll, 21, nil), result.Metrics[0])
	s.Equal(domain.NewMetric(domain.MetricRespondentCount, domain.ClassRespondentCountAll, 2, nil), result.Metrics[1])

	s.Require().Len(s.observer.runs, 1)
	s.Equal(ModeBaseline, s.observer.runs[0].Mode)
	s.Equal(3, s.observer.runs[0].Records)
	s.NoError(s.observer.runs[0].Err)
}

func (s *CalculatorTestSuite) TestSketchFixture() {
	area := sketchArea("sketch-1", square(72.95, 6.85, 0.2))

	result, err := s.calc.Calculate(context.Background(), loadFixture(s.T()), area)
	s.Require().NoError(err)

	stats := result.Stats
	s.Equal(1, stats.Respondents)
	s.InDelta(20.0, stats.People, 1e-9)
	s.Equal([]string{"tuna fishing"}, stats.BySector.Keys())
	s.Equal([]string{"HA"}, stats.ByAtoll.Keys())
	s.Equal([]string{"HA - Filladhoo"}, stats.ByIsland.Keys())
	s.Equal([]string{"Longline"}, stats.ByGear.Keys())

	s.Require().NotEmpty(result.Metrics)
	for _, m := range result.Metrics {
		s.Require().NotNil(m.SketchID)
		s.Equal("sketch-1", *m.SketchID)
		s.Greater(m.Value, 0.0)
	}

	s.Equal(ModeSketch, s.observer.runs[0].Mode)
	s.Equal("sketch-1", s.observer.runs[0].SketchID)
}

func (s *CalculatorTestSuite) TestSketchCollectionOverlapsBothRespondents() {
	area := &domain.PlanningArea{
		ID:         "network",
		Collection: true,
		Sketches: []domain.Sketch{
			{ID: "north", Geometry: square(73.45, 6.95, 0.2)},
			{ID: "south", Geometry: orb.MultiPolygon{square(73.05, 5.05, 0.01)}},
		},
	}

	result, err := s.calc.Calculate(context.Background(), loadFixture(s.T()), area)
	s.Require().NoError(err)

	s.Equal(2, result.Stats.Respondents)
	s.InDelta(21.0, result.Stats.People, 1e-9)
	s.Equal([]string{"artisanal fishing", "bait fishing"}, result.Stats.BySector.Keys())
	for _, m := range result.Metrics {
		s.Equal("network", *m.SketchID)
	}
}

func (s *CalculatorTestSuite) TestNoOverlap() {
	area := sketchArea("far", square(10, 10, 1))

	result, err := s.calc.Calculate(context.Background(), loadFixture(s.T()), area)
	s.Require().NoError(err)

	s.Equal(0, result.Stats.Respondents)
	s.Len(result.Metrics, 2)
	for _, m := range result.Metrics {
		s.Equal(0.0, m.Value)
		s.Equal("far", *m.SketchID)
	}
}

func (s *CalculatorTestSuite) TestEmptyInput() {
	result, err := s.calc.Calculate(context.Background(), nil, nil)
	s.Require().NoError(err)

	s.Equal(domain.BaseCountStats{}, result.Stats.BaseCountStats)
	s.Equal(0, result.Stats.BySector.Len())
	s.Equal(0, result.Stats.ByGear.Len())
	s.Equal([]domain.Metric{
		domain.NewMetric(domain.MetricPeopleCount, domain.ClassPeopleCountAll, 0, nil),
		domain.NewMetric(domain.MetricRespondentCount, domain.ClassRespondentCountAll, 0, nil),
	}, result.Metrics)
	s.Equal(0, s.observer.runs[0].Partitions)
}

func (s *CalculatorTestSuite) TestMissingRespondentContributesNothing() {
	records := []domain.SurveyRecord{record("", recordOpts{atoll: "HA", people: domain.PeopleNumber(5)})}

	result, err := s.calc.Calculate(context.Background(), records, nil)
	s.Require().NoError(err)

	s.Equal(0, result.Stats.Respondents)
	s.Equal(0.0, result.Stats.People)
	s.Equal(0, result.Stats.ByAtoll.Len())
	s.Require().Len(result.Metrics, 2)
	s.Equal(domain.ClassPeopleCountAll, result.Metrics[0].ClassID)
	s.Equal(0.0, result.Metrics[0].Value)
	s.Equal(domain.ClassRespondentCountAll, result.Metrics[1].ClassID)
	s.Equal(0.0, result.Metrics[1].Value)

	s.Equal([]string{SkipMissingRespondent}, s.observer.skipped)
	s.Equal(1, s.observer.runs[0].Skipped)
}

func (s *CalculatorTestSuite) TestNullAttributesGoToUnknownBuckets() {
	records := []domain.SurveyRecord{record("R1", recordOpts{})}

	result, err := s.calc.Calculate(context.Background(), records, nil)
	s.Require().NoError(err)

	s.Len(result.Metrics, 10)
	one := domain.BaseCountStats{Respondents: 1, People: 1}
	for _, tc := range []struct {
		classes domain.ClassCountStats
		key     string
	}{
		{result.Stats.BySector, domain.UnknownSector},
		{result.Stats.ByAtoll, domain.UnknownAtoll},
		{result.Stats.ByIsland, domain.UnknownIsland},
		{result.Stats.ByGear, domain.UnknownGear},
	} {
		got, ok := tc.classes.Get(tc.key)
		s.True(ok, tc.key)
		s.Equal(one, got, tc.key)
	}
}

func (s *CalculatorTestSuite) TestGearCountedOncePerRespondentAndToken() {
	records := []domain.SurveyRecord{
		record("R1", recordOpts{sector: "reef fishing", gear: "Nets", people: domain.PeopleNumber(3)}),
		record("R1", recordOpts{sector: "reef fishing", gear: "Jigging  Nets", people: domain.PeopleNumber(3)}),
		record("R1", recordOpts{sector: "reef fishing", gear: "Jigging", people: domain.PeopleNumber(3)}),
	}

	result, err := s.calc.Calculate(context.Background(), records, nil)
	s.Require().NoError(err)

	s.Equal(1, result.Stats.Respondents)
	s.Equal(3.0, result.Stats.People)
	s.Equal(map[string]domain.BaseCountStats{
		"Nets":    {Respondents: 1, People: 3},
		"Jigging": {Respondents: 1, People: 3},
	}, result.Stats.ByGear.AsMap())
	s.Equal(map[string]domain.BaseCountStats{
		"reef fishing": {Respondents: 1, People: 3},
	}, result.Stats.BySector.AsMap())
}

func (s *CalculatorTestSuite) TestGearNamedLikeSectorIsStillCounted() {
	records := []domain.SurveyRecord{
		record("R1", recordOpts{sector: "trolling", gear: "trolling"}),
	}

	result, err := s.calc.Calculate(context.Background(), records, nil)
	s.Require().NoError(err)

	_, ok := result.Stats.BySector.Get("trolling")
	s.True(ok)
	_, ok = result.Stats.ByGear.Get("trolling")
	s.True(ok)
}

func (s *CalculatorTestSuite) TestMalformedPeopleCountFailsBatch() {
	records := append(generateRecords(3, 20),
		record("ZZZ", recordOpts{people: domain.PeopleText("twenty")}))

	result, err := s.calculator(4).Calculate(context.Background(), records, nil)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrInvalidPeopleCount)
	s.ErrorIs(err, domain.ErrMalformedPeopleCount)

	s.Require().Len(s.observer.runs, 1)
	s.Error(s.observer.runs[0].Err)
}

func (s *CalculatorTestSuite) TestNonFinitePeopleCountFailsBatch() {
	for _, raw := range []string{"NaN", "Inf", "-Infinity", "-5"} {
		s.Run(raw, func() {
			records := []domain.SurveyRecord{record("A-001", recordOpts{people: domain.PeopleText(raw)})}

			result, err := s.calc.Calculate(context.Background(), records, nil)
			s.Nil(result)
			s.ErrorIs(err, apperrors.ErrInvalidPeopleCount)
		})
	}

	result, err := s.calc.Calculate(context.Background(),
		[]domain.SurveyRecord{record("A-001", recordOpts{people: domain.PeopleNumber(-3)})}, nil)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrInvalidPeopleCount)
}

func (s *CalculatorTestSuite) TestPartitionPanicFailsComputation() {
	calc := NewCalculator(Config{Parallelism: 2}, panickingObserver{}, zaptest.NewLogger(s.T()))
	records := append(generateRecords(7, 10), record("", recordOpts{}))

	result, err := calc.Calculate(context.Background(), records, nil)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrComputationFailed)
	s.ErrorContains(err, "panicked")
}

func (s *CalculatorTestSuite) TestTimeout() {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	result, err := s.calculator(2).Calculate(ctx, generateRecords(5, 50), nil)
	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrComputationTimeout)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *CalculatorTestSuite) TestConfigDefaults() {
	calc := NewCalculator(Config{SimplifyTolerance: -1}, nil, nil)

	s.Equal(Config{Parallelism: DefaultParallelism, Timeout: DefaultTimeout}, calc.Config())
}

func (s *CalculatorTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.calc.Calculate(ctx, generateRecords(6, 20), nil)
	s.Nil(result)
	s.ErrorIs(err, context.Canceled)
}

// Результат не зависит от числа частей
func TestCalculate_PartitionInvariance(t *testing.T) {
	area := sketchArea("inv", square(2.5, 2.5, 4))

	for seed := int64(1); seed <= 10; seed++ {
		records := generateRecords(seed, 40)

		for _, a := range []*domain.PlanningArea{nil, area} {
			reference, err := NewCalculator(Config{Parallelism: 1}, nil, nil).Calculate(context.Background(), records, a)
			require.NoError(t, err)

			for _, k := range []int{2, 3, 6, 9} {
				name := fmt.Sprintf("seed=%d/k=%d/sketch=%t", seed, k, a != nil)
				t.Run(name, func(t *testing.T) {
					got, err := NewCalculator(Config{Parallelism: k}, nil, nil).Calculate(context.Background(), records, a)
					require.NoError(t, err)

					assert.Equal(t, reference.Stats.BaseCountStats, got.Stats.BaseCountStats)
					assertClassesEqual(t, reference.Stats.BySector, got.Stats.BySector)
					assertClassesEqual(t, reference.Stats.ByAtoll, got.Stats.ByAtoll)
					assertClassesEqual(t, reference.Stats.ByIsland, got.Stats.ByIsland)
					assertClassesEqual(t, reference.Stats.ByGear, got.Stats.ByGear)
					assert.ElementsMatch(t, reference.Metrics, got.Metrics)
				})
			}
		}
	}
}

// Сумма по атоллам и островам равна общему итогу
func TestCalculate_AtollAndIslandTotals(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		result, err := NewCalculator(DefaultConfig(), nil, nil).Calculate(context.Background(), generateRecords(seed, 40), nil)
		require.NoError(t, err)

		for _, classes := range []domain.ClassCountStats{result.Stats.ByAtoll, result.Stats.ByIsland} {
			total := classes.Total()
			assert.Equal(t, result.Stats.Respondents, total.Respondents)
			assert.InDelta(t, result.Stats.People, total.People, 1e-9)
		}
	}
}

func assertClassesEqual(t *testing.T, want, got domain.ClassCountStats) {
	t.Helper()
	assert.Equal(t, want.Keys(), got.Keys())
	for _, k := range want.Keys() {
		w, _ := want.Get(k)
		g, ok := got.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, w.Respondents, g.Respondents, k)
		assert.InDelta(t, w.People, g.People, 1e-9, k)
	}
}
