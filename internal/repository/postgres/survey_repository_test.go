package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
)

var shapeColumns = []string{"resp_id", "weight", "atoll", "island", "sector", "gear", "number_of_ppl", "geometry"}

const squareJSON = `{"type":"Polygon","coordinates":[[[73,6.9],[73.1,6.9],[73.1,7],[73,7],[73,6.9]]]}`

// SurveyRepositoryMockSuite проверяет SQL и разбор строк без реальной базы
type SurveyRepositoryMockSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *DB
	ctx  context.Context
}

func (s *SurveyRepositoryMockSuite) SetupTest() {
	raw, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.mock = mock
	s.db = NewDBForTest(sqlx.NewDb(raw, "pgx"), zap.NewNop())
	s.ctx = context.Background()
}

func (s *SurveyRepositoryMockSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	_ = s.db.DB.Close()
}

func (s *SurveyRepositoryMockSuite) TestLoadAll_AllAtolls() {
	rows := sqlmock.NewRows(shapeColumns).
		AddRow("A-001", 1.0, "Lh", "Kurendhoo", "artisanal fishing", "Nets   Jigging", nil, squareJSON).
		AddRow("B-002", 1.0, "HA", nil, "tuna fishing", nil, "20", squareJSON)
	s.mock.ExpectQuery(`SELECT resp_id, weight, .* FROM ous_shapes ORDER BY resp_id, id`).
		WillReturnRows(rows)

	repo := NewSurveyRepository(s.db, nil, zap.NewNop())
	records, err := repo.LoadAll(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(records, 2)

	first := records[0].Properties
	s.Equal("A-001", first.RespondentID)
	s.Equal(domain.Present("Lh"), first.Atoll)
	s.Equal(domain.PeopleUnset(), first.PeopleCount)
	s.IsType(orb.Polygon{}, records[0].Geometry)

	second := records[1].Properties
	s.Equal(domain.Absent(), second.Island)
	s.Equal(domain.Absent(), second.Gear)
	people, err := second.PeopleCount.Resolve()
	s.NoError(err)
	s.Equal(20.0, people)
}

func (s *SurveyRepositoryMockSuite) TestLoadAll_FiltersAtolls() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`WHERE atoll = ANY($1)`)).
		WithArgs(pq.Array([]string{"HA", "Lh"})).
		WillReturnRows(sqlmock.NewRows(shapeColumns))

	repo := NewSurveyRepository(s.db, []string{"HA", "Lh"}, zap.NewNop())
	records, err := repo.LoadAll(s.ctx)

	s.NoError(err)
	s.Empty(records)
}

func (s *SurveyRepositoryMockSuite) TestLoadAll_RejectsNonPolygon() {
	rows := sqlmock.NewRows(shapeColumns).
		AddRow("A-001", 1.0, nil, nil, nil, nil, nil, `{"type":"Point","coordinates":[73,7]}`)
	s.mock.ExpectQuery(`FROM ous_shapes`).WillReturnRows(rows)

	_, err := NewSurveyRepository(s.db, nil, zap.NewNop()).LoadAll(s.ctx)

	s.ErrorIs(err, domain.ErrUnsupportedGeometry)
}

func (s *SurveyRepositoryMockSuite) TestLoadAll_QueryError() {
	s.mock.ExpectQuery(`FROM ous_shapes`).WillReturnError(sqlmock.ErrCancelled)

	_, err := NewSurveyRepository(s.db, nil, zap.NewNop()).LoadAll(s.ctx)

	s.ErrorIs(err, sqlmock.ErrCancelled)
}

func (s *SurveyRepositoryMockSuite) TestImport() {
	rec, err := domain.NewSurveyRecord(orb.Polygon{{{73, 6.9}, {73.1, 6.9}, {73.1, 7}, {73, 7}, {73, 6.9}}}, domain.SurveyProperties{
		RespondentID: "B-002",
		Weight:       1,
		Atoll:        domain.Present("HA"),
		Sector:       domain.Present("tuna fishing"),
		PeopleCount:  domain.PeopleNumber(20),
	})
	s.Require().NoError(err)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`TRUNCATE TABLE ous_shapes`).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := s.mock.ExpectPrepare(`INSERT INTO ous_shapes`)
	prep.ExpectExec().
		WithArgs("B-002", 1.0, "HA", nil, "tuna fishing", nil, "20", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	n, err := NewSurveyRepository(s.db, nil, zap.NewNop()).Import(s.ctx, []domain.SurveyRecord{rec})

	s.NoError(err)
	s.Equal(1, n)
}

func (s *SurveyRepositoryMockSuite) TestImport_RollsBackOnError() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`TRUNCATE TABLE ous_shapes`).WillReturnError(sqlmock.ErrCancelled)
	s.mock.ExpectRollback()

	_, err := NewSurveyRepository(s.db, nil, zap.NewNop()).Import(s.ctx, nil)

	s.Error(err)
}

func TestSurveyRepositoryMockSuite(t *testing.T) {
	suite.Run(t, new(SurveyRepositoryMockSuite))
}
