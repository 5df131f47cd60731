package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/domain"
)

// shapeRow - строка таблицы ous_shapes
type shapeRow struct {
	RespondentID string         `db:"resp_id"`
	Weight       float64        `db:"weight"`
	Atoll        sql.NullString `db:"atoll"`
	Island       sql.NullString `db:"island"`
	Sector       sql.NullString `db:"sector"`
	Gear         sql.NullString `db:"gear"`
	PeopleCount  sql.NullString `db:"number_of_ppl"`
	Geometry     string         `db:"geometry"`
}

// SurveyRepository читает фигуры опроса из PostGIS
type SurveyRepository struct {
	db     *DB
	atolls []string
	logger *zap.Logger
}

// NewSurveyRepository создает репозиторий; непустой atolls ограничивает выборку этими атоллами
func NewSurveyRepository(db *DB, atolls []string, logger *zap.Logger) *SurveyRepository {
	return &SurveyRepository{db: db, atolls: atolls, logger: logger}
}

// LoadAll возвращает все фигуры опроса, упорядоченные по респонденту
func (r *SurveyRepository) LoadAll(ctx context.Context) ([]domain.SurveyRecord, error) {
	query := `
		SELECT resp_id, weight, atoll, island, sector, gear, number_of_ppl,
		       ST_AsGeoJSON(geom) AS geometry
		FROM ous_shapes`
	var args []interface{}
	if len(r.atolls) > 0 {
		query += ` WHERE atoll = ANY($1)`
		args = append(args, pq.Array(r.atolls))
	}
	query += ` ORDER BY resp_id, id`

	var rows []shapeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.Error("Failed to load survey shapes", zap.Error(err))
		return nil, fmt.Errorf("select ous shapes: %w", err)
	}

	records := make([]domain.SurveyRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("row %d (resp_id %q): %w", i, row.RespondentID, err)
		}
		records = append(records, rec)
	}

	r.logger.Debug("Survey shapes loaded", zap.Int("count", len(records)))
	return records, nil
}

// Import заменяет содержимое ous_shapes записями в одной транзакции
func (r *SurveyRepository) Import(ctx context.Context, records []domain.SurveyRecord) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE TABLE ous_shapes`); err != nil {
		return 0, fmt.Errorf("truncate ous shapes: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO ous_shapes (resp_id, weight, atoll, island, sector, gear, number_of_ppl, geom)
		VALUES ($1, $2, $3, $4, $5, $6, $7, ST_Multi(ST_SetSRID(ST_GeomFromGeoJSON($8), 4326)))`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		geom, err := geojson.NewGeometry(rec.Geometry).MarshalJSON()
		if err != nil {
			return 0, fmt.Errorf("record %d geometry: %w", i, err)
		}
		p := rec.Properties
		if _, err := stmt.ExecContext(ctx,
			p.RespondentID, p.Weight,
			nullString(p.Atoll), nullString(p.Island), nullString(p.Sector), nullString(p.Gear),
			peopleColumn(p.PeopleCount), string(geom),
		); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	r.logger.Info("Survey shapes imported", zap.Int("count", len(records)))
	return len(records), nil
}

func (row shapeRow) toRecord() (domain.SurveyRecord, error) {
	g, err := geojson.UnmarshalGeometry([]byte(row.Geometry))
	if err != nil {
		return domain.SurveyRecord{}, fmt.Errorf("parse geometry: %w", err)
	}

	people := domain.PeopleUnset()
	if row.PeopleCount.Valid {
		people = domain.PeopleText(row.PeopleCount.String)
	}

	return domain.NewSurveyRecord(g.Geometry(), domain.SurveyProperties{
		RespondentID: row.RespondentID,
		Weight:       row.Weight,
		Atoll:        attribute(row.Atoll),
		Island:       attribute(row.Island),
		Sector:       attribute(row.Sector),
		Gear:         attribute(row.Gear),
		PeopleCount:  people,
	})
}

func attribute(s sql.NullString) domain.Attribute {
	if !s.Valid {
		return domain.Absent()
	}
	return domain.Present(s.String)
}

func nullString(a domain.Attribute) sql.NullString {
	v, ok := a.Value()
	return sql.NullString{String: v, Valid: ok}
}

// peopleColumn хранит number_of_ppl как текст, сохраняя исходное представление
func peopleColumn(p domain.PeopleCount) sql.NullString {
	raw, ok := p.Raw()
	return sql.NullString{String: raw, Valid: ok}
}
