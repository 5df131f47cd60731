package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSurveyRepositoryForTest creates a survey repository with test database and logger
func NewSurveyRepositoryForTest(db *sqlx.DB, atolls []string, logger *zap.Logger) *postgres.SurveyRepository {
	return postgres.NewSurveyRepository(NewDBForTest(db, logger), atolls, logger)
}

// NewBaselineRepositoryForTest creates a baseline repository with test database and logger
func NewBaselineRepositoryForTest(db *sqlx.DB, logger *zap.Logger) *postgres.BaselineRepository {
	return postgres.NewBaselineRepository(NewDBForTest(db, logger), logger)
}
