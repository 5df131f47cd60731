package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidSketch = New(
		"INVALID_SKETCH",
		"Invalid sketch or sketch collection",
		http.StatusBadRequest,
	)

	ErrInvalidPeopleCount = New(
		"INVALID_PEOPLE_COUNT",
		"Survey record has a malformed number of people",
		http.StatusUnprocessableEntity,
	)

	ErrComputationFailed = New(
		"COMPUTATION_FAILED",
		"Demographic overlap computation failed",
		http.StatusInternalServerError,
	)

	ErrComputationTimeout = New(
		"COMPUTATION_TIMEOUT",
		"Demographic overlap computation timed out",
		http.StatusGatewayTimeout,
	)

	ErrSurveyDataUnavailable = New(
		"SURVEY_DATA_UNAVAILABLE",
		"Survey shapes could not be loaded",
		http.StatusServiceUnavailable,
	)

	ErrBaselineNotFound = New(
		"BASELINE_NOT_FOUND",
		"Baseline totals not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
