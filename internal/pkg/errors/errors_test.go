package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsSentinelIntact(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(ErrComputationFailed, cause)

	assert.True(t, stderrors.Is(err, ErrComputationFailed))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrComputationTimeout))
	assert.Nil(t, ErrComputationFailed.Unwrap())
	assert.Contains(t, err.Error(), "boom")
}

func TestAs_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("usecase: %w", Wrap(ErrSurveyDataUnavailable, fmt.Errorf("no file")))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "SURVEY_DATA_UNAVAILABLE", appErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestWithDetails_ReturnsCopy(t *testing.T) {
	detailed := ErrInvalidPeopleCount.WithDetails(map[string]interface{}{"index": 3})

	assert.Equal(t, 3, detailed.Details["index"])
	assert.Empty(t, ErrInvalidPeopleCount.Details)
}
