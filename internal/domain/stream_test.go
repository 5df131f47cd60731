package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOverlapRequestEvent_IsBaseline(t *testing.T) {
	tests := []struct {
		name     string
		event    OverlapRequestEvent
		expected bool
	}{
		{
			name:     "no sketch",
			event:    OverlapRequestEvent{JobID: uuid.New()},
			expected: true,
		},
		{
			name:     "explicit null sketch",
			event:    OverlapRequestEvent{JobID: uuid.New(), Sketch: []byte("null")},
			expected: true,
		},
		{
			name:     "sketch present",
			event:    OverlapRequestEvent{JobID: uuid.New(), Sketch: []byte(`{"type":"Feature"}`)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.IsBaseline())
		})
	}
}
