package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusEvent_IsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		phase    Phase
		expected bool
	}{
		{name: "idle", phase: PhaseIdle, expected: false},
		{name: "submitting", phase: PhaseSubmitting, expected: false},
		{name: "succeeded", phase: PhaseSucceeded, expected: true},
		{name: "failed", phase: PhaseFailed, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := StatusEvent{SessionID: uuid.New(), Phase: tt.phase}
			assert.Equal(t, tt.expected, event.IsTerminal())
		})
	}
}

func TestJoinTypes(t *testing.T) {
	assert.Equal(t, "None", JoinTypes(nil))
	assert.Equal(t, "A", JoinTypes([]SignalTypeID{"A"}))
	assert.Equal(t, "A, B", JoinTypes([]SignalTypeID{"A", "B"}))
}
