package guard_test

import (
	"errors"
	"testing"

	"blogjobs/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	notConstructed := errors.New("command not constructed")

	tests := []struct {
		name     string
		guard    guard.ConstructorGuard
		input    error
		expected error
	}{
		{name: "constructed with custom error", guard: guard.NewConstructorGuard(), input: notConstructed},
		{name: "constructed with nil error", guard: guard.NewConstructorGuard(), input: nil},
		{name: "zero value returns custom error", guard: guard.ConstructorGuard{}, input: notConstructed, expected: notConstructed},
		{name: "zero value falls back to default", guard: guard.ConstructorGuard{}, input: nil, expected: guard.ErrDefaultConstructorGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Validate(tt.input)
			if tt.expected == nil {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.expected, err)
		})
	}
}

func TestConstructorGuard_EmbeddedZeroValue(t *testing.T) {
	type command struct {
		guard guard.ConstructorGuard
	}

	var cmd command
	require.ErrorIs(t, cmd.guard.Validate(nil), guard.ErrDefaultConstructorGuard)

	cmd = command{guard: guard.NewConstructorGuard()}
	require.NoError(t, cmd.guard.Validate(nil))
}
