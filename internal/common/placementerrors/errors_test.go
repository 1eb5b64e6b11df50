package placementerrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrInvalidArgument(t *testing.T) {
	tests := map[string]struct {
		err      *ErrInvalidArgument
		expected string
	}{
		"without message": {
			err:      &ErrInvalidArgument{Name: "scaling.maxMemory", Value: "lots"},
			expected: `value "lots" is invalid for field "scaling.maxMemory"`,
		},
		"with message": {
			err:      &ErrInvalidArgument{Name: "scaling.maxTime", Value: "soon", Message: "not a duration"},
			expected: `value "soon" is invalid for field "scaling.maxTime"; not a duration`,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil))

	err := Combine([]string{"first problem", "second problem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first problem")
	assert.Contains(t, err.Error(), "second problem")
	assert.True(t, IsConfigurationError(err))
	assert.True(t, IsConfigurationError(errors.WithMessage(err, "cannot start")))

	var configErr *ErrConfiguration
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, []string{"first problem", "second problem"}, configErr.Problems)
}

func TestIsConfigurationError(t *testing.T) {
	assert.False(t, IsConfigurationError(errors.New("foo")))
	assert.False(t, IsConfigurationError(nil))
	assert.True(t, IsConfigurationError(&ErrConfiguration{Problems: []string{"foo"}}))
}
