package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasRange(t *testing.T) {
	for _, n := range []int{1, 2, 8, 256} {
		for x := 0; x < n; x++ {
			a := Alias(x, n)
			assert.Greater(t, 2*a, -n, "n=%d x=%d", n, x)
			assert.LessOrEqual(t, a, n/2, "n=%d x=%d", n, x)
			assert.Equal(t, x, (a+n)%n)
		}
	}
	assert.Equal(t, 128, Alias(128, 256))
	assert.Equal(t, -127, Alias(129, 256))
}

func TestPowerOfTwo(t *testing.T) {
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(256))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(-4))
	assert.False(t, IsPowerOfTwo(100))
	assert.Equal(t, 0, Log2(1))
	assert.Equal(t, 8, Log2(256))
}

func TestErrorsUnwrap(t *testing.T) {
	err := fmt.Errorf("frame: %w", &ComputeError{Pass: "fft", Stage: 3, Err: errors.New("lost device")})
	var ce *ComputeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Stage)
	assert.Contains(t, err.Error(), "lost device")

	var cfg *ConfigError
	require.True(t, errors.As(ValidateSize("mesh size", 100), &cfg))
	assert.Equal(t, "mesh size", cfg.Field)
	assert.NoError(t, ValidateSize("mesh size", 64))
}
