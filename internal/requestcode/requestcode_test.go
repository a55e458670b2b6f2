package requestcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thiagoricci/Rewlio/internal/requestcode"
)

func TestGenerate(t *testing.T) {
	t.Run("produces six uppercase alphanumerics", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := requestcode.Generate()
			assert.Len(t, code, requestcode.Length)
			assert.True(t, requestcode.IsValid(code), "unexpected code %q", code)
		}
	})

	t.Run("codes differ across calls", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			seen[requestcode.Generate()] = true
		}
		assert.Greater(t, len(seen), 1)
	})
}

func TestIsValid(t *testing.T) {
	assert.True(t, requestcode.IsValid("A1B2C3"))
	assert.False(t, requestcode.IsValid("a1b2c3"))
	assert.False(t, requestcode.IsValid("A1B2C"))
	assert.False(t, requestcode.IsValid("A1B2C3D"))
	assert.False(t, requestcode.IsValid(""))
}
