package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringUsesOnlyAlphabet(t *testing.T) {
	r := New()
	for range 50 {
		s := r.String(6, Digits)
		assert.Len(t, s, 6)
		for _, c := range s {
			assert.True(t, strings.ContainsRune(Digits, c), "unexpected rune %q", c)
		}
	}
}

func TestStringDegenerateInputs(t *testing.T) {
	r := New()
	assert.Empty(t, r.String(0, Digits))
	assert.Empty(t, r.String(4, ""))
}

func TestIntnBounds(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Intn(0))
	for range 50 {
		n := r.Intn(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
}
