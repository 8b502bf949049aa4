package imagegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDimensions(t *testing.T) {
	t.Run("Square", func(t *testing.T) {
		w, h, err := ResolveDimensions("1/1", 512)
		require.NoError(t, err)
		assert.Equal(t, 512, w)
		assert.Equal(t, 512, h)
	})

	t.Run("Widescreen", func(t *testing.T) {
		w, h, err := ResolveDimensions("16/9", 512)
		require.NoError(t, err)
		assert.Equal(t, 672, w)
		assert.Equal(t, 384, h)
	})

	t.Run("Ultrawide", func(t *testing.T) {
		w, h, err := ResolveDimensions("21/9", 512)
		require.NoError(t, err)
		assert.Zero(t, w%16)
		assert.Zero(t, h%16)
		assert.InDelta(t, 21.0/9.0, float64(w)/float64(h), 0.2)
	})

	t.Run("Portrait", func(t *testing.T) {
		w, h, err := ResolveDimensions("9/16", 512)
		require.NoError(t, err)
		assert.Zero(t, w%16)
		assert.Zero(t, h%16)
		assert.Less(t, w, h)
	})

	t.Run("PropertiesHold", func(t *testing.T) {
		ratios := []string{"1/1", "2/3", "3/2", "4/5", "16/9", "9/16", "21/9", "3/4"}
		for _, ratio := range ratios {
			w, h, err := ResolveDimensions(ratio, 512)
			require.NoError(t, err, ratio)
			assert.Positive(t, w, ratio)
			assert.Positive(t, h, ratio)
			assert.Zero(t, w%16, ratio)
			assert.Zero(t, h%16, ratio)
		}
	})
}

func TestResolveDimensionsInvalidInput(t *testing.T) {
	for _, ratio := range []string{"abc", "1/0", "-1/2", "", "1/2/3", "1.5/2", "/", "16:9"} {
		_, _, err := ResolveDimensions(ratio, 512)
		assert.ErrorAs(t, err, &ErrInvalidAspectRatio{}, ratio)
	}
}

func TestResolveDimensionsTooSmall(t *testing.T) {
	_, _, err := ResolveDimensions("1/1", 10)
	assert.ErrorAs(t, err, &ErrDimensionTooSmall{})

	// Extreme ratio collapses the short edge to zero.
	_, _, err = ResolveDimensions("1000/1", 64)
	assert.ErrorAs(t, err, &ErrDimensionTooSmall{})
}
