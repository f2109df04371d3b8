package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCloudThreshold(t *testing.T) {
	t.Run("empty input uses the default", func(t *testing.T) {
		feedStdin(t, "\n")
		threshold, err := readCloudThreshold()
		require.NoError(t, err)
		assert.Equal(t, 20.0, threshold)
	})

	t.Run("accepts a value inside the range", func(t *testing.T) {
		feedStdin(t, "35\n")
		threshold, err := readCloudThreshold()
		require.NoError(t, err)
		assert.Equal(t, 35.0, threshold)
	})

	t.Run("rejects values outside 5-50", func(t *testing.T) {
		feedStdin(t, "60\n")
		_, err := readCloudThreshold()
		assert.Error(t, err)

		feedStdin(t, "2\n")
		_, err = readCloudThreshold()
		assert.Error(t, err)
	})
}
