package ui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedStdin replaces os.Stdin with the given input for one prompt cycle.
func feedStdin(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	original := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = original
		r.Close()
	})
}

func TestReadOrbitPass(t *testing.T) {
	t.Run("both passes leaves the filter open", func(t *testing.T) {
		feedStdin(t, "1\n")
		orbit, err := readOrbitPass()
		require.NoError(t, err)
		assert.Equal(t, "", orbit)
	})

	t.Run("ascending", func(t *testing.T) {
		feedStdin(t, "2\n")
		orbit, err := readOrbitPass()
		require.NoError(t, err)
		assert.Equal(t, "ASCENDING", orbit)
	})

	t.Run("descending", func(t *testing.T) {
		feedStdin(t, "3\n")
		orbit, err := readOrbitPass()
		require.NoError(t, err)
		assert.Equal(t, "DESCENDING", orbit)
	})

	t.Run("out of range is rejected", func(t *testing.T) {
		feedStdin(t, "4\n")
		_, err := readOrbitPass()
		assert.Error(t, err)
	})
}
