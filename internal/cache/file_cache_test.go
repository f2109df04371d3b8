package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scenePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	fc := NewFileCache[[]scenePoint]("test_cache")
	points := []scenePoint{
		{Date: "2024-01-05", Value: 0.42},
		{Date: "2024-01-15", Value: 0.37},
	}

	key := fc.GenerateKey("ndti", "2024-01-01", "2024-02-01")
	require.NoError(t, fc.Set(key, points))

	got, ok := fc.Get(key)
	require.True(t, ok)
	assert.Equal(t, points, got)
}

func TestFileCacheGenerateKey(t *testing.T) {
	fc := NewFileCache[string]("test_cache")

	t.Run("deterministic", func(t *testing.T) {
		a := fc.GenerateKey("ndvi", 2024, 77.5)
		b := fc.GenerateKey("ndvi", 2024, 77.5)
		assert.Equal(t, a, b)
	})

	t.Run("param order matters", func(t *testing.T) {
		a := fc.GenerateKey("ndvi", "evi")
		b := fc.GenerateKey("evi", "ndvi")
		assert.NotEqual(t, a, b)
	})

	t.Run("hex sha1 length", func(t *testing.T) {
		assert.Len(t, fc.GenerateKey("x"), 40)
	})
}

func TestFileCacheMiss(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	fc := NewFileCache[scenePoint]("test_cache")
	_, ok := fc.Get("no-such-key")
	assert.False(t, ok)
}

func TestFileCacheChecksumMismatch(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ROOT_PATH", root)

	fc := NewFileCache[scenePoint]("test_cache")
	key := fc.GenerateKey("tampered")
	require.NoError(t, fc.Set(key, scenePoint{Date: "2024-03-01", Value: 1.5}))

	cacheFile := filepath.Join(root, "data", "test_cache", key+".json")
	tampered, err := json.Marshal(CacheEntry[scenePoint]{
		Data:      scenePoint{Date: "2024-03-01", Value: 99},
		CreatedAt: time.Now(),
		Checksum:  "deadbeef",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cacheFile, tampered, 0644))

	_, ok := fc.Get(key)
	assert.False(t, ok)
}

func TestFileCacheCorruptFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ROOT_PATH", root)

	fc := NewFileCache[scenePoint]("test_cache")
	dir := filepath.Join(root, "data", "test_cache")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644))

	_, ok := fc.Get("bad")
	assert.False(t, ok)
}
