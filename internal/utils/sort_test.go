package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestSortDates(t *testing.T) {
	t.Run("ascending", func(t *testing.T) {
		dates := SortDates([]time.Time{day(15), day(1), day(30)}, true)
		assert.Equal(t, []time.Time{day(1), day(15), day(30)}, dates)
	})

	t.Run("descending", func(t *testing.T) {
		dates := SortDates([]time.Time{day(15), day(1), day(30)}, false)
		assert.Equal(t, []time.Time{day(30), day(15), day(1)}, dates)
	})
}

func TestGetSortedKeys(t *testing.T) {
	m := map[time.Time]float64{
		day(20): 0.2,
		day(5):  0.5,
		day(12): 0.1,
	}
	keys := GetSortedKeys(m, true)
	assert.Equal(t, []time.Time{day(5), day(12), day(20)}, keys)
}

func TestExecuteWithMutex(t *testing.T) {
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ExecuteWithMutex(func() {
				counter++
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}
