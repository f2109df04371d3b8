package utils

import "sync"

var mu sync.Mutex

// ExecuteWithMutex serializes access to GDAL dataset reads, which are not
// safe to share between goroutines.
func ExecuteWithMutex(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
