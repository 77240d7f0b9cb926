package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_IsIncreasing(t *testing.T) {
	require.NoError(t, Init(3))

	prev := Next()
	for i := 0; i < 1000; i++ {
		next := Next()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestNext_ConcurrentCallsAreUnique(t *testing.T) {
	const workers, perWorker = 8, 200

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, v := range ids {
				seen[v] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
