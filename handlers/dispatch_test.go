package handlers

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelDispatcher(t *testing.T) {
	t.Run("PreservesPerChannelOrdering", func(t *testing.T) {
		dispatcher := newChannelDispatcher()
		defer dispatcher.StopWait()

		var mu sync.Mutex
		var order []int
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			i := i
			wg.Add(1)
			dispatcher.Submit("dm-1", func() {
				defer wg.Done()
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})
		}
		wg.Wait()

		require.Len(t, order, 50)
		for i, got := range order {
			assert.Equal(t, i, got)
		}
	})

	t.Run("EvictsIdleChannelPools", func(t *testing.T) {
		dispatcher := newChannelDispatcher()
		defer dispatcher.StopWait()

		var done sync.WaitGroup
		for i := 0; i < 200; i++ {
			done.Add(1)
			dispatcher.Submit(fmt.Sprintf("chan-%d", i), func() {
				done.Done()
			})
		}
		done.Wait()

		assert.Eventually(t, func() bool {
			dispatcher.mu.Lock()
			defer dispatcher.mu.Unlock()
			return len(dispatcher.pools) == 0
		}, 2*time.Second, 10*time.Millisecond, "drained pools should be evicted")
	})

	t.Run("ReleasesWorkerGoroutinesAfterDrain", func(t *testing.T) {
		before := runtime.NumGoroutine()

		dispatcher := newChannelDispatcher()
		var done sync.WaitGroup
		for i := 0; i < 200; i++ {
			done.Add(1)
			dispatcher.Submit(fmt.Sprintf("chan-%d", i), func() {
				done.Done()
			})
		}
		done.Wait()
		dispatcher.StopWait()

		assert.Eventually(t, func() bool {
			return runtime.NumGoroutine() <= before+10
		}, 5*time.Second, 50*time.Millisecond, "worker goroutines should exit once channels go idle")
	})

	t.Run("ChannelSeenAgainAfterDrainGetsFreshPool", func(t *testing.T) {
		dispatcher := newChannelDispatcher()
		defer dispatcher.StopWait()

		var runs atomic.Int32
		var wg sync.WaitGroup
		wg.Add(1)
		dispatcher.Submit("dm-2", func() {
			runs.Add(1)
			wg.Done()
		})
		wg.Wait()

		assert.Eventually(t, func() bool {
			dispatcher.mu.Lock()
			defer dispatcher.mu.Unlock()
			_, ok := dispatcher.pools["dm-2"]
			return !ok
		}, 2*time.Second, 10*time.Millisecond)

		wg.Add(1)
		dispatcher.Submit("dm-2", func() {
			runs.Add(1)
			wg.Done()
		})
		wg.Wait()

		assert.Equal(t, int32(2), runs.Load())
	})
}
