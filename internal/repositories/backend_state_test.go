package repositories

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendState(t *testing.T) {
	assert.False(t, NewBackendState(false).IsDurableActive())

	s := NewBackendState(true)
	assert.True(t, s.IsDurableActive())
	assert.True(t, s.MarkDegraded())
	assert.False(t, s.IsDurableActive())
	assert.False(t, s.MarkDegraded(), "second flip is a no-op")
	assert.False(t, s.IsDurableActive())
}

func TestBackendState_ConcurrentDegradeFlipsOnce(t *testing.T) {
	s := NewBackendState(true)
	var flips atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.MarkDegraded() {
				flips.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), flips.Load())
	assert.False(t, s.IsDurableActive())
}
