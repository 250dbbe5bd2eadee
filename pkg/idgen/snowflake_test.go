package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsWorkerOutOfRange(t *testing.T) {
	_, err := New(-1)
	assert.Error(t, err)
	_, err = New(1024)
	assert.Error(t, err)
}

func TestGenerate_UniqueAndIncreasing(t *testing.T) {
	s, err := New(7)
	require.NoError(t, err)

	prev := s.Generate()
	for i := 0; i < 10000; i++ {
		id := s.Generate()
		require.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, int64(7), WorkerID(prev))
}

func TestGenerate_Concurrent(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	const workers, each = 8, 500
	ids := make(chan int64, workers*each)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				ids <- s.Generate()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, workers*each)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*each)
}

func TestGenerate_ClockBackwards(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	clock := epoch + 1000
	s.now = func() int64 { return clock }
	first := s.Generate()
	clock -= 10
	second := s.Generate()
	assert.Greater(t, second, first)
}

func TestRequestID(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	assert.NotEqual(t, s.RequestID(), s.RequestID())
}
