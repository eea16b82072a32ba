package mocks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockRandomConcurrentDraws(t *testing.T) {
	r := NewMockRandom()
	values := make([]int, 100)
	for i := range values {
		values[i] = i
	}
	r.QueueIntn(values...)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := r.Intn(1000)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Each queued value is handed out exactly once
	assert.Len(t, seen, 100)
	assert.Equal(t, 0, r.Intn(1000))
}

func TestMockRandomStringQueueThenFallback(t *testing.T) {
	r := NewMockRandom()
	r.QueueString("123456")

	assert.Equal(t, "123456", r.String(6, "0123456789"))
	assert.Equal(t, "000000", r.String(6, "0123456789"))

	r.Reset()
	r.QueueString("abc")
	assert.Equal(t, "abc", r.String(3, "xyz"))
}

func TestMockClockConcurrentAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
		}()
		go func() {
			defer wg.Done()
			_ = c.Now()
		}()
	}
	wg.Wait()

	assert.True(t, start.Add(50*time.Second).Equal(c.Now()))
}
