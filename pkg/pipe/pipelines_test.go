package pipe

import (
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ConcurrentMap(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	var calls int32
	in := Generate(done, 1, 2, 3, 4, 5, 6)
	out := ConcurrentMap(done, 3, in, func(v int) Result[int] {
		atomic.AddInt32(&calls, 1)
		if v == 4 {
			return Result[int]{Error: errors.New("four")}
		}
		return Result[int]{Value: v * 10}
	})

	var values []int
	var failed int
	for _, r := range Collect(done, out) {
		if r.Error != nil {
			failed++
			continue
		}
		values = append(values, r.Value)
	}
	sort.Ints(values)

	assert.Equal(t, []int{10, 20, 30, 50, 60}, values)
	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(6), atomic.LoadInt32(&calls))
}

func Test_ConcurrentMapWithoutWorkers(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	out := ConcurrentMap(done, 0, Generate(done, "a"), func(v string) Result[string] {
		return Result[string]{Value: v + v}
	})

	assert.Equal(t, []Result[string]{{Value: "aa"}}, Collect(done, out))
}

func Test_CollectStopsOnDone(t *testing.T) {
	done := make(chan struct{})
	close(done)

	never := make(chan int)
	assert.Empty(t, Collect(done, never))
}
