package pipe

import (
	"sync"
)

type Result[T any] struct {
	Error error
	Value T
}

// Generate streams the items of a slice and closes the channel afterwards
func Generate[T any](done <-chan struct{}, items ...T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		for _, it := range items {
			select {
			case <-done:
				return
			case out <- it:
			}
		}
	}()

	return out
}

// Ensures that the goroutine is finished on done being closed
func OrDone[T any](done <-chan struct{}, c <-chan T) <-chan T {
	stream := make(chan T)

	go func() {
		defer close(stream)

		for {
			select {
			case <-done:
				return
			case v, ok := <-c:
				if !ok {
					return
				}
				select {
				case stream <- v:
				case <-done:
				}
			}
		}
	}()

	return stream
}

// Maps from channel of type A to a channel of type B concurrently. Output
// order is not guaranteed.
func ConcurrentMap[A, B any](done <-chan struct{}, coroutines int, in <-chan A, mapper func(A) Result[B]) <-chan Result[B] {
	if coroutines <= 0 {
		coroutines = 1
	}

	out := make(chan Result[B], coroutines)

	var wg sync.WaitGroup
	wg.Add(coroutines)
	for i := 0; i < coroutines; i++ {
		go func() {
			defer wg.Done()

			for val := range OrDone(done, in) {
				select {
				case <-done:
					return
				case out <- mapper(val):
				}
			}
		}()
	}

	go func() {
		defer close(out)
		wg.Wait()
	}()

	return out
}

// Collect drains in until it is closed or done is closed
func Collect[T any](done <-chan struct{}, in <-chan T) []T {
	var out []T
	for v := range OrDone(done, in) {
		out = append(out, v)
	}
	return out
}
