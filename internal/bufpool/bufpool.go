// Package bufpool pools the byte buffers the debug CLI writes a
// re-serialized cdns.File through (cdns.Encode itself allocates its own
// output), so dumping many captures reuses one buffer, and runs
// a fixed-size worker pool for decoding multiple files concurrently
// without spawning one goroutine per file.
package bufpool

import (
	"bytes"
	"runtime"
	"sync"
)

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any {
				return newFn()
			},
		},
	}
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	p.internal.Put(item)
}

// Buffers pools *bytes.Buffer for encoder/re-serialization output.
var Buffers = New(func() *bytes.Buffer {
	return new(bytes.Buffer)
})

// Get returns a buffer reset to empty, ready to be written to.
func Get() *bytes.Buffer {
	buf := Buffers.Get()
	buf.Reset()
	return buf
}

// Put returns buf to the pool. Callers must not use buf afterwards.
func Put(buf *bytes.Buffer) {
	Buffers.Put(buf)
}

// RunBounded runs work(i) for every i in [0,n), using a fixed pool of
// concurrency goroutines that pull indexes from a shared channel,
// rather than spawning one goroutine per i. If concurrency <= 0, it
// defaults to runtime.NumCPU(). It blocks until every call to work has
// returned.
func RunBounded(concurrency, n int, work func(i int)) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency > n {
		concurrency = n
	}
	if n == 0 {
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				work(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
