package network

import (
	"context"
	"log"
	"sync/atomic"
)

// defaultTaskQueueSize mirrors the mailbox sizing style of infra/actor -
// deep enough to absorb a burst of completions without the poster blocking,
// shallow enough that a stuck worker pool still surfaces backpressure.
const defaultTaskQueueSize = 256

// Executor is a single-goroutine task queue, the Go analogue of a Boost.Asio
// io_service/strand: everything Execute'd on one Executor runs strictly in
// submission order on one goroutine, so no two tasks queued on the same
// Executor ever run at the same time (§5).
type Executor struct {
	tasks chan func()
	done  chan struct{}
}

// NewExecutor starts the worker goroutine and returns the Executor handle.
func NewExecutor() *Executor {
	e := &Executor{
		tasks: make(chan func(), defaultTaskQueueSize),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Executor) run() {
	for task := range e.tasks {
		e.runTask(task)
	}
	close(e.done)
}

// runTask isolates one task's panic so a single misbehaving callback cannot
// take down the executor goroutine and every connection bound to it.
func (e *Executor) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("executor: recovered panic in task: %v", r)
		}
	}()
	task()
}

// Execute enqueues fn to run on the executor's goroutine. It never blocks
// the caller on fn's completion.
func (e *Executor) Execute(fn func()) {
	e.tasks <- fn
}

// Stop drains in-flight work and shuts the worker goroutine down. Further
// calls to Execute after Stop panic on the closed channel, matching Go's
// usual channel-close contract; callers must stop submitting before calling
// Stop.
func (e *Executor) Stop() {
	close(e.tasks)
	<-e.done
}

// Future is a single-value, single-producer/single-consumer handoff,
// generalizing the original asio_pbrpc future_rpc_client's boost::future to
// Go generics so Channel.CallFuture can hand a typed, awaitable result to
// callers without allocating a channel per caller type.
type Future[T any] struct {
	result chan T
}

// NewFuture returns an unset Future ready to be completed exactly once.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{result: make(chan T, 1)}
}

// set completes the future. The channel holds one value and is never
// closed, so a second call blocks until WaitFor has taken the first value:
// a future represents exactly one completion.
func (f *Future[T]) set(value T) {
	f.result <- value
}

// WaitFor blocks until the future is completed or ctx is done, whichever
// comes first.
func (f *Future[T]) WaitFor(ctx context.Context) (T, error) {
	select {
	case v := <-f.result:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ExecutorPool is a fixed-size round-robin set of Executors, the Go
// translation of asio_pbrpc's io_service_pool/executors.h: it spreads many
// independent connections across a bounded number of goroutines without
// giving any single connection more than one goroutine of concurrency.
type ExecutorPool struct {
	executors []*Executor
	next      uint64
}

// NewExecutorPool starts size Executors. size must be >= 1.
func NewExecutorPool(size int) *ExecutorPool {
	if size < 1 {
		size = 1
	}
	p := &ExecutorPool{executors: make([]*Executor, size)}
	for i := range p.executors {
		p.executors[i] = NewExecutor()
	}
	return p
}

// Next returns the executors in round-robin order, matching the original
// pool's dispatch strategy for new connections. The counter is incremented
// with atomic.AddUint64 (the original's fetch_add) since, unlike For's
// caller-supplied key, nothing prevents two goroutines both dialing new
// connections from calling Next concurrently on a shared pool.
func (p *ExecutorPool) Next() *Executor {
	i := atomic.AddUint64(&p.next, 1) - 1
	return p.executors[i%uint64(len(p.executors))]
}

// For deterministically places key (e.g. a connection id) onto one of the
// pool's executors, so repeated lookups for the same key always land on the
// same goroutine.
func (p *ExecutorPool) For(key uint64) *Executor {
	return p.executors[key%uint64(len(p.executors))]
}

// Stop stops every executor in the pool.
func (p *ExecutorPool) Stop() {
	for _, e := range p.executors {
		e.Stop()
	}
}
