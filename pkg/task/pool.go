// Package task runs long-running, cancellable work off the main loop and
// hands results back as version-stamped callbacks, so the main loop can
// apply them only if the document they were computed against hasn't moved
// on in the meantime.
package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// VersionSource is the part of document.Document a Job needs: its current
// edit version. Kept as a narrow interface so this package doesn't need to
// import pkg/document.
type VersionSource interface {
	Version() uint64
}

// Func is the work a Job runs. It receives the context passed to Submit and
// returns either a value or an error.
type Func func(ctx context.Context) (interface{}, error)

// Job identifies a unit of submitted work and the document version it was
// submitted against.
type Job struct {
	ID              uuid.UUID
	ObservedVersion uint64
}

// Result is what a Job produced, paired back up with the Job it came from
// so the caller can compare ObservedVersion against the document's current
// version before applying it.
type Result struct {
	Job   Job
	Value interface{}
	Err   error
}

type item struct {
	job Job
	fn  Func
	ctx context.Context
}

// Pool is a fixed-size worker pool. Jobs submitted to it run on whichever
// worker goroutine is free; results queue up on a buffered channel for the
// main loop to drain once per tick.
type Pool struct {
	mu        sync.Mutex
	jobs      chan item
	results   chan *Result
	closeChan chan struct{}
	wg        sync.WaitGroup
	closed    bool
}

// NewPool starts a pool of the given number of worker goroutines. workers
// is clamped to at least 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs:      make(chan item, 64),
		results:   make(chan *Result, 256),
		closeChan: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closeChan:
			return
		case it, ok := <-p.jobs:
			if !ok {
				return
			}
			p.execute(it)
		}
	}
}

func (p *Pool) execute(it item) {
	value, err := it.fn(it.ctx)
	result := &Result{Job: it.job, Value: value, Err: err}
	select {
	case p.results <- result:
	default:
		logger.Warnf("task %s: result channel full, dropping result", it.job.ID)
	}
}

// Submit enqueues fn to run on a worker goroutine and returns a Job
// carrying the document version observed at submission time. The job runs
// asynchronously; its result (if any) shows up in a later Drain call.
func (p *Pool) Submit(ctx context.Context, doc VersionSource, fn Func) Job {
	job := Job{ID: uuid.New(), ObservedVersion: doc.Version()}
	select {
	case p.jobs <- item{job: job, fn: fn, ctx: ctx}:
	case <-p.closeChan:
		logger.Warnf("task %s: submitted after pool close, dropping", job.ID)
	}
	return job
}

// Drain returns every result queued since the last Drain call, without
// blocking. The main loop calls this once per tick.
func (p *Pool) Drain() []*Result {
	var results []*Result
	for {
		select {
		case r := <-p.results:
			results = append(results, r)
		default:
			return results
		}
	}
}

// Close stops accepting new work and waits for in-flight jobs to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.closeChan)
	p.mu.Unlock()
	p.wg.Wait()
}

// Deliver calls apply for each result whose ObservedVersion still matches
// doc's current version, and silently drops the rest - the concrete
// mechanism behind "a callback scheduled against version V is dropped if
// the document has advanced past V".
func Deliver(results []*Result, doc VersionSource, apply func(*Result)) {
	current := doc.Version()
	for _, r := range results {
		if r.Job.ObservedVersion != current {
			logger.Debugf("task %s: dropping stale result (observed version %d, current %d)", r.Job.ID, r.Job.ObservedVersion, current)
			continue
		}
		apply(r)
	}
}
