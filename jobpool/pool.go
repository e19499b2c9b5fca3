// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package jobpool

import (
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
)

// DefaultQueueCapacity is the ring capacity used when New is given a
// non-positive capacity.
const DefaultQueueCapacity = 1024

// Pool executes submitted jobs on a fixed set of worker goroutines fed
// by a lock-free ticket-slot ring.
//
// Two counters coordinate the parties:
//
//   - enqueued: jobs currently in the ring. Workers park when it drops
//     to zero and are woken by submitters.
//   - inFlight: submitted jobs not yet completed, including those
//     currently executing. Wait returns when it reaches zero; this is
//     the stage barrier.
//
// Submit never blocks: when the ring is full the job runs inline on the
// submitting goroutine (graceful degradation under backpressure). Wait
// is assisted: a waiter that finds queued work dequeues and runs it
// instead of sleeping, so the barrier always makes progress even with
// every worker busy.
type Pool struct {
	_        pad
	enqueued atomix.Int64
	_        pad
	inFlight atomix.Int64
	_        pad
	stop     atomix.Bool
	_        pad

	ring     *Ring
	nthreads int

	mu     sync.Mutex
	cvWork *sync.Cond // parked workers; signalled on submit and stop
	cvDone *sync.Cond // waiters; broadcast when inFlight hits 0 or work appears

	wg sync.WaitGroup
}

// New creates a pool with the given worker count and ring capacity.
// threads <= 0 selects GOMAXPROCS workers; capacity <= 0 selects
// DefaultQueueCapacity.
func New(threads, capacity int) *Pool {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	p := &Pool{
		ring:     NewRing(capacity),
		nthreads: threads,
	}
	p.cvWork = sync.NewCond(&p.mu)
	p.cvDone = sync.NewCond(&p.mu)
	p.wg.Add(threads)
	for i := 0; i < threads; i++ {
		go p.worker()
	}
	return p
}

// Workers returns the worker goroutine count.
func (p *Pool) Workers() int {
	if p == nil {
		return 0
	}
	return p.nthreads
}

// Submit hands a job to the pool. Nil functions and submissions after
// Close are dropped. Submit never blocks: if the ring is full, the job
// runs inline on the caller before Submit returns.
func (p *Pool) Submit(fn Func, arg any) {
	if p == nil || fn == nil || p.stop.LoadAcquire() {
		return
	}
	p.inFlight.AddAcqRel(1)

	job := Job{Fn: fn, Arg: arg}
	if err := p.ring.Enqueue(&job); err != nil {
		// Ring full: degrade to inline execution.
		fn(arg)
		p.finish()
		return
	}

	prev := p.enqueued.AddAcqRel(1) - 1
	p.mu.Lock()
	if prev < int64(p.nthreads) {
		// At most one wake per underflow; surplus signals are wasted.
		p.cvWork.Signal()
	}
	if prev == 0 {
		// Let assisting waiters come back for the new work.
		p.cvDone.Broadcast()
	}
	p.mu.Unlock()
}

// finish retires one job and releases the barrier when it was the last.
func (p *Pool) finish() {
	if p.inFlight.AddAcqRel(-1) == 0 {
		p.mu.Lock()
		p.cvDone.Broadcast()
		p.mu.Unlock()
	}
}

// tryRun pops one job from the ring and executes it. Returns false when
// the ring is empty.
func (p *Pool) tryRun() bool {
	job, err := p.ring.Dequeue()
	if err != nil {
		return false
	}
	p.enqueued.AddAcqRel(-1)
	job.Fn(job.Arg)
	p.finish()
	return true
}

// worker is the loop run by each pool goroutine: drain while work is
// visible, then park on cvWork. There is no stealing between workers;
// only Wait assists from outside.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		if p.enqueued.LoadAcquire() > 0 && p.tryRun() {
			continue
		}
		if p.stop.LoadAcquire() && p.inFlight.LoadAcquire() == 0 {
			return
		}
		p.mu.Lock()
		for p.enqueued.LoadAcquire() <= 0 && !p.stop.LoadAcquire() {
			p.cvWork.Wait()
		}
		p.mu.Unlock()
	}
}

// Wait blocks until every submitted job has completed. A waiter that
// observes queued work consumes it inline instead of sleeping, so Wait
// always makes progress while inFlight is non-zero. Nil-safe.
func (p *Pool) Wait() {
	if p == nil {
		return
	}
	for {
		if p.inFlight.LoadAcquire() == 0 {
			return
		}
		if p.enqueued.LoadAcquire() > 0 {
			p.tryRun()
			continue
		}
		p.mu.Lock()
		for p.inFlight.LoadAcquire() != 0 && p.enqueued.LoadAcquire() <= 0 {
			p.cvDone.Wait()
		}
		p.mu.Unlock()
	}
}

// Close drains outstanding work, stops and joins the workers. Nil-safe
// and idempotent; submissions after Close are dropped.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.Wait()
	p.stop.StoreRelease(true)
	p.mu.Lock()
	p.cvWork.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}
