// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package jobpool

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Func is a job function. The opaque argument is supplied at submit
// time.
type Func func(arg any)

// Job is a function pointer plus its opaque argument.
type Job struct {
	Fn  Func
	Arg any
}

// Ring is a CAS-based multi-producer multi-consumer bounded queue of
// jobs with per-slot turn sequencing.
//
// Each slot carries a turn counter that alternates parity per phase:
// a slot is writable when turn == (ticket/capacity)*2 (even, producer
// phase) and readable when turn == (ticket/capacity)*2 + 1 (odd,
// consumer phase). Producers and consumers claim tickets by CAS on the
// head and tail counters; the release-store of the turn publishes the
// payload to the opposite side. Turn counters are monotonic, which
// makes slot reuse ABA-safe.
//
// Both operations are non-blocking: they report ErrWouldBlock instead
// of waiting, and only after re-reading an unchanged ticket counter, so
// a stale full/empty verdict is never returned spuriously.
type Ring struct {
	_        pad
	head     atomix.Uint64 // producer ticket
	_        pad
	tail     atomix.Uint64 // consumer ticket
	_        pad
	slots    []ringSlot
	capacity uint64
}

type ringSlot struct {
	turn atomix.Uint64
	job  Job
	_    padSlot
}

// NewRing creates a ring with the given capacity, rounded up to the
// next power of 2. Capacity below 2 is rejected.
func NewRing(capacity int) *Ring {
	if capacity < 2 {
		panic("jobpool: capacity must be >= 2")
	}
	n := uint64(roundToPow2(capacity))
	return &Ring{
		slots:    make([]ringSlot, n),
		capacity: n,
	}
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return int(r.capacity) }

// Enqueue adds a job. Returns ErrWouldBlock if the ring is full.
func (r *Ring) Enqueue(job *Job) error {
	sw := spin.Wait{}
	for {
		head := r.head.LoadAcquire()
		slot := &r.slots[head%r.capacity]
		want := head / r.capacity * 2

		if slot.turn.LoadAcquire() == want {
			if r.head.CompareAndSwapAcqRel(head, head+1) {
				slot.job = *job
				slot.turn.StoreRelease(want + 1)
				return nil
			}
		} else if r.head.LoadAcquire() == head {
			// Slot still owned by a previous turn and no producer
			// advanced in the meantime: the ring is full.
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns a job. Returns ErrWouldBlock if the ring
// is empty.
func (r *Ring) Dequeue() (Job, error) {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadAcquire()
		slot := &r.slots[tail%r.capacity]
		want := tail/r.capacity*2 + 1

		if slot.turn.LoadAcquire() == want {
			if r.tail.CompareAndSwapAcqRel(tail, tail+1) {
				job := slot.job
				slot.job = Job{}
				// Hand the slot to the next producer round.
				slot.turn.StoreRelease(want + 1)
				return job, nil
			}
		} else if r.tail.LoadAcquire() == tail {
			return Job{}, ErrWouldBlock
		}
		sw.Once()
	}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padSlot is padding to fill a cache line after the slot header.
type padSlot [64 - 8 - 24]byte
