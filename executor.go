// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import "code.hybscloud.com/ecs/jobpool"

// EnqueueFunc hands one job to an executor. It must never block on a
// full queue — run the job inline instead. A non-nil error aborts the
// current tick with that error.
type EnqueueFunc func(fn func(arg any), arg any) error

// SetExecutor wires the world to an external executor and sets the lane
// count for stage slicing. The world never owns the executor: a single
// pool can back many worlds, and any custom executor can be substituted.
//
// enqueue submits one job; wait must block until every submitted job has
// completed (the stage barrier). Passing a nil enqueue reverts to
// single-threaded ticks. lanes is clamped to [1, MaxLanes].
func (w *World) SetExecutor(enqueue EnqueueFunc, wait func(), lanes int) {
	w.checkSync("SetExecutor")
	if lanes < 1 {
		lanes = 1
	}
	if lanes > MaxLanes {
		lanes = MaxLanes
	}
	if enqueue != nil && wait == nil {
		panic("ecs: executor without a wait callback")
	}
	w.enqueue = enqueue
	w.wait = wait
	w.lanes = lanes
	for len(w.cmd) < lanes {
		w.cmd = append(w.cmd, newCmdBuffer())
	}
}

// AttachPool wires a jobpool.Pool as the world's executor.
func (w *World) AttachPool(p *jobpool.Pool, lanes int) {
	w.SetExecutor(func(fn func(any), arg any) error {
		p.Submit(fn, arg)
		return nil
	}, p.Wait, lanes)
}
