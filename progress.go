// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import "sync"

// View is the slice of matched entities handed to a system callback,
// together with the lane context that routes deferred mutations.
//
// The entity slice is scratch memory owned by the runtime; it is valid
// only for the duration of the callback.
type View struct {
	Entities []Entity

	w    *World
	lane int
}

// Lane returns the lane index of this slice, in [0, lane count).
func (v View) Lane() int { return v.lane }

// Add stages a deferred component attach and returns the zeroed payload
// bytes for in-place initialisation. The bytes are applied to the store
// at the next stage sync; the slice must not be retained across it.
func (v View) Add(e Entity, c Component) []byte {
	v.w.checkComponent(c)
	return v.w.cmd[v.lane].stageAdd(e, c, v.w.stores[c].elemSize)
}

// Remove stages a deferred component detach. Absent pairs are ignored at
// apply time.
func (v View) Remove(e Entity, c Component) {
	v.w.checkComponent(c)
	v.w.cmd[v.lane].stageRemove(e, c)
}

// Destroy stages a deferred entity destruction.
func (v View) Destroy(e Entity) {
	v.w.cmd[v.lane].stageDestroy(e)
}

// task is one (system, lane) dispatch record for a stage.
type task struct {
	w     *World
	sys   *System
	lane  int
	lanes int
	err   error
}

// runTask is the job function submitted to the executor; arg is *task.
func runTask(arg any) {
	arg.(*task).run()
}

var scratchPool = sync.Pool{
	New: func() any {
		s := make([]Entity, 0, ScratchInitialCapacity)
		return &s
	},
}

// run filters this task's slice of the driver store and invokes the
// system callback on the survivors.
func (t *task) run() {
	w, s := t.w, t.sys

	// Driver store: the required component with the fewest holders.
	driver := -1
	best := 0
	s.allOf.forEach(func(c int) bool {
		if n := w.stores[c].count(); driver < 0 || n < best {
			driver, best = c, n
		}
		return true
	})

	sp := scratchPool.Get().(*[]Entity)
	scratch := (*sp)[:0]
	if driver >= 0 {
		dense := w.stores[driver].dense
		n := len(dense)
		start := n * t.lane / t.lanes
		end := n * (t.lane + 1) / t.lanes
		checkNone := s.noneOf.any()
		for _, e := range dense[start:end] {
			bits := &w.entityBits[e]
			if !bits.contains(&s.allOf) {
				continue
			}
			if checkNone && bits.intersects(&s.noneOf) {
				continue
			}
			scratch = append(scratch, e)
		}
	}
	t.err = s.fn(w, View{Entities: scratch, w: w, lane: t.lane}, s.udata)
	*sp = scratch[:0]
	scratchPool.Put(sp)
}

// active reports whether s participates in a tick with the given group
// mask: mask zero selects group-zero systems, any other mask selects
// systems whose group intersects it. Disabled systems never participate.
func (s *System) active(groupMask uint32) bool {
	if !s.enabled {
		return false
	}
	if groupMask == 0 {
		return s.group == 0
	}
	return s.group&groupMask != 0
}

// Progress runs one tick: every eligible system, stage by stage, with a
// command drain after each stage. The first error reported by a system
// or by the enqueue callback aborts remaining stages; the final drain
// still runs so no deferred work is left half-applied.
func (w *World) Progress(groupMask uint32) error {
	if w.scheduleDirty {
		w.buildSchedule()
	}
	w.inProgress.StoreRelease(true)

	var firstErr error
	active := make([]int, 0, MaxSystems)
	for _, stage := range w.sched.stages {
		active = active[:0]
		for _, idx := range stage {
			if w.systems[idx].active(groupMask) {
				active = append(active, idx)
			}
		}
		if len(active) == 0 {
			continue
		}
		if err := w.runStage(active); err != nil {
			firstErr = err
		}

		w.inProgress.StoreRelease(false)
		w.flushCommands()
		if firstErr != nil {
			return firstErr
		}
		w.inProgress.StoreRelease(true)
	}

	w.inProgress.StoreRelease(false)
	w.flushCommands()
	return firstErr
}

// runStage dispatches the active systems of one stage and barriers on
// completion. Errors are collected in deterministic (registration, lane)
// order.
func (w *World) runStage(active []int) error {
	if w.enqueue == nil || w.lanes == 1 {
		for _, idx := range active {
			t := task{w: w, sys: &w.systems[idx], lane: 0, lanes: 1}
			t.run()
			if t.err != nil {
				return t.err
			}
		}
		return nil
	}

	n := len(active) * w.lanes
	if cap(w.tasks) < n {
		w.tasks = make([]task, n)
	}
	tasks := w.tasks[:n]
	i := 0
	for _, idx := range active {
		for lane := 0; lane < w.lanes; lane++ {
			tasks[i] = task{w: w, sys: &w.systems[idx], lane: lane, lanes: w.lanes}
			i++
		}
	}
	var enqErr error
	for i := range tasks {
		if err := w.enqueue(runTask, &tasks[i]); err != nil {
			enqErr = err
			tasks = tasks[:i]
			break
		}
	}
	w.wait()
	for i := range tasks {
		if tasks[i].err != nil {
			return tasks[i].err
		}
	}
	return enqErr
}

// RunSystem runs a single system outside the stage machinery: one slice
// covering all matched entities, one command drain. Enabled state and
// group tags are ignored. Semantically it is a one-stage tick with
// exactly one active system.
func (w *World) RunSystem(s *System) error {
	if s == nil || s.w != w {
		panic("ecs: RunSystem on a system from a different world")
	}
	w.inProgress.StoreRelease(true)
	t := task{w: w, sys: s, lane: 0, lanes: 1}
	t.run()
	w.inProgress.StoreRelease(false)
	w.flushCommands()
	return t.err
}
