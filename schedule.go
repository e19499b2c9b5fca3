// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

// schedule is the cached partition of systems into ordered execution
// stages. Systems within a stage are pairwise non-conflicting; stages
// respect every explicit After edge.
type schedule struct {
	stages  [][]int
	stageOf []int
}

// buildSchedule recomputes the stage assignment.
//
// Edges: for i < j in registration order, a conflict emits i → j; every
// After(dep) emits dep → s regardless of index order. Stage assignment
// is longest-path layering over that DAG: stage(s) = max(stage(p)) + 1
// over predecessors p. Vertices are processed wave by wave as they
// become ready, and each stage is then sorted into registration order,
// so the result is a pure function of the system records and never
// depends on pool size or timing.
//
// A cycle means an After edge contradicts the order already forced by a
// conflict (conflict edges alone cannot cycle: they follow registration
// order). That is a precondition violation and panics.
func (w *World) buildSchedule() {
	n := len(w.systems)
	sched := &w.sched
	sched.stages = sched.stages[:0]
	if cap(sched.stageOf) < n {
		sched.stageOf = make([]int, n)
	}
	sched.stageOf = sched.stageOf[:n]

	// Predecessor sets, as index lists. preds[j] is sorted ascending by
	// construction for conflict edges; After edges may append larger
	// indices.
	preds := make([][]int, n)
	indeg := make([]int, n)
	succs := make([][]int, n)
	for j := 0; j < n; j++ {
		sj := &w.systems[j]
		for i := 0; i < j; i++ {
			if w.systems[i].conflicts(sj) || sj.after.test(i) {
				preds[j] = append(preds[j], i)
			}
		}
		sj.after.forEach(func(i int) bool {
			if i >= n {
				panic("ecs: After edge references unregistered system")
			}
			if i > j {
				preds[j] = append(preds[j], i)
			}
			return true
		})
		for _, i := range preds[j] {
			succs[i] = append(succs[i], j)
		}
		indeg[j] = len(preds[j])
	}

	// Kahn layering, draining ready vertices one wave at a time.
	ready := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if indeg[j] == 0 {
			ready = append(ready, j)
		}
	}
	done := 0
	for len(ready) > 0 {
		next := ready[:0:0]
		for _, j := range ready {
			stage := 0
			for _, p := range preds[j] {
				if s := sched.stageOf[p] + 1; s > stage {
					stage = s
				}
			}
			sched.stageOf[j] = stage
			for len(sched.stages) <= stage {
				sched.stages = append(sched.stages, nil)
			}
			sched.stages[stage] = append(sched.stages[stage], j)
			done++
			for _, succ := range succs[j] {
				indeg[succ]--
				if indeg[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		ready = next
	}
	if done != n {
		panic("ecs: cyclic system order (After contradicts a conflict-derived edge)")
	}

	// Registration order within each stage.
	for _, stage := range sched.stages {
		insertionSort(stage)
	}
	w.scheduleDirty = false
}

func insertionSort(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
