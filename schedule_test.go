// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import "testing"

func noopSystem(*World, View, any) error { return nil }

func stagesOf(w *World) [][]int {
	if w.scheduleDirty {
		w.buildSchedule()
	}
	return w.sched.stages
}

// TestScheduleWriterReader covers both registration orders of a
// writer/reader pair on the same component; each must yield two stages
// with the first-registered system first.
func TestScheduleWriterReader(t *testing.T) {
	for _, writerFirst := range []bool{true, false} {
		w := NewWorld()
		pos := w.RegisterComponent(8)

		mk := func(write bool) *System {
			s := w.NewSystem(noopSystem, nil).Require(pos)
			if write {
				s.Writes(pos)
			}
			return s
		}
		mk(writerFirst)
		mk(!writerFirst)

		stages := stagesOf(w)
		if len(stages) != 2 {
			t.Fatalf("writerFirst=%v: got %d stages, want 2", writerFirst, len(stages))
		}
		if len(stages[0]) != 1 || stages[0][0] != 0 {
			t.Fatalf("writerFirst=%v: stage 0 = %v, want [0]", writerFirst, stages[0])
		}
		if len(stages[1]) != 1 || stages[1][0] != 1 {
			t.Fatalf("writerFirst=%v: stage 1 = %v, want [1]", writerFirst, stages[1])
		}
	}
}

// TestScheduleReadersShareStage: read/read never conflicts.
func TestScheduleReadersShareStage(t *testing.T) {
	w := NewWorld()
	pos := w.RegisterComponent(8)
	for range 4 {
		w.NewSystem(noopSystem, nil).Require(pos)
	}
	stages := stagesOf(w)
	if len(stages) != 1 || len(stages[0]) != 4 {
		t.Fatalf("got stages %v, want one stage of four readers", stages)
	}
}

// TestScheduleConflictFreedom checks the universal invariant on a mixed
// workload: no two systems in one stage may conflict.
func TestScheduleConflictFreedom(t *testing.T) {
	w := NewWorld()
	a := w.RegisterComponent(4)
	b := w.RegisterComponent(4)
	c := w.RegisterComponent(4)

	w.NewSystem(noopSystem, nil).Require(a).Writes(a)
	w.NewSystem(noopSystem, nil).Require(b).Writes(b)
	w.NewSystem(noopSystem, nil).Require(a).Require(b)
	w.NewSystem(noopSystem, nil).Require(c).Writes(c)
	w.NewSystem(noopSystem, nil).Require(a).Writes(c)
	w.NewSystem(noopSystem, nil).Require(b)

	for _, stage := range stagesOf(w) {
		for x := 0; x < len(stage); x++ {
			for y := x + 1; y < len(stage); y++ {
				si, sj := &w.systems[stage[x]], &w.systems[stage[y]]
				if si.conflicts(sj) {
					t.Fatalf("systems %d and %d share a stage but conflict", stage[x], stage[y])
				}
			}
		}
	}
}

// TestScheduleAfter: explicit edges force later stages even without
// conflicts, in both index directions.
func TestScheduleAfter(t *testing.T) {
	w := NewWorld()
	a := w.RegisterComponent(4)
	b := w.RegisterComponent(4)

	s0 := w.NewSystem(noopSystem, nil).Require(a)
	s1 := w.NewSystem(noopSystem, nil).Require(b)
	s1.After(s0)

	stagesOf(w)
	if w.sched.stageOf[1] <= w.sched.stageOf[0] {
		t.Fatalf("after edge ignored: stage(%d) vs stage(%d)", w.sched.stageOf[1], w.sched.stageOf[0])
	}

	// Forward edge: earlier-registered system deferred past a later one.
	w2 := NewWorld()
	c := w2.RegisterComponent(4)
	d := w2.RegisterComponent(4)
	t0 := w2.NewSystem(noopSystem, nil).Require(c)
	t1 := w2.NewSystem(noopSystem, nil).Require(d)
	t0.After(t1)

	stagesOf(w2)
	if w2.sched.stageOf[0] <= w2.sched.stageOf[1] {
		t.Fatal("forward after edge ignored")
	}
}

// TestScheduleAfterDisabled: a disabled dependency still anchors its
// stage; enabled gates dispatch, not scheduling.
func TestScheduleAfterDisabled(t *testing.T) {
	w := NewWorld()
	a := w.RegisterComponent(4)

	dep := w.NewSystem(noopSystem, nil).Require(a).Writes(a)
	s := w.NewSystem(noopSystem, nil).Require(a)
	s.After(dep)
	dep.Disable()

	stagesOf(w)
	if w.sched.stageOf[1] <= w.sched.stageOf[0] {
		t.Fatal("disabled dependency no longer anchors its stage")
	}
}

// TestScheduleCycle: an After edge contradicting a conflict-derived
// edge must panic.
func TestScheduleCycle(t *testing.T) {
	w := NewWorld()
	pos := w.RegisterComponent(8)

	s0 := w.NewSystem(noopSystem, nil).Require(pos).Writes(pos)
	s1 := w.NewSystem(noopSystem, nil).Require(pos).Writes(pos)
	// Conflict forces 0 → 1; the explicit edge demands 1 → 0.
	s0.After(s1)

	defer func() {
		if recover() == nil {
			t.Fatal("cyclic schedule: expected panic")
		}
	}()
	w.buildSchedule()
}

// TestScheduleDeterminism: rebuilding from identical records yields an
// identical assignment.
func TestScheduleDeterminism(t *testing.T) {
	build := func() ([][]int, []int) {
		w := NewWorld()
		a := w.RegisterComponent(4)
		b := w.RegisterComponent(4)
		s0 := w.NewSystem(noopSystem, nil).Require(a).Writes(a)
		w.NewSystem(noopSystem, nil).Require(a)
		w.NewSystem(noopSystem, nil).Require(b).Writes(b)
		w.NewSystem(noopSystem, nil).Require(a).Require(b).After(s0)
		w.buildSchedule()
		return w.sched.stages, w.sched.stageOf
	}

	s1, of1 := build()
	s2, of2 := build()
	if len(s1) != len(s2) {
		t.Fatalf("stage counts differ: %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if len(s1[i]) != len(s2[i]) {
			t.Fatalf("stage %d sizes differ", i)
		}
		for j := range s1[i] {
			if s1[i][j] != s2[i][j] {
				t.Fatalf("stage %d member %d differs", i, j)
			}
		}
	}
	for i := range of1 {
		if of1[i] != of2[i] {
			t.Fatalf("stageOf[%d] differs", i)
		}
	}
}

// TestScheduleCache: the assignment is reused until a mutation marks it
// dirty.
func TestScheduleCache(t *testing.T) {
	w := NewWorld()
	pos := w.RegisterComponent(8)
	s := w.NewSystem(noopSystem, nil).Require(pos)

	w.buildSchedule()
	if w.scheduleDirty {
		t.Fatal("fresh build left schedule dirty")
	}
	s.Writes(pos)
	if !w.scheduleDirty {
		t.Fatal("mutation did not dirty the schedule")
	}
}
