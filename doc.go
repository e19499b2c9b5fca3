// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ecs provides a parallel Entity-Component-System runtime.
//
// Systems declare which components they require, exclude, read and
// write. Before each tick the scheduler partitions them into
// conflict-free stages: two systems share a stage only when neither
// writes a component the other touches, and explicit After edges are
// respected. Within a stage, each system's matched entities are sharded
// across lanes and executed concurrently on an external job pool; the
// jobpool subpackage provides one, and any executor can be substituted
// through [World.SetExecutor].
//
// # Quick Start
//
//	w := ecs.NewWorld()
//
//	type Pos struct{ X, Y float32 }
//	pos := ecs.Register[Pos](w)
//
//	e := w.Create()
//	ecs.Add[Pos](w, e, pos).X = 1
//
//	w.NewSystem(func(w *ecs.World, v ecs.View, _ any) error {
//	    for _, e := range v.Entities {
//	        ecs.Get[Pos](w, e, pos).X += 1
//	    }
//	    return nil
//	}, nil).Require(pos).Writes(pos)
//
//	if err := w.Progress(0); err != nil {
//	    // first error reported by a system or the executor
//	}
//
// Parallel ticks:
//
//	p := jobpool.New(8, 0)
//	defer p.Close()
//	w.AttachPool(p, 8) // 8 lanes per system per stage
//
// # Deferred structural changes
//
// While a tick is in progress, adding or removing components and
// destroying entities must go through the [View] handed to the system:
//
//	func spawn(w *ecs.World, v ecs.View, _ any) error {
//	    for _, e := range v.Entities {
//	        vel := ecs.ViewAdd[Vel](v, e, velID) // staged, zeroed
//	        vel.Y = -9.8                         // initialise in place
//	    }
//	    return nil
//	}
//
// Staged commands are applied between stages and after the final stage,
// in per-lane FIFO order; the order between lanes is unspecified. After
// Progress returns, every staged change is visible through Get and Has.
// [World.Create] is the exception: it is safe from any goroutine at any
// time, including inside systems.
//
// # Aliasing rules
//
// Get and Add return memory that aliases component storage. Payload
// writes during a tick are safe because the stage builder keeps systems
// with overlapping write sets in different stages; the returned
// pointers and slices stay valid until the next structural change on
// that component. Entity IDs carry no generation: referencing an entity
// after destroying it is undefined.
package ecs
