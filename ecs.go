// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import (
	"code.hybscloud.com/atomix"
)

// Component identifies a registered component type. IDs are small dense
// integers assigned in registration order.
type Component int

// World owns all ECS state: component stores, the entity allocator, the
// system registry, the cached stage schedule, and one command buffer per
// lane.
//
// A World is not safe for concurrent mutation. During a tick, worker
// goroutines touch it only along the sanctioned paths: component payload
// access governed by the stage builder, Create, and the deferred View
// mutations.
type World struct {
	alloc  *entityAlloc
	stores []*store

	// entityBits[e] holds the set of components attached to e. Mutated
	// only in sync context; read by match filtering during stages.
	entityBits []bitset

	systems       []System
	sched         schedule
	scheduleDirty bool

	// Executor wiring. nil enqueue means single-threaded ticks.
	enqueue EnqueueFunc
	wait    func()
	lanes   int

	cmd   []*cmdBuffer // one per lane
	tasks []task       // per-stage dispatch records, reused

	inProgress atomix.Bool
}

// NewWorld creates an empty world with a single lane and no executor.
func NewWorld() *World {
	w := &World{
		alloc:   newEntityAlloc(),
		systems: make([]System, 0, MaxSystems),
		lanes:   1,
		cmd:     []*cmdBuffer{newCmdBuffer()},
	}
	return w
}

// InProgress reports whether a tick is currently running.
func (w *World) InProgress() bool { return w.inProgress.LoadAcquire() }

func (w *World) checkComponent(c Component) {
	if c < 0 || int(c) >= len(w.stores) {
		panic("ecs: component id out of range")
	}
}

func (w *World) checkSync(op string) {
	if w.InProgress() {
		panic("ecs: " + op + " during a tick; use the View deferred path")
	}
}

// RegisterComponent registers a component type of elemSize bytes and
// returns its ID. elemSize zero is permitted (tag components).
func (w *World) RegisterComponent(elemSize int) Component {
	w.checkSync("RegisterComponent")
	if elemSize < 0 {
		panic("ecs: negative component size")
	}
	if len(w.stores) >= MaxComponents {
		panic("ecs: too many components")
	}
	w.stores = append(w.stores, newStore(elemSize))
	return Component(len(w.stores) - 1)
}

// Create allocates an entity ID. Safe from any goroutine at any time,
// including inside system functions.
func (w *World) Create() Entity {
	return w.alloc.create()
}

// Destroy removes e from every component store and recycles its ID.
// Immediate path: calling it during a tick is a contract violation; use
// View.Destroy instead.
func (w *World) Destroy(e Entity) {
	w.checkSync("Destroy")
	w.destroyNow(e)
}

func (w *World) destroyNow(e Entity) {
	if int(e) < len(w.entityBits) {
		bits := &w.entityBits[e]
		bits.forEach(func(c int) bool {
			w.stores[c].remove(e)
			return true
		})
		bits.zero()
	}
	w.alloc.release(e)
}

// Add attaches component c to e and returns its payload bytes, zeroed
// on first attach. Immediate path; during a tick use View.Add.
func (w *World) Add(e Entity, c Component) []byte {
	w.checkSync("Add")
	return w.addNow(e, c)
}

func (w *World) addNow(e Entity, c Component) []byte {
	w.checkComponent(c)
	if int(e) >= len(w.entityBits) {
		grown := make([]bitset, growCap(int(e)+1, len(w.entityBits)))
		copy(grown, w.entityBits)
		w.entityBits = grown
	}
	w.entityBits[e].set(int(c))
	return w.stores[c].add(e)
}

// Remove detaches component c from e; absent pairs are ignored.
// Immediate path; during a tick use View.Remove.
func (w *World) Remove(e Entity, c Component) {
	w.checkSync("Remove")
	w.removeNow(e, c)
}

func (w *World) removeNow(e Entity, c Component) {
	w.checkComponent(c)
	if w.stores[c].remove(e) {
		w.entityBits[e].clear(int(c))
	}
}

// Get returns the payload bytes of (e, c), or nil if absent. Always
// permitted, also during a tick. The slice stays valid until the next
// structural change on c.
func (w *World) Get(e Entity, c Component) []byte {
	w.checkComponent(c)
	return w.stores[c].get(e)
}

// Has reports whether e holds component c.
func (w *World) Has(e Entity, c Component) bool {
	w.checkComponent(c)
	return w.stores[c].has(e)
}

// Count returns the number of entities holding c.
func (w *World) Count(c Component) int {
	w.checkComponent(c)
	return w.stores[c].count()
}

// flushCommands drains every lane's command buffer into the stores, in
// per-lane FIFO order. Order between lanes is unspecified. Runs in sync
// context only.
func (w *World) flushCommands() {
	for _, b := range w.cmd {
		for i := range b.cmds {
			cmd := &b.cmds[i]
			switch cmd.op {
			case opAdd:
				copy(w.addNow(cmd.e, cmd.c), cmd.payload)
			case opRemove:
				w.removeNow(cmd.e, cmd.c)
			case opDestroy:
				w.destroyNow(cmd.e)
			}
		}
		b.reset()
	}
}
