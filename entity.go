// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Entity is a dense integer ID denoting a logical object. IDs carry no
// generation: referencing an entity after destroying it is undefined.
type Entity uint64

// None is the reserved "no entity" sentinel. It is never returned by
// Create.
const None Entity = 0

// entityAlloc hands out entity IDs. Recycled IDs come from a Treiber
// stack whose nodes live in freeNext, indexed by entity ID; fresh IDs
// come from the monotonic counter.
//
// Create is safe from any goroutine at any time, including from inside
// system functions. Pushes (and freeNext growth) happen only in sync
// context — outside a tick or during a command drain — so pops never
// race a relocation of freeNext and the stack cannot suffer ABA.
type entityAlloc struct {
	_        pad
	counter  atomix.Uint64
	_        pad
	freeHead atomix.Int64 // top of the free stack; -1 = empty
	_        pad
	freeNext []int64
}

func newEntityAlloc() *entityAlloc {
	a := &entityAlloc{}
	a.counter.StoreRelaxed(1) // 0 is None
	a.freeHead.StoreRelaxed(-1)
	return a
}

// create pops the free list, or mints a fresh ID.
func (a *entityAlloc) create() Entity {
	sw := spin.Wait{}
	for {
		head := a.freeHead.LoadAcquire()
		if head < 0 {
			return Entity(a.counter.AddAcqRel(1) - 1)
		}
		next := a.freeNext[head]
		if a.freeHead.CompareAndSwapAcqRel(head, next) {
			return Entity(head)
		}
		sw.Once()
	}
}

// release pushes e onto the free stack. Sync context only.
func (a *entityAlloc) release(e Entity) {
	if int(e) >= len(a.freeNext) {
		grown := make([]int64, growCap(int(e)+1, len(a.freeNext)))
		copy(grown, a.freeNext)
		a.freeNext = grown
	}
	sw := spin.Wait{}
	for {
		head := a.freeHead.LoadAcquire()
		a.freeNext[e] = head
		if a.freeHead.CompareAndSwapAcqRel(head, int64(e)) {
			return
		}
		sw.Once()
	}
}
