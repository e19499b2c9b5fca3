// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import "sync"

type cmdOp uint8

const (
	opAdd cmdOp = iota
	opRemove
	opDestroy
)

// command is one deferred structural change. Add commands carry their
// staged payload; Remove and Destroy carry none.
type command struct {
	op      cmdOp
	e       Entity
	c       Component
	payload []byte
}

// cmdBuffer is one lane's log of deferred structural changes plus the
// bump arena backing Add payloads.
//
// The arena grows by appending chunks, never by relocating: bytes handed
// out by stageAdd must stay valid until the next drain. Two systems in
// the same stage may share a lane index, so appends take the buffer
// mutex; drains run in sync context and read without it.
type cmdBuffer struct {
	mu     sync.Mutex
	cmds   []command
	chunks [][]byte
	off    int // bump offset into the last chunk
}

func newCmdBuffer() *cmdBuffer {
	return &cmdBuffer{
		cmds:   make([]command, 0, CommandBufferInitialCapacity),
		chunks: [][]byte{make([]byte, CommandDataInitialCapacity)},
	}
}

// alloc returns n zeroed bytes from the arena. Caller holds mu.
func (b *cmdBuffer) alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	last := b.chunks[len(b.chunks)-1]
	if b.off+n > len(last) {
		size := CommandDataInitialCapacity
		if n > size {
			size = n
		}
		last = make([]byte, size)
		b.chunks = append(b.chunks, last)
		b.off = 0
	}
	p := last[b.off : b.off+n : b.off+n]
	b.off += n
	clear(p) // chunks are reused across drains
	return p
}

// stageAdd records a deferred add and returns the zeroed payload bytes,
// valid until the next drain.
func (b *cmdBuffer) stageAdd(e Entity, c Component, size int) []byte {
	b.mu.Lock()
	p := b.alloc(size)
	b.cmds = append(b.cmds, command{op: opAdd, e: e, c: c, payload: p})
	b.mu.Unlock()
	return p
}

func (b *cmdBuffer) stageRemove(e Entity, c Component) {
	b.mu.Lock()
	b.cmds = append(b.cmds, command{op: opRemove, e: e, c: c})
	b.mu.Unlock()
}

func (b *cmdBuffer) stageDestroy(e Entity) {
	b.mu.Lock()
	b.cmds = append(b.cmds, command{op: opDestroy, e: e})
	b.mu.Unlock()
}

// reset empties the log and arena, retaining capacity. The first chunk
// is kept; overflow chunks are dropped.
func (b *cmdBuffer) reset() {
	b.cmds = b.cmds[:0]
	b.chunks = b.chunks[:1]
	b.off = 0
}
