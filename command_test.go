// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import (
	"encoding/binary"
	"testing"
)

// TestCommandArenaStability: payload bytes handed out earlier must
// survive arena growth until the drain.
func TestCommandArenaStability(t *testing.T) {
	b := newCmdBuffer()

	const n = 1000
	slices := make([][]byte, n)
	for i := range n {
		slices[i] = b.stageAdd(Entity(i+1), 0, 64)
		binary.LittleEndian.PutUint64(slices[i], uint64(i))
	}
	for i := range n {
		if got := binary.LittleEndian.Uint64(b.cmds[i].payload); got != uint64(i) {
			t.Fatalf("command %d payload: got %d, want %d", i, got, uint64(i))
		}
	}
}

// TestCommandArenaZeroed: bytes are zeroed on every hand-out, including
// after chunk reuse.
func TestCommandArenaZeroed(t *testing.T) {
	b := newCmdBuffer()

	p := b.stageAdd(1, 0, 32)
	for i := range p {
		p[i] = 0xff
	}
	b.reset()

	q := b.stageAdd(2, 0, 32)
	for i, v := range q {
		if v != 0 {
			t.Fatalf("reused arena byte %d not zeroed: %#x", i, v)
		}
	}
}

// TestCommandOversizedPayload: a staged payload larger than a chunk
// gets a dedicated one.
func TestCommandOversizedPayload(t *testing.T) {
	b := newCmdBuffer()
	p := b.stageAdd(1, 0, CommandDataInitialCapacity*3)
	if len(p) != CommandDataInitialCapacity*3 {
		t.Fatalf("payload length: got %d", len(p))
	}
	p[len(p)-1] = 1
	if b.cmds[0].payload[len(p)-1] != 1 {
		t.Fatal("oversized payload not shared with command record")
	}
}

// TestCommandReset retains capacity but drops content.
func TestCommandReset(t *testing.T) {
	b := newCmdBuffer()
	for i := range 100 {
		b.stageAdd(Entity(i+1), 0, 8)
	}
	b.stageRemove(5, 0)
	b.stageDestroy(6)
	b.reset()

	if len(b.cmds) != 0 {
		t.Fatalf("after reset: %d commands, want 0", len(b.cmds))
	}
	if len(b.chunks) != 1 || b.off != 0 {
		t.Fatalf("after reset: %d chunks off %d, want 1 chunk off 0", len(b.chunks), b.off)
	}
	if cap(b.cmds) == 0 {
		t.Fatal("reset dropped command capacity")
	}
}

// TestFlushPerLaneFIFO: within one lane, commands apply in staged
// order; a remove staged after an add must win.
func TestFlushPerLaneFIFO(t *testing.T) {
	w := NewWorld()
	c := w.RegisterComponent(8)
	e := w.Create()

	b := w.cmd[0]
	p := b.stageAdd(e, c, 8)
	binary.LittleEndian.PutUint64(p, 77)
	b.stageRemove(e, c)
	w.flushCommands()
	if w.Has(e, c) {
		t.Fatal("remove staged after add did not win")
	}

	b.stageRemove(e, c) // ignore-if-absent
	p = b.stageAdd(e, c, 8)
	binary.LittleEndian.PutUint64(p, 88)
	w.flushCommands()
	if !w.Has(e, c) {
		t.Fatal("add staged after remove did not win")
	}
	if got := binary.LittleEndian.Uint64(w.Get(e, c)); got != 88 {
		t.Fatalf("payload: got %d, want 88", got)
	}
}

// TestFlushDestroy: a staged destroy detaches every component and
// recycles the ID.
func TestFlushDestroy(t *testing.T) {
	w := NewWorld()
	a := w.RegisterComponent(4)
	b := w.RegisterComponent(4)
	e := w.Create()
	w.Add(e, a)
	w.Add(e, b)

	w.cmd[0].stageDestroy(e)
	w.flushCommands()

	if w.Has(e, a) || w.Has(e, b) {
		t.Fatal("destroyed entity still holds components")
	}
	if got := w.Create(); got != e {
		t.Fatalf("destroyed id not recycled: got %d, want %d", got, e)
	}
}
