// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

// Compile-time tunables. Changing any of these requires a rebuild of
// every importer; they size fixed-width structures on the hot path.
const (
	// MaxComponents bounds the number of registered component types and
	// fixes the width of every component bitset.
	MaxComponents = 256

	// MaxSystems bounds the number of registered systems and fixes the
	// width of the per-system ordering sets.
	MaxSystems = 64

	// MaxLanes bounds the lane count accepted by SetExecutor. Each lane
	// owns one command buffer.
	MaxLanes = 1024

	// CommandBufferInitialCapacity is the initial per-lane command log
	// capacity, in commands.
	CommandBufferInitialCapacity = 64

	// CommandDataInitialCapacity is the chunk size of the per-lane
	// payload arena, in bytes. Staged payloads larger than this get a
	// dedicated chunk.
	CommandDataInitialCapacity = 4096

	// ScratchInitialCapacity is the initial capacity of a task's matched
	// entity scratch buffer, in entities.
	ScratchInitialCapacity = 256

	// CacheLineBytes is the assumed cache line size used for padding
	// between hot atomics.
	CacheLineBytes = 64
)

// pad is cache line padding to prevent false sharing.
type pad [CacheLineBytes]byte
