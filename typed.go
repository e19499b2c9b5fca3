// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

import "unsafe"

// Typed sugar over the byte-level component API. The returned pointers
// alias store memory and follow the same lifetime rules as the []byte
// forms: valid until the next structural change on the component (or,
// for ViewAdd, until the next stage sync).

// Register registers a component type sized and laid out as T.
func Register[T any](w *World) Component {
	return w.RegisterComponent(int(unsafe.Sizeof(*new(T))))
}

// Get returns the payload of (e, c) as *T, or nil if absent.
func Get[T any](w *World, e Entity, c Component) *T {
	return cast[T](w.Get(e, c), w.stores[c].elemSize)
}

// Add attaches c to e (immediate path) and returns its payload as *T.
func Add[T any](w *World, e Entity, c Component) *T {
	return cast[T](w.Add(e, c), w.stores[c].elemSize)
}

// ViewAdd stages a deferred attach through v's lane and returns the
// zeroed staged payload as *T for in-place initialisation.
func ViewAdd[T any](v View, e Entity, c Component) *T {
	return cast[T](v.Add(e, c), v.w.stores[c].elemSize)
}

func cast[T any](b []byte, size int) *T {
	if b == nil {
		return nil
	}
	if int(unsafe.Sizeof(*new(T))) != size {
		panic("ecs: component size mismatch")
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}
