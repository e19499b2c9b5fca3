// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

// SystemFunc is the system callback. It receives the world, a view of
// the matched entities for this slice, and the opaque user data bound at
// registration. A non-nil error aborts the enclosing Progress with that
// error after the final command drain.
type SystemFunc func(w *World, v View, udata any) error

// System is one registered system: its callback, match predicates,
// declared component accesses, explicit ordering edges, group tag and
// enabled flag.
//
// Configuration methods return the receiver for chaining:
//
//	move := w.NewSystem(moveFn, nil).Require(pos).Require(vel).Writes(pos)
//
// All configuration must happen outside a tick; every mutation except
// SetUdata marks the stage schedule dirty.
type System struct {
	fn    SystemFunc
	udata any

	allOf  bitset
	noneOf bitset
	read   bitset
	write  bitset
	after  sysSet

	group   uint32
	enabled bool

	idx int
	w   *World
}

// NewSystem registers a system in registration order. The callback must
// be non-nil.
func (w *World) NewSystem(fn SystemFunc, udata any) *System {
	if fn == nil {
		panic("ecs: nil system function")
	}
	if len(w.systems) >= MaxSystems {
		panic("ecs: too many systems")
	}
	w.systems = append(w.systems, System{
		fn:      fn,
		udata:   udata,
		enabled: true,
		idx:     len(w.systems),
		w:       w,
	})
	w.scheduleDirty = true
	return &w.systems[len(w.systems)-1]
}

func (s *System) dirty() { s.w.scheduleDirty = true }

// Require adds c to the match predicate: only entities holding c are
// visited. Requiring implies reading.
func (s *System) Require(c Component) *System {
	s.w.checkComponent(c)
	s.allOf.set(int(c))
	s.read.set(int(c))
	s.dirty()
	return s
}

// Exclude rejects entities holding c.
func (s *System) Exclude(c Component) *System {
	s.w.checkComponent(c)
	s.noneOf.set(int(c))
	s.dirty()
	return s
}

// Reads declares a read access to c for conflict analysis.
func (s *System) Reads(c Component) *System {
	s.w.checkComponent(c)
	s.read.set(int(c))
	s.dirty()
	return s
}

// Writes declares a write access to c for conflict analysis. Two systems
// never share a stage when one writes a component the other touches.
func (s *System) Writes(c Component) *System {
	s.w.checkComponent(c)
	s.write.set(int(c))
	s.dirty()
	return s
}

// After adds an explicit ordering edge: s runs in a later stage than
// dep. The edge holds even while dep is disabled.
func (s *System) After(dep *System) *System {
	if dep == nil || dep.w != s.w {
		panic("ecs: After dependency from a different world")
	}
	s.after.set(dep.idx)
	s.dirty()
	return s
}

// Enable marks s eligible for dispatch.
func (s *System) Enable() *System {
	s.enabled = true
	s.dirty()
	return s
}

// Disable removes s from dispatch without unregistering it. Its stage
// assignment is unaffected.
func (s *System) Disable() *System {
	s.enabled = false
	s.dirty()
	return s
}

// SetGroup tags s with a group mask. Group 0 systems run only when
// Progress is called with mask 0; any other group runs when its bits
// intersect a non-zero mask.
func (s *System) SetGroup(group uint32) *System {
	s.group = group
	s.dirty()
	return s
}

// Group returns the group tag.
func (s *System) Group() uint32 { return s.group }

// SetUdata rebinds the opaque user data passed to the callback.
func (s *System) SetUdata(udata any) *System {
	s.udata = udata
	return s
}

// Udata returns the bound user data.
func (s *System) Udata() any { return s.udata }

// rw returns the union of declared reads and writes.
func (s *System) rw() bitset {
	u := s.read
	u.or(&s.write)
	return u
}

// conflicts reports whether s and o cannot share a stage: one writes a
// component the other reads or writes.
func (s *System) conflicts(o *System) bool {
	orw := o.rw()
	if s.write.intersects(&orw) {
		return true
	}
	srw := s.rw()
	return o.write.intersects(&srw)
}
