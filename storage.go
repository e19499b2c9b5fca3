// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ecs

// store is the sparse-set backed storage for one component type.
//
// sparse maps entity → dense index + 1; zero means absent. dense is the
// compact array of present entities, and data holds one elemSize-byte
// payload per dense slot at the matching index.
//
// Invariants: len(dense)*elemSize == len(data), and for every present
// entity e, dense[sparse[e]-1] == e.
type store struct {
	sparse   []uint32
	dense    []Entity
	data     []byte
	elemSize int
}

func newStore(elemSize int) *store {
	return &store{elemSize: elemSize}
}

func (s *store) count() int { return len(s.dense) }

// has reports presence in constant time. Entities beyond the sparse
// array report absent.
func (s *store) has(e Entity) bool {
	return e < Entity(len(s.sparse)) && s.sparse[e] != 0
}

// add inserts e and returns its zeroed payload slot. If e is already
// present, the existing slot is returned unchanged.
func (s *store) add(e Entity) []byte {
	if s.has(e) {
		return s.slot(int(s.sparse[e]) - 1)
	}
	if e >= Entity(len(s.sparse)) {
		grown := make([]uint32, growCap(int(e)+1, len(s.sparse)))
		copy(grown, s.sparse)
		s.sparse = grown
	}
	s.dense = append(s.dense, e)
	s.data = append(s.data, make([]byte, s.elemSize)...)
	s.sparse[e] = uint32(len(s.dense))
	return s.slot(len(s.dense) - 1)
}

// remove deletes e via swap-with-last in both dense and data, repairing
// sparse. Returns false if e is absent.
func (s *store) remove(e Entity) bool {
	if !s.has(e) {
		return false
	}
	i := int(s.sparse[e]) - 1
	last := len(s.dense) - 1
	if i != last {
		moved := s.dense[last]
		s.dense[i] = moved
		copy(s.slot(i), s.slot(last))
		s.sparse[moved] = uint32(i + 1)
	}
	s.dense = s.dense[:last]
	s.data = s.data[:last*s.elemSize]
	s.sparse[e] = 0
	return true
}

// get returns the payload of e, or nil if absent. The slice stays valid
// until the next structural change on this store.
func (s *store) get(e Entity) []byte {
	if !s.has(e) {
		return nil
	}
	return s.slot(int(s.sparse[e]) - 1)
}

func (s *store) slot(i int) []byte {
	return s.data[i*s.elemSize : (i+1)*s.elemSize : (i+1)*s.elemSize]
}

// growCap doubles have until it covers need.
func growCap(need, have int) int {
	n := have
	if n < 8 {
		n = 8
	}
	for n < need {
		n <<= 1
	}
	return n
}
