// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package jobpool provides a lock-free multi-producer multi-consumer
// job pool.
//
// Jobs flow through a bounded ticket-slot ring ([Ring]): each slot
// sequences its producer and consumer phases with a monotonic turn
// counter, claimed by CAS and published by release-stores. A fixed set
// of worker goroutines drains the ring; [Pool.Submit] never blocks
// (full ring degrades to inline execution on the caller) and
// [Pool.Wait] assists, consuming queued jobs itself instead of
// sleeping.
//
//	p := jobpool.New(8, 1024)
//	defer p.Close()
//
//	var n atomix.Int64
//	for range 64 {
//	    p.Submit(func(any) { n.AddAcqRel(1) }, nil)
//	}
//	p.Wait() // n == 64
package jobpool
