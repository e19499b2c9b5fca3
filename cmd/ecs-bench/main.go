// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// ecs-bench drives a particle simulation through the full ECS pipeline
// and reports per-tick timing for the serial and pool-backed drivers.
//
//	ecs-bench -entities 100000 -ticks 600 -workers 8 -lanes 8
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"

	"code.hybscloud.com/ecs"
	"code.hybscloud.com/ecs/jobpool"
)

type Pos struct{ X, Y float64 }
type Vel struct{ X, Y float64 }
type Bounds struct{ W, H float64 }

func buildWorld(entities int) (*ecs.World, ecs.Component, ecs.Component, ecs.Component) {
	w := ecs.NewWorld()
	pos := ecs.Register[Pos](w)
	vel := ecs.Register[Vel](w)
	bounds := ecs.Register[Bounds](w)

	for i := range entities {
		e := w.Create()
		*ecs.Add[Pos](w, e, pos) = Pos{X: float64(i % 1000), Y: float64(i / 1000)}
		*ecs.Add[Vel](w, e, vel) = Vel{X: float64(i%7) - 3, Y: float64(i%5) - 2}
		*ecs.Add[Bounds](w, e, bounds) = Bounds{W: 1000, H: 1000}
	}
	return w, pos, vel, bounds
}

func registerSystems(w *ecs.World, pos, vel, bounds ecs.Component) {
	// Stage 1: integrate velocities into positions.
	w.NewSystem(func(w *ecs.World, v ecs.View, _ any) error {
		for _, e := range v.Entities {
			p := ecs.Get[Pos](w, e, pos)
			q := ecs.Get[Vel](w, e, vel)
			p.X += q.X
			p.Y += q.Y
		}
		return nil
	}, nil).Require(pos).Require(vel).Writes(pos).Reads(vel)

	// Stage 2: bounce off the walls; conflicts with the integrator on
	// both pos (read) and vel (write).
	w.NewSystem(func(w *ecs.World, v ecs.View, _ any) error {
		for _, e := range v.Entities {
			p := ecs.Get[Pos](w, e, pos)
			q := ecs.Get[Vel](w, e, vel)
			b := ecs.Get[Bounds](w, e, bounds)
			if p.X < 0 || p.X > b.W {
				q.X = -q.X
			}
			if p.Y < 0 || p.Y > b.H {
				q.Y = -q.Y
			}
		}
		return nil
	}, nil).Require(pos).Require(vel).Require(bounds).Reads(pos).Writes(vel)
}

func run(label string, entities, ticks int, attach func(*ecs.World)) {
	w, pos, vel, bounds := buildWorld(entities)
	registerSystems(w, pos, vel, bounds)
	if attach != nil {
		attach(w)
	}

	start := time.Now()
	for range ticks {
		if err := w.Progress(0); err != nil {
			fmt.Fprintln(os.Stderr, "progress:", err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("%-8s %d entities × %d ticks: %v (%.2f µs/tick)\n",
		label, entities, ticks, elapsed.Round(time.Millisecond),
		float64(elapsed.Microseconds())/float64(ticks))
}

func main() {
	entities := flag.Int("entities", 100000, "entity count")
	ticks := flag.Int("ticks", 600, "tick count")
	workers := flag.Int("workers", 0, "pool workers (0 = GOMAXPROCS)")
	lanes := flag.Int("lanes", 8, "lanes per system per stage")
	flag.Parse()

	run("serial", *entities, *ticks, nil)

	p := jobpool.New(*workers, 0)
	defer p.Close()
	run("pooled", *entities, *ticks, func(w *ecs.World) {
		w.AttachPool(p, *lanes)
	})
}
