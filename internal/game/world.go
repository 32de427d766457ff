// Package game holds the arena simulation: the box world, latched keyboard
// input, first-person movement and the raycast weapon.
package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/pkg/math3d"
	"github.com/taigrr/boxarena/pkg/render"
)

// Box is one obstacle sitting on the floor.
type Box struct {
	ID     uuid.UUID
	Bounds math3d.AABB
	Color  render.Color
	Hit    bool
}

// World is the floor plus the obstacle boxes.
type World struct {
	FloorSize  float64
	FloorColor render.Color
	Boxes      []*Box
}

// NewWorld scatters cfg.Boxes.Count boxes across the floor. Box centres are
// uniform in [-spread/2, spread/2) on X and Z and each box rests on y=0.
// IDs are drawn from rng too, so a seeded rng reproduces the whole world.
func NewWorld(cfg *config.Config, rng *rand.Rand) *World {
	w := &World{
		FloorSize:  cfg.Scene.FloorSize,
		FloorColor: cfg.FloorColor(),
		Boxes:      make([]*Box, 0, cfg.Boxes.Count),
	}

	size := cfg.BoxSize()
	spread := cfg.Boxes.Spread
	color := cfg.BoxColor()

	for range cfg.Boxes.Count {
		x := (rng.Float64() - 0.5) * spread
		z := (rng.Float64() - 0.5) * spread
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.New()
		}
		w.Boxes = append(w.Boxes, &Box{
			ID:     id,
			Bounds: math3d.AABBFromCenter(math3d.V3(x, size.Y/2, z), size),
			Color:  color,
		})
	}

	return w
}

// Raycast returns the nearest box the ray hits within maxDist (0 means no
// limit) and the distance to it.
func (w *World) Raycast(ray math3d.Ray, maxDist float64) (*Box, float64, bool) {
	var (
		best  *Box
		bestT float64
	)
	for _, b := range w.Boxes {
		t, ok := b.Bounds.IntersectRay(ray, maxDist)
		if !ok {
			continue
		}
		if best == nil || t < bestT {
			best, bestT = b, t
		}
	}
	return best, bestT, best != nil
}

// Remove deletes the box with the given ID and reports whether it existed.
func (w *World) Remove(id uuid.UUID) bool {
	for i, b := range w.Boxes {
		if b.ID == id {
			w.Boxes = append(w.Boxes[:i], w.Boxes[i+1:]...)
			return true
		}
	}
	return false
}

// Remaining counts boxes that have not been hit.
func (w *World) Remaining() int {
	n := 0
	for _, b := range w.Boxes {
		if !b.Hit {
			n++
		}
	}
	return n
}
