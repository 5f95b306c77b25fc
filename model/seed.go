package model

import "math/rand/v2"

// NewRand returns a deterministic generator for the given seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// RandomPattern returns n cells, each alive with probability density
func RandomPattern(rng *rand.Rand, n int, density float64) []bool {
	pattern := make([]bool, n)
	for i := range pattern {
		pattern[i] = rng.Float64() < density
	}
	return pattern
}

// InjectRandomLife brings count random cells to life with the given state
func (g *Grid) InjectRandomLife(rng *rand.Rand, count int, state uint8) {
	if len(g.cells) == 0 {
		return
	}
	for range count {
		g.cells[rng.IntN(len(g.cells))] = Cell{Alive: true, State: state}
	}
}

// SeedCube brings to life a solid cube of side edge with its low corner at
// (x, y, z), clipped to the grid
func (g *Grid) SeedCube(x, y, z, edge int, state uint8) {
	for dz := range edge {
		for dy := range edge {
			for dx := range edge {
				if g.inBounds(x+dx, y+dy, z+dz) {
					g.cells[g.FlatIndexOf(x+dx, y+dy, z+dz)] = Cell{Alive: true, State: state}
				}
			}
		}
	}
}
