package model

import "sync"

// GridToPool returns a grid to the pool for reuse
func GridToPool(grid *Grid, pool *GridPool) {
	if pool == nil || grid == nil {
		return
	}

	pool.Put(grid)
}

// GridFromPool returns an all-dead grid of the given dimensions, taken from
// the pool when there is one
func GridFromPool(pool *GridPool, xLen, yLen, zLen int) *Grid {
	if pool == nil {
		return newEmptyGrid(xLen, yLen, zLen)
	}

	return pool.Get(xLen, yLen, zLen)
}

// GridPool recycles cell buffers between generations
type GridPool struct {
	pool sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &Grid{}
			},
		},
	}
}

// Get retrieves an all-dead grid of the given dimensions from the pool
func (p *GridPool) Get(xLen, yLen, zLen int) *Grid {
	g := p.pool.Get().(*Grid)
	g.Reset(xLen, yLen, zLen)
	return g
}

// Put returns a grid to the pool. The caller must not use it afterwards.
func (p *GridPool) Put(g *Grid) {
	g.Clear()
	p.pool.Put(g)
}
