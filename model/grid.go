package model

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDimensions is returned when a grid extent is zero or negative
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrDimensionMismatch is returned when a seed pattern does not cover the grid volume
	ErrDimensionMismatch = errors.New("pattern length does not match grid volume")
	// ErrIndexOutOfBounds is returned by accessors given an index outside the grid
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)

// Cell is a single voxel of the automaton
type Cell struct {
	Alive bool
	// State is the age/decay counter; it never goes below zero
	State uint8
}

// Grid is a fixed-size volume of cells stored in row-major flat order:
// index = x + y*xLen + z*xLen*yLen
type Grid struct {
	xLen, yLen, zLen int
	cells            []Cell
}

// NewGrid creates a grid with the specified dimensions.
//
// With a nil pattern every cell starts {dead, 0}. With a pattern, cell i starts
// {pattern[i], lifetime}, alive or not. Empty grids are rejected.
func NewGrid(xLen, yLen, zLen int, lifetime uint8, pattern []bool) (*Grid, error) {
	if xLen <= 0 || yLen <= 0 || zLen <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewGrid] %dx%dx%d", xLen, yLen, zLen)
	}

	volume := xLen * yLen * zLen
	if pattern != nil && len(pattern) != volume {
		return nil, errors.Wrapf(ErrDimensionMismatch, "[NewGrid] pattern has %d cells, grid %dx%dx%d needs %d",
			len(pattern), xLen, yLen, zLen, volume)
	}

	g := newEmptyGrid(xLen, yLen, zLen)
	for i, alive := range pattern {
		g.cells[i] = Cell{Alive: alive, State: lifetime}
	}
	return g, nil
}

// newEmptyGrid allocates an all-dead grid without validating the extents
func newEmptyGrid(xLen, yLen, zLen int) *Grid {
	return &Grid{
		xLen:  xLen,
		yLen:  yLen,
		zLen:  zLen,
		cells: make([]Cell, xLen*yLen*zLen),
	}
}

// XLen returns the extent along x
func (g *Grid) XLen() int { return g.xLen }

// YLen returns the extent along y
func (g *Grid) YLen() int { return g.yLen }

// ZLen returns the extent along z
func (g *Grid) ZLen() int { return g.zLen }

// Dims returns all three extents
func (g *Grid) Dims() (x, y, z int) { return g.xLen, g.yLen, g.zLen }

// Len returns the number of cells
func (g *Grid) Len() int { return len(g.cells) }

// FlatIndexOf maps (x, y, z) to a flat index. It does not validate its input;
// the result is only meaningful for x < XLen, y < YLen and z < ZLen.
func (g *Grid) FlatIndexOf(x, y, z int) int {
	return x + y*g.xLen + z*g.xLen*g.yLen
}

// CoordinatesOf is the inverse of FlatIndexOf
func (g *Grid) CoordinatesOf(index int) (x, y, z int, err error) {
	if err = g.checkIndex(index); err != nil {
		return 0, 0, 0, errors.WithMessage(err, "[CoordinatesOf]")
	}
	plane := g.xLen * g.yLen
	return index % g.xLen, (index % plane) / g.xLen, index / plane, nil
}

// Cell returns the cell at a flat index
func (g *Grid) Cell(index int) (Cell, error) {
	if err := g.checkIndex(index); err != nil {
		return Cell{}, errors.WithMessage(err, "[Cell]")
	}
	return g.cells[index], nil
}

// CellAt returns the cell at (x, y, z)
func (g *Grid) CellAt(x, y, z int) (Cell, error) {
	if !g.inBounds(x, y, z) {
		return Cell{}, errors.Wrapf(ErrIndexOutOfBounds, "[CellAt] (%d,%d,%d) outside %dx%dx%d",
			x, y, z, g.xLen, g.yLen, g.zLen)
	}
	return g.cells[g.FlatIndexOf(x, y, z)], nil
}

// Set overwrites the cell at a flat index. Hosts use it for seeding between
// generations; it must not be called while a step is reading the grid.
func (g *Grid) Set(index int, c Cell) error {
	if err := g.checkIndex(index); err != nil {
		return errors.WithMessage(err, "[Set]")
	}
	g.cells[index] = c
	return nil
}

// Cells returns a copy of the flat cell buffer
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Buffer exposes the backing slice so the rule engine can read and write
// cells directly. Callers must not change its length.
func (g *Grid) Buffer() []Cell { return g.cells }

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := newEmptyGrid(g.xLen, g.yLen, g.zLen)
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same dimensions and cells
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.xLen != o.xLen || g.yLen != o.yLen || g.zLen != o.zLen {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, c := range g.cells {
		if c.Alive {
			count++
		}
	}
	return
}

// Clear kills every cell and zeroes every state
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{}
	}
}

// Reset resizes the grid to new dimensions and clears it
func (g *Grid) Reset(xLen, yLen, zLen int) {
	g.xLen, g.yLen, g.zLen = xLen, yLen, zLen

	volume := xLen * yLen * zLen
	if cap(g.cells) < volume {
		g.cells = make([]Cell, volume)
	} else {
		g.cells = g.cells[:volume]
	}
	g.Clear()
}

// GetGridHash returns an MD5 hash of alive flags and states
func (g *Grid) GetGridHash() string {
	h := md5.New()
	buf := make([]byte, 0, 2*len(g.cells))
	for _, c := range g.cells {
		var alive byte
		if c.Alive {
			alive = 1
		}
		buf = append(buf, alive, c.State)
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (g *Grid) checkIndex(index int) error {
	if index < 0 || index >= len(g.cells) {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d, grid has %d cells", index, len(g.cells))
	}
	return nil
}

func (g *Grid) inBounds(x, y, z int) bool {
	return x >= 0 && x < g.xLen && y >= 0 && y < g.yLen && z >= 0 && z < g.zLen
}
