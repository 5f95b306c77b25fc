package model

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownTopology is returned when a neighbourhood or boundary name cannot be parsed
var ErrUnknownTopology = errors.New("unknown topology")

// Neighbourhood selects which offsets count as neighbours
type Neighbourhood int

const (
	// Moore is every cell within Chebyshev distance 1 (26 offsets)
	Moore Neighbourhood = iota + 1
	// VonNeumann is the six axis-aligned unit steps
	VonNeumann
)

// Boundary selects how offsets leaving the grid are treated
type Boundary int

const (
	// BoundaryReference drops offsets that go negative on any axis but keeps
	// high-side overflow, so cells on the high faces alias into the next
	// row or plane. Results past the end of the buffer are dropped.
	BoundaryReference Boundary = iota + 1
	// BoundaryClip drops offsets leaving the grid on either side
	BoundaryClip
	// BoundaryWrap wraps every axis toroidally
	BoundaryWrap
)

// Offset is a relative neighbour position
type Offset struct {
	DX, DY, DZ int
}

var (
	mooreOffsets      = buildOffsets(func(dx, dy, dz int) bool { return dx != 0 || dy != 0 || dz != 0 })
	vonNeumannOffsets = buildOffsets(func(dx, dy, dz int) bool { return abs(dx)+abs(dy)+abs(dz) == 1 })
)

// buildOffsets walks {-1,0,1}^3 with x outermost and z innermost
func buildOffsets(keep func(dx, dy, dz int) bool) []Offset {
	var out []Offset
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if keep(dx, dy, dz) {
					out = append(out, Offset{DX: dx, DY: dy, DZ: dz})
				}
			}
		}
	}
	return out
}

// Offsets returns the neighbourhood's offsets. The slice is shared; do not modify it.
func (n Neighbourhood) Offsets() []Offset {
	switch n {
	case Moore:
		return mooreOffsets
	case VonNeumann:
		return vonNeumannOffsets
	}
	return nil
}

// Size returns the number of offsets in the neighbourhood
func (n Neighbourhood) Size() int { return len(n.Offsets()) }

// Valid reports whether n is a known neighbourhood
func (n Neighbourhood) Valid() bool { return n == Moore || n == VonNeumann }

func (n Neighbourhood) String() string {
	switch n {
	case Moore:
		return "moore"
	case VonNeumann:
		return "vonneumann"
	}
	return "unknown"
}

// ParseNeighbourhood parses "moore" or "vonneumann" (case-insensitive, "von-neumann" accepted)
func ParseNeighbourhood(s string) (Neighbourhood, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "moore":
		return Moore, nil
	case "vonneumann":
		return VonNeumann, nil
	}
	return 0, errors.Wrapf(ErrUnknownTopology, "[ParseNeighbourhood] %q", s)
}

// Valid reports whether b is a known boundary policy
func (b Boundary) Valid() bool { return b >= BoundaryReference && b <= BoundaryWrap }

func (b Boundary) String() string {
	switch b {
	case BoundaryReference:
		return "reference"
	case BoundaryClip:
		return "clip"
	case BoundaryWrap:
		return "wrap"
	}
	return "unknown"
}

// ParseBoundary parses "reference", "clip" or "wrap"
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reference":
		return BoundaryReference, nil
	case "clip":
		return BoundaryClip, nil
	case "wrap":
		return BoundaryWrap, nil
	}
	return 0, errors.Wrapf(ErrUnknownTopology, "[ParseBoundary] %q", s)
}

// NeighborIndicesOf returns the distinct flat indices neighbouring index,
// excluding index itself and never past the end of the grid
func (g *Grid) NeighborIndicesOf(index int, n Neighbourhood, b Boundary) ([]int, error) {
	if err := g.checkIndex(index); err != nil {
		return nil, errors.WithMessage(err, "[NeighborIndicesOf]")
	}
	return g.AppendNeighborIndices(make([]int, 0, n.Size()), index, n, b), nil
}

// AppendNeighborIndices appends the neighbours of index to dst and returns
// the extended slice. index must be in range.
func (g *Grid) AppendNeighborIndices(dst []int, index int, n Neighbourhood, b Boundary) []int {
	var (
		plane   = g.xLen * g.yLen
		x, y, z = index % g.xLen, (index % plane) / g.xLen, index / plane
		start   = len(dst)
	)

	for _, o := range n.Offsets() {
		nx, ny, nz := x+o.DX, y+o.DY, z+o.DZ

		switch b {
		case BoundaryClip:
			if !g.inBounds(nx, ny, nz) {
				continue
			}
		case BoundaryWrap:
			nx, ny, nz = wrap(nx, g.xLen), wrap(ny, g.yLen), wrap(nz, g.zLen)
		default:
			if nx < 0 || ny < 0 || nz < 0 {
				continue
			}
		}

		ni := g.FlatIndexOf(nx, ny, nz)
		if ni == index || ni >= len(g.cells) || containsIndex(dst[start:], ni) {
			continue
		}
		dst = append(dst, ni)
	}
	return dst
}

func wrap(v, n int) int {
	return (v%n + n) % n
}

func containsIndex(s []int, v int) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
