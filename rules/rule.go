package rules

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cells3d/model"
)

// ErrInvalidRule is returned by NewRule for unusable rule parameters
var ErrInvalidRule = errors.New("invalid rule")

// Rule is a survive/birth rule with a decay state. It is immutable once built
// and safe to share between goroutines.
type Rule struct {
	survive       []int
	birth         []int
	surviveMask   uint32
	birthMask     uint32
	neighbourhood model.Neighbourhood
	state         uint8
	boundary      model.Boundary
}

/*
NewRule builds a Rule from its neighbour-count sets.

survive lists the live-neighbour counts at which a living cell stays alive,
birth the counts at which a dead cell comes alive. Either set may be empty.
state is assigned to every cell that is alive after a step, and to living
cells that die.
*/
func NewRule(
	survive, birth []int,
	neighbourhood model.Neighbourhood,
	state uint8,
	boundary model.Boundary,
) (Rule, error) {
	if !neighbourhood.Valid() {
		return Rule{}, errors.Wrapf(ErrInvalidRule, "[NewRule] neighbourhood %d", neighbourhood)
	}
	if !boundary.Valid() {
		return Rule{}, errors.Wrapf(ErrInvalidRule, "[NewRule] boundary %d", boundary)
	}

	surviveMask, err := countMask(survive, neighbourhood.Size())
	if err != nil {
		return Rule{}, errors.WithMessage(err, "[NewRule] survive")
	}
	birthMask, err := countMask(birth, neighbourhood.Size())
	if err != nil {
		return Rule{}, errors.WithMessage(err, "[NewRule] birth")
	}

	return Rule{
		survive:       normalize(survive),
		birth:         normalize(birth),
		surviveMask:   surviveMask,
		birthMask:     birthMask,
		neighbourhood: neighbourhood,
		state:         state,
		boundary:      boundary,
	}, nil
}

// DefaultRule is the 4/4 Moore rule with state 5 and reference boundaries
func DefaultRule() Rule {
	r, _ := NewRule([]int{4}, []int{4}, model.Moore, 5, model.BoundaryReference)
	return r
}

// Survives reports whether a living cell with n live neighbours stays alive
func (r Rule) Survives(n int) bool { return inMask(r.surviveMask, n) }

// Born reports whether a dead cell with n live neighbours comes alive
func (r Rule) Born(n int) bool { return inMask(r.birthMask, n) }

// Survive returns a sorted copy of the survive counts
func (r Rule) Survive() []int { return slices.Clone(r.survive) }

// Birth returns a sorted copy of the birth counts
func (r Rule) Birth() []int { return slices.Clone(r.birth) }

// Neighbourhood returns the neighbour topology
func (r Rule) Neighbourhood() model.Neighbourhood { return r.neighbourhood }

// State returns the state given to cells alive after a step
func (r Rule) State() uint8 { return r.state }

// Boundary returns the edge policy
func (r Rule) Boundary() model.Boundary { return r.boundary }

func countMask(counts []int, maxCount int) (uint32, error) {
	var mask uint32
	for _, c := range counts {
		if c < 0 || c > maxCount {
			return 0, errors.Wrapf(ErrInvalidRule, "count %d outside 0..%d", c, maxCount)
		}
		mask |= 1 << uint(c)
	}
	return mask, nil
}

func inMask(mask uint32, n int) bool {
	return n >= 0 && n < 32 && mask&(1<<uint(n)) != 0
}

// normalize returns a sorted copy without duplicates
func normalize(counts []int) []int {
	out := slices.Clone(counts)
	slices.Sort(out)
	return slices.Compact(out)
}
