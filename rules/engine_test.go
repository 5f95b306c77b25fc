package rules

import (
	"testing"

	"github.com/sheikhrachel/go-cells3d/model"
	"github.com/sheikhrachel/go-cells3d/utils"
)

func mustRule(t testing.TB, survive, birth []int, n model.Neighbourhood, state uint8, b model.Boundary) Rule {
	t.Helper()
	r, err := NewRule(survive, birth, n, state, b)
	if err != nil {
		t.Fatalf("NewRule failed: %v", err)
	}
	return r
}

// gridOf builds an x*y*z grid with the listed flat indices alive
func gridOf(t testing.TB, x, y, z int, lifetime uint8, alive ...int) *model.Grid {
	t.Helper()
	pattern := make([]bool, x*y*z)
	for _, i := range alive {
		pattern[i] = true
	}
	g, err := model.NewGrid(x, y, z, lifetime, pattern)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	return g
}

func cellAt(t testing.TB, g *model.Grid, i int) model.Cell {
	t.Helper()
	c, err := g.Cell(i)
	if err != nil {
		t.Fatalf("Cell(%d) failed: %v", i, err)
	}
	return c
}

func TestApply(t *testing.T) {
	r := mustRule(t, []int{2, 3}, []int{3}, model.Moore, 7, model.BoundaryReference)
	tests := []struct {
		name  string
		cell  model.Cell
		count int
		want  model.Cell
	}{
		{"alive survives", model.Cell{Alive: true, State: 1}, 2, model.Cell{Alive: true, State: 7}},
		{"alive dies with rule state", model.Cell{Alive: true, State: 1}, 4, model.Cell{Alive: false, State: 7}},
		{"dead is born", model.Cell{State: 2}, 3, model.Cell{Alive: true, State: 7}},
		{"dead decays", model.Cell{State: 2}, 2, model.Cell{State: 1}},
		{"dead saturates at zero", model.Cell{}, 0, model.Cell{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(r, tt.cell, tt.count); got != tt.want {
				t.Fatalf("Apply(%+v, %d) = %+v, expected %+v", tt.cell, tt.count, got, tt.want)
			}
		})
	}
}

func TestFourNeighboursBringsCellAlive(t *testing.T) {
	r := mustRule(t, []int{4}, []int{4}, model.Moore, 5, model.BoundaryReference)
	centre := 13
	neighbours := []int{4, 10, 12, 14}

	for _, startAlive := range []bool{false, true} {
		alive := neighbours
		if startAlive {
			alive = append([]int{centre}, neighbours...)
		}
		g := gridOf(t, 3, 3, 3, 1, alive...)

		if n, _ := CountAliveNeighbours(g, r, centre); n != 4 {
			t.Fatalf("centre has %d live neighbours, expected 4", n)
		}

		next := Step(g, r)
		if c := cellAt(t, next, centre); !c.Alive || c.State != 5 {
			t.Fatalf("start alive=%v: centre = %+v, expected alive with state 5", startAlive, c)
		}
	}
}

func TestDeadCellDecaysToZero(t *testing.T) {
	r := mustRule(t, []int{4}, []int{4}, model.Moore, 5, model.BoundaryReference)
	g := gridOf(t, 1, 1, 1, 3)

	for _, want := range []uint8{2, 1, 0, 0, 0} {
		g = Step(g, r)
		if c := cellAt(t, g, 0); c.Alive || c.State != want {
			t.Fatalf("cell = %+v, expected dead with state %d", c, want)
		}
	}
}

func TestLivingCellDiesWithRuleState(t *testing.T) {
	r := mustRule(t, []int{4}, []int{4}, model.Moore, 5, model.BoundaryReference)
	g := gridOf(t, 1, 1, 1, 9, 0)

	next := Step(g, r)
	if c := cellAt(t, next, 0); c.Alive || c.State != 5 {
		t.Fatalf("cell = %+v, expected dead with state 5", c)
	}
}

func TestEmptySetsNeverSurviveOrBirth(t *testing.T) {
	r := mustRule(t, nil, nil, model.Moore, 2, model.BoundaryClip)
	g := gridOf(t, 3, 3, 3, 4, 0, 1, 3, 4, 9, 10, 12, 13)

	next := Step(g, r)
	if next.CountLivingCells() != 0 {
		t.Fatalf("%d cells alive, expected none", next.CountLivingCells())
	}
}

func TestNeighbourhoodSelectsOffsets(t *testing.T) {
	// index 0 is a corner of the centre's Moore neighbourhood but not a face
	g := gridOf(t, 3, 3, 3, 3, 0)

	moore := mustRule(t, nil, []int{1}, model.Moore, 5, model.BoundaryClip)
	if c := cellAt(t, Step(g, moore), 13); !c.Alive {
		t.Fatalf("moore: centre = %+v, expected born", c)
	}

	vonNeumann := mustRule(t, nil, []int{1}, model.VonNeumann, 5, model.BoundaryClip)
	if c := cellAt(t, Step(g, vonNeumann), 13); c.Alive || c.State != 2 {
		t.Fatalf("von neumann: centre = %+v, expected dead with state 2", c)
	}
}

// (0,1,0) is not a true neighbour of (2,0,0) but the reference boundary
// reaches it through the x+1 overflow.
func TestBoundaryPolicyChangesEdgeResults(t *testing.T) {
	g := gridOf(t, 3, 3, 3, 0, 3)
	edge := 2

	ref := mustRule(t, nil, []int{1}, model.Moore, 5, model.BoundaryReference)
	if c := cellAt(t, Step(g, ref), edge); !c.Alive {
		t.Fatalf("reference: edge cell = %+v, expected born", c)
	}

	clip := mustRule(t, nil, []int{1}, model.Moore, 5, model.BoundaryClip)
	if c := cellAt(t, Step(g, clip), edge); c.Alive {
		t.Fatalf("clip: edge cell = %+v, expected dead", c)
	}

	// (2,2,2) wraps round to (0,0,0)
	g = gridOf(t, 3, 3, 3, 0, 26)
	wrap := mustRule(t, nil, []int{1}, model.Moore, 5, model.BoundaryWrap)
	if c := cellAt(t, Step(g, wrap), 0); !c.Alive {
		t.Fatalf("wrap: corner = %+v, expected born", c)
	}
	if c := cellAt(t, Step(g, clip), 0); c.Alive {
		t.Fatalf("clip: corner = %+v, expected dead", c)
	}
}

func TestStepPreservesDimensionsAndInput(t *testing.T) {
	r := mustRule(t, []int{4, 5}, []int{4}, model.Moore, 5, model.BoundaryReference)
	pattern := model.RandomPattern(model.NewRand(11), 4*3*2, 0.5)
	g, err := model.NewGrid(4, 3, 2, 5, pattern)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	before := g.Clone()

	next := Step(g, r)
	if x, y, z := next.Dims(); x != 4 || y != 3 || z != 2 {
		t.Fatalf("next dims = (%d,%d,%d), expected (4,3,2)", x, y, z)
	}
	if next.Len() != g.Len() {
		t.Fatalf("next has %d cells, expected %d", next.Len(), g.Len())
	}
	if !g.Equal(before) {
		t.Fatalf("Step modified its input grid")
	}
}

func TestStepIsDeterministic(t *testing.T) {
	r := mustRule(t, []int{4, 5, 6}, []int{4}, model.Moore, 5, model.BoundaryReference)
	g, _ := model.NewGrid(8, 7, 6, 5, model.RandomPattern(model.NewRand(5), 8*7*6, 0.3))

	want := Step(g, r)
	if again := Step(g, r); !again.Equal(want) || again.GetGridHash() != want.GetGridHash() {
		t.Fatalf("two steps of the same input differ")
	}

	pool := model.NewGridPool()
	for _, workers := range []int{0, 1, 2, 3, 7, 1000} {
		got := StepParallel(g, r, nil, workers)
		if !got.Equal(want) {
			t.Fatalf("StepParallel with %d workers differs from Step", workers)
		}
		pooled := StepParallel(g, r, pool, workers)
		if !pooled.Equal(want) {
			t.Fatalf("pooled StepParallel with %d workers differs from Step", workers)
		}
		model.GridToPool(pooled, pool)
	}
}

func TestNextGenerationFollowsConfig(t *testing.T) {
	r := mustRule(t, []int{4}, []int{4}, model.VonNeumann, 5, model.BoundaryWrap)
	g, _ := model.NewGrid(5, 5, 5, 5, model.RandomPattern(model.NewRand(9), 125, 0.4))
	want := Step(g, r)

	config := utils.DefaultConfig()
	pool := model.NewGridPool()
	for _, parallel := range []bool{false, true} {
		config.UseParallel = parallel
		for _, p := range []*model.GridPool{nil, pool} {
			got := NextGeneration(g, r, config, p)
			if !got.Equal(want) {
				t.Fatalf("NextGeneration(parallel=%v, pool=%v) differs from Step", parallel, p != nil)
			}
		}
	}
}

func TestCountAliveNeighboursRejectsBadIndex(t *testing.T) {
	g := gridOf(t, 2, 2, 2, 0)
	if _, err := CountAliveNeighbours(g, DefaultRule(), 8); err == nil {
		t.Fatalf("CountAliveNeighbours(8) succeeded on an 8-cell grid")
	}
}

func benchmarkStep(b *testing.B, step func(*model.Grid, Rule) *model.Grid) {
	r := mustRule(b, []int{4}, []int{4}, model.Moore, 5, model.BoundaryReference)
	g, err := model.NewGrid(32, 32, 32, 5, model.RandomPattern(model.NewRand(1), 32*32*32, 0.2))
	if err != nil {
		b.Fatalf("NewGrid failed: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g = step(g, r)
	}
}

func BenchmarkStep(b *testing.B) {
	benchmarkStep(b, Step)
}

func BenchmarkStepParallel(b *testing.B) {
	pool := model.NewGridPool()
	benchmarkStep(b, func(g *model.Grid, r Rule) *model.Grid {
		next := StepParallel(g, r, pool, 0)
		model.GridToPool(g, pool)
		return next
	})
}
