package rules

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-cells3d/model"
	"github.com/sheikhrachel/go-cells3d/utils"
)

/*
Apply computes a cell's next value from its live-neighbour count.

A living cell keeps living if the count is in the survive set and otherwise
dies, in both cases taking the rule's state. A dead cell is born with the
rule's state if the count is in the birth set; otherwise it stays dead and
its state decays by one, stopping at zero.
*/
func Apply(rule Rule, cell model.Cell, aliveCount int) model.Cell {
	if cell.Alive {
		return model.Cell{Alive: rule.Survives(aliveCount), State: rule.state}
	}
	if rule.Born(aliveCount) {
		return model.Cell{Alive: true, State: rule.state}
	}
	if cell.State == 0 {
		return model.Cell{}
	}
	return model.Cell{State: cell.State - 1}
}

// Step returns the next generation of grid under rule. grid is not modified.
func Step(grid *model.Grid, rule Rule) *model.Grid {
	next := model.GridFromPool(nil, grid.XLen(), grid.YLen(), grid.ZLen())
	stepRange(grid, next, rule, 0, grid.Len())
	return next
}

// StepParallel is Step with the flat index range split across workers.
// The result is identical to Step. A nil pool allocates a fresh grid;
// workers <= 0 uses one worker per CPU.
func StepParallel(grid *model.Grid, rule Rule, pool *model.GridPool, workers int) *model.Grid {
	next := model.GridFromPool(pool, grid.XLen(), grid.YLen(), grid.ZLen())

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		eg             errgroup.Group
		total          = grid.Len()
		cellsPerWorker = (total + workers - 1) / workers // Ceiling division
	)

	for i := range workers {
		var (
			start = i * cellsPerWorker
			end   = min(start+cellsPerWorker, total)
		)
		if start >= total {
			break
		}

		eg.Go(func() error {
			stepRange(grid, next, rule, start, end)
			return nil
		})
	}

	// workers only read grid and write disjoint slots of next; they never fail
	_ = eg.Wait()

	return next
}

// NextGeneration calculates the next generation based on configuration
func NextGeneration(grid *model.Grid, rule Rule, config utils.Config, pool *model.GridPool) *model.Grid {
	if config.UseParallel {
		return StepParallel(grid, rule, pool, config.Workers)
	}
	next := model.GridFromPool(pool, grid.XLen(), grid.YLen(), grid.ZLen())
	stepRange(grid, next, rule, 0, grid.Len())
	return next
}

// CountAliveNeighbours returns how many neighbours of index are alive
func CountAliveNeighbours(grid *model.Grid, rule Rule, index int) (int, error) {
	neighbours, err := grid.NeighborIndicesOf(index, rule.neighbourhood, rule.boundary)
	if err != nil {
		return 0, err
	}
	return countAlive(grid.Buffer(), neighbours), nil
}

// stepRange writes next[start:end] from the prior generation in grid
func stepRange(grid, next *model.Grid, rule Rule, start, end int) {
	var (
		cur        = grid.Buffer()
		out        = next.Buffer()
		neighbours = make([]int, 0, rule.neighbourhood.Size())
	)

	for i := start; i < end; i++ {
		neighbours = grid.AppendNeighborIndices(neighbours[:0], i, rule.neighbourhood, rule.boundary)
		out[i] = Apply(rule, cur[i], countAlive(cur, neighbours))
	}
}

func countAlive(cells []model.Cell, indices []int) (count int) {
	for _, n := range indices {
		if cells[n].Alive {
			count++
		}
	}
	return
}
