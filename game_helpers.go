package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cells3d/model"
	"github.com/sheikhrachel/go-cells3d/rules"
	"github.com/sheikhrachel/go-cells3d/utils"
)

// periodicRefresh restarts the run every this many generations
const periodicRefresh = 200

// seedGrid builds a randomly seeded grid and drops a solid cube in the middle
func seedGrid(config utils.Config, rng *rand.Rand, state uint8) (*model.Grid, error) {
	pattern := model.RandomPattern(rng, config.Volume(), config.RandomDensity)
	grid, err := model.NewGrid(config.XLen, config.YLen, config.ZLen, config.Lifetime, pattern)
	if err != nil {
		return nil, errors.WithMessage(err, "[seedGrid]")
	}

	if config.XLen >= 4 && config.YLen >= 4 && config.ZLen >= 4 {
		grid.SeedCube(config.XLen/2-1, config.YLen/2-1, config.ZLen/2-1, 2, state)
	}
	return grid, nil
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, rule rules.Rule) (
	*model.Grid,
	*model.GridPool,
	*rand.Rand,
	*utils.Stats,
	error,
) {
	var pool *model.GridPool
	if config.UseMemoryPool {
		pool = model.NewGridPool()
	}

	rng := model.NewRand(config.Seed)
	grid, err := seedGrid(config, rng, rule.State())
	if err != nil {
		return nil, nil, nil, nil, errors.WithMessage(err, "[initializeGame]")
	}

	return grid, pool, rng, utils.NewStats(), nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(au aurora.Aurora, config utils.Config, rule rules.Rule, grid *model.Grid) {
	fmt.Printf("Rule: survive %v | birth %v | %v | state %d | boundary %v\n",
		au.Cyan(rule.Survive()), au.Cyan(rule.Birth()), au.Cyan(rule.Neighbourhood()),
		rule.State(), au.Cyan(rule.Boundary()))
	fmt.Printf("Features: Memory Pool: %v, Parallel: %v\n", config.UseMemoryPool, config.UseParallel)
	fmt.Printf("Grid: %dx%dx%d | Initial living cells: %v\n",
		grid.XLen(), grid.YLen(), grid.ZLen(), au.Green(grid.CountLivingCells()))
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
}

// updateGameState updates stats and history and returns status information
func updateGameState(
	grid *model.Grid,
	history *model.History,
	generation int,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (int, float64, string, bool) {
	livingCells := grid.CountLivingCells()
	density := float64(livingCells) / float64(grid.Len()) * 100

	stats.Update(generation, livingCells, time.Since(lastFrameTime))

	// compare against earlier generations before recording this one
	isStagnant := history.IsStagnant(grid)
	history.UpdateHistory(grid)

	status := "Active"
	if isStagnant {
		status = "Stagnant"
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, density, status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(
	au aurora.Aurora,
	generation, livingCells int,
	density float64,
	status string,
	stats *utils.Stats,
	lastRestartGen int,
) {
	statusValue := au.Green(status)
	switch status {
	case "Stagnant":
		statusValue = au.Yellow(status)
	case "Extinct":
		statusValue = au.Red(status)
	}

	fmt.Printf("Gen: %v | Living: %d | Density: %.1f%% | Status: %v\n",
		au.Bold(generation), livingCells, density, statusValue)
	fmt.Printf("Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())

	if generation > lastRestartGen {
		fmt.Printf("Generations since restart: %d\n", generation-lastRestartGen)
	}
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(
	livingCells, stagnantCount, generation int,
	config utils.Config,
) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if generation > 0 && generation%periodicRefresh == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// restartGame reseeds the grid from the same generator
func restartGame(au aurora.Aurora, config utils.Config, rng *rand.Rand, rule rules.Rule) (*model.Grid, error) {
	grid, err := seedGrid(config, rng, rule.State())
	if err != nil {
		return nil, errors.WithMessage(err, "[restartGame]")
	}

	fmt.Printf("New pattern seeded! Living cells: %v\n", au.Green(grid.CountLivingCells()))
	return grid, nil
}
