package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cells3d/model"
	"github.com/sheikhrachel/go-cells3d/rules"
	"github.com/sheikhrachel/go-cells3d/utils"
)

// options are the command line settings
type options struct {
	configPath    string
	survive       []int
	birth         []int
	neighbourhood string
	boundary      string
	state         int
	generations   int
	noColor       bool
}

func parseOptions() options {
	opts := options{
		neighbourhood: model.Moore.String(),
		boundary:      model.BoundaryReference.String(),
		state:         int(rules.DefaultRule().State()),
		generations:   -1,
	}

	flaggy.SetName("cells3d")
	flaggy.SetDescription("3D survive/birth cellular automaton with decaying cell state")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&opts.configPath, "c", "config", "Run settings file (.json, .yaml or .yml)")
	flaggy.IntSlice(&opts.survive, "s", "survive", "Live-neighbour count at which a living cell survives (repeatable, default 4)")
	flaggy.IntSlice(&opts.birth, "b", "birth", "Live-neighbour count at which a dead cell is born (repeatable, default 4)")
	flaggy.String(&opts.neighbourhood, "n", "neighbourhood", "Neighbourhood [moore|vonneumann]")
	flaggy.String(&opts.boundary, "e", "boundary", "Edge policy [reference|clip|wrap]")
	flaggy.Int(&opts.state, "t", "state", "State given to cells alive after a step (0-255)")
	flaggy.Int(&opts.generations, "g", "generations", "Override max generations (0 runs forever)")
	flaggy.Bool(&opts.noColor, "", "no-color", "Disable coloured output")
	flaggy.Parse()

	return opts
}

// buildRule turns the command line settings into a Rule
func buildRule(opts options) (rules.Rule, error) {
	def := rules.DefaultRule()

	neighbourhood, err := model.ParseNeighbourhood(opts.neighbourhood)
	if err != nil {
		return rules.Rule{}, err
	}
	boundary, err := model.ParseBoundary(opts.boundary)
	if err != nil {
		return rules.Rule{}, err
	}
	if opts.state < 0 || opts.state > 255 {
		return rules.Rule{}, errors.Wrapf(rules.ErrInvalidRule, "[buildRule] state %d outside 0..255", opts.state)
	}

	survive, birth := opts.survive, opts.birth
	if len(survive) == 0 {
		survive = def.Survive()
	}
	if len(birth) == 0 {
		birth = def.Birth()
	}

	return rules.NewRule(survive, birth, neighbourhood, uint8(opts.state), boundary)
}

// loadConfig falls back to defaults when no file is given
func loadConfig(opts options) (utils.Config, error) {
	config := utils.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if config, err = utils.LoadConfig(opts.configPath); err != nil {
			return config, err
		}
	}
	if opts.generations >= 0 {
		config.MaxGenerations = opts.generations
	}
	return config, nil
}

func main() {
	opts := parseOptions()
	au := aurora.NewAurora(!opts.noColor)

	config, err := loadConfig(opts)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	rule, err := buildRule(opts)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	grid, pool, rng, stats, err := initializeGame(config, rule)
	if err != nil {
		fmt.Println(au.Red(fmt.Sprintf("%+v", err)))
		os.Exit(1)
	}
	displayGameInfo(au, config, rule, grid)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var (
		history        model.History
		generation     = 0
		stagnantCount  = 0
		lastRestartGen = 0
		lastFrameTime  = time.Now()
	)

	for {
		select {
		case <-sigChan:
			fmt.Println("\nShutting down gracefully...")
			printFinalStats(generation, stats)
			model.GridToPool(grid, pool)
			return
		default:
		}

		frameStart := time.Now()

		livingCells, density, status, isStagnant := updateGameState(grid, &history, generation, lastFrameTime, stats)
		lastFrameTime = frameStart

		if isStagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}

		displayGameStatus(au, generation, livingCells, density, status, stats, lastRestartGen)

		if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
			fmt.Printf("\nReached maximum generations limit (%d)\n", config.MaxGenerations)
			break
		}

		shouldRestart, restartReason := checkRestartConditions(livingCells, stagnantCount, generation, config)

		if shouldRestart && config.AutoRestart {
			fmt.Printf("Restarting due to %s...\n", au.Yellow(restartReason))

			next, err := restartGame(au, config, rng, rule)
			if err != nil {
				fmt.Println(au.Red(fmt.Sprintf("%+v", err)))
				os.Exit(1)
			}
			model.GridToPool(grid, pool)
			grid = next
			history.Clear()
			lastRestartGen = generation
			stagnantCount = 0
		} else if stagnantCount >= 2 {
			// Inject some life to try to break the stagnation
			grid.InjectRandomLife(rng, config.InjectionCount, rule.State())
		}

		newGrid := rules.NextGeneration(grid, rule, config, pool)
		model.GridToPool(grid, pool)
		grid = newGrid

		generation++

		time.Sleep(config.FrameRate)
	}

	printFinalStats(generation, stats)
	model.GridToPool(grid, pool)
}

func printFinalStats(generation int, stats *utils.Stats) {
	fmt.Printf("Final stats: %d generations in %.1f seconds\n", generation, stats.Runtime().Seconds())
	fmt.Printf("Average: %.1f gen/sec, %.1f avg population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation)
}
