package main

import (
	"flag"
	"fmt"
	"os"
	"tetris/engine"
	"tetris/experiments"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/gamemaster"
	"tetris/meta"
	"tetris/searcher"
	"tetris/server"
	"tetris/tuner"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	mode := flag.String("mode", "play", "tune, play, compare or serve")
	verbose := flag.Bool("v", false, "log debug messages")
	cpuProfile := flag.Bool("profile", false, "write a CPU profile to the working directory")
	seed := flag.Uint64("seed", 0, "random seed (0 = current time)")
	out := flag.String("out", "experiments", "directory for experiment and tuning results")

	population := flag.Int("population", meta.POPULATION_SIZE, "tuner population size")
	generations := flag.Int("generations", meta.GENERATIONS, "tuner generation cap (0 = patience only)")
	patience := flag.Int("patience", meta.PATIENCE, "generations without improvement before stopping (0 = disabled)")
	games := flag.Int("games", meta.GAMES_PER_CANDIDATE, "games per candidate")
	maxMoves := flag.Int("max-moves", meta.MAX_MOVES, "pieces per game")
	workers := flag.Int("workers", 0, "parallel games (0 = one per CPU)")

	render := flag.Bool("render", false, "print the board after every move in play mode")
	remote := flag.String("remote", "", "searcher server URL to play with in play mode")
	experiment := flag.String("experiment", "weights", "weights or throughput in compare mode")
	addr := flag.String("addr", ":8080", "listen address in serve mode")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	var err error
	switch *mode {
	case "tune":
		config := tuner.ConfigForPopulation(*population)
		config.Generations = *generations
		config.Patience = *patience
		config.GamesPerCandidate = *games
		config.MaxMovesPerGame = *maxMoves
		err = runTuner(config, *seed, *workers, *out)
	case "play":
		err = runGame(*seed, *maxMoves, *remote, *render)
	case "compare":
		switch *experiment {
		case "weights":
			err = experiments.RunWeightsExperiment(*out, *seed)
		case "throughput":
			err = experiments.RunThroughputExperiment(*out, *seed)
		default:
			err = fmt.Errorf("unknown experiment %q", *experiment)
		}
	case "serve":
		err = server.ListenAndServe(*addr, searcher.DefaultWeights())
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func runTuner(config tuner.Config, seed uint64, workers int, out string) error {
	records := []metrics.GenerationRecord{}
	t, err := tuner.NewTuner(config,
		tuner.WithSeed(seed),
		tuner.WithWorkers(workers),
		tuner.WithOnGeneration(func(stats tuner.GenerationStats) {
			records = append(records, metrics.GenerationRecord{
				Generation:     stats.Generation,
				BestFitness:    stats.BestFitness,
				AverageFitness: stats.AverageFitness,
				Patience:       stats.Patience,
				Height:         stats.Best.Weights.Height,
				Lines:          stats.Best.Weights.Lines,
				Holes:          stats.Best.Weights.Holes,
				Bumpiness:      stats.Best.Weights.Bumpiness,
				Timestamp:      stats.Timestamp,
				Duration:       stats.Duration,
			})
		}),
	)
	if err != nil {
		return err
	}

	best := t.Run()
	fmt.Printf("%+v\n", best.Weights)

	writer, err := metrics.NewWriter(out, "tuning")
	if err != nil {
		return err
	}
	if err := writer.WriteGenerations(records); err != nil {
		return err
	}
	population := t.Population()
	candidates := make([]metrics.CandidateRecord, len(population))
	for i, c := range population {
		candidates[i] = metrics.CandidateRecord{
			Rank:      i + 1,
			Height:    c.Weights.Height,
			Lines:     c.Weights.Lines,
			Holes:     c.Weights.Holes,
			Bumpiness: c.Weights.Bumpiness,
			Fitness:   c.Fitness,
		}
	}
	if err := writer.WritePopulation(candidates); err != nil {
		return err
	}
	log.Info().Msgf("stored tuning run in %s", writer.Dir())
	return nil
}

func runGame(seed uint64, maxMoves int, remote string, render bool) error {
	var agent engine.Agent = searcher.NewSearcher(searcher.DefaultWeights())
	if remote != "" {
		agent = engine.NewRemoteAgent(remote)
	}
	session := gamemaster.NewLocalEngine(game.NewBag(rand.New(rand.NewSource(seed)), meta.COLUMNS))
	gm := gamemaster.NewGameMaster(session, agent, maxMoves)
	if render {
		gm.OnUpdate = func(u gamemaster.Update) {
			fmt.Printf("move %d, lines %d\n%s\n", u.State.Moves, u.State.Lines, u.State.Board)
		}
	}

	state, err := gm.RunGame()
	if err != nil {
		return err
	}
	log.Info().Msgf("Game finished with %d lines in %d moves (seed %d)", state.Lines, state.Moves, seed)
	return nil
}
