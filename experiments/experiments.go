package experiments

import (
	"fmt"
	"tetris/engine"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/meta"
	"tetris/searcher"
	"tetris/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const NumGames = 20 // Per agent

var weightConfigs = []metrics.AgentConfig{
	{ID: 1, Name: "tuned", Height: meta.HEIGHT_WEIGHT, Lines: meta.LINES_WEIGHT, Holes: meta.HOLES_WEIGHT, Bumpiness: meta.BUMPINESS_WEIGHT, Lookahead: meta.LOOKAHEAD},
	{ID: 2, Name: "height_only", Height: -1, Lookahead: meta.LOOKAHEAD},
	{ID: 3, Name: "holes_only", Holes: -1, Lookahead: meta.LOOKAHEAD},
	{ID: 4, Name: "no_lines", Height: -0.5, Holes: -0.8, Bumpiness: -0.3, Lookahead: meta.LOOKAHEAD},
}

// RunWeightsExperiment compares the tuned weights against hand-picked ones.
func RunWeightsExperiment(root string, seed uint64) error {
	_, err := RunComparison("weights", root, weightConfigs, NumGames, meta.MAX_MOVES, seed)
	return err
}

// RunComparison plays games with every agent on the same piece sequences and
// stores the configs and game records under root/name.
func RunComparison(name, root string, configs []metrics.AgentConfig, games, maxMoves int, seed uint64) ([]metrics.GameRecord, error) {
	rng := rand.New(rand.NewSource(seed))
	seeds := make([]uint64, games)
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}

	count := 0
	gameRecords := []metrics.GameRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting agent %d of %d: %+v...", ci+1, len(configs), config)

		lines := make([]int, 0, games)
		for i, s := range seeds {
			gameMetric := runGame(config, s, maxMoves)
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				GameMetric: gameMetric,
			})
			lines = append(lines, gameMetric.Lines)

			log.Debug().Msgf("completed agent %d game %d of %d with %d lines in %d moves", config.ID, i+1, games, gameMetric.Lines, gameMetric.Moves)
		}
		log.Info().Msgf("completed agent %s with %.1f lines per game", config.Name, utils.Mean(lines))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return gameRecords, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return gameRecords, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return gameRecords, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msgf("stored game records in %s", writer.Dir())

	return gameRecords, nil
}

// runGame plays a single game on the default board.
func runGame(config metrics.AgentConfig, seed uint64, maxMoves int) metrics.GameMetric {
	agent := createSearcher(config)
	source := game.NewBag(rand.New(rand.NewSource(seed)), meta.COLUMNS)
	e := engine.LocalEngine(agent, source, game.NewBoard(meta.ROWS, meta.COLUMNS), maxMoves)
	if config.Lookahead > 0 {
		e.Lookahead = config.Lookahead
	}

	gameMetric := e.Run()
	gameMetric.Seed = seed
	return gameMetric
}

func createSearcher(config metrics.AgentConfig) *searcher.Searcher {
	weights := searcher.Weights{
		Height:    config.Height,
		Lines:     config.Lines,
		Holes:     config.Holes,
		Bumpiness: config.Bumpiness,
	}
	return searcher.NewSearcher(weights, searcher.WithMetrics())
}
