package experiments

import (
	"tetris/experiments/metrics"
	"tetris/meta"

	"github.com/rs/zerolog/log"
)

// RunThroughputExperiment measures how the lookahead depth changes the number
// of boards scored per second.
func RunThroughputExperiment(root string, seed uint64) error {
	const NumGames = 3
	const MaxMoves = 100
	configs := []metrics.AgentConfig{}
	for depth := 1; depth <= 3; depth++ {
		configs = append(configs, metrics.AgentConfig{
			ID:        depth,
			Name:      "lookahead",
			Height:    meta.HEIGHT_WEIGHT,
			Lines:     meta.LINES_WEIGHT,
			Holes:     meta.HOLES_WEIGHT,
			Bumpiness: meta.BUMPINESS_WEIGHT,
			Lookahead: depth,
		})
	}

	records, err := RunComparison("throughput", root, configs, NumGames, MaxMoves, seed)
	if err != nil {
		return err
	}

	for _, config := range configs {
		throughput := Throughput(records, config.ID)
		log.Info().Msgf("lookahead %d: %.0f leaves/s, %.0f searches/s", config.Lookahead, throughput.LeavesPerSecond, throughput.SearchesPerSecond)
	}
	return nil
}

type ThroughputSummary struct {
	LeavesPerSecond   float64
	SearchesPerSecond float64
}

// Throughput aggregates the search metrics of one agent's games.
func Throughput(records []metrics.GameRecord, agent int) ThroughputSummary {
	var leaves, searches int
	var seconds float64
	for _, record := range records {
		if record.Agent != agent {
			continue
		}
		leaves += record.Leaves
		searches += record.Searches
		seconds += record.SearchMetric.Duration.Seconds()
	}
	if seconds == 0 {
		return ThroughputSummary{}
	}
	return ThroughputSummary{
		LeavesPerSecond:   float64(leaves) / seconds,
		SearchesPerSecond: float64(searches) / seconds,
	}
}
