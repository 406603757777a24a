package tuner

import (
	"runtime"
	"sync"
	"tetris/engine"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/meta"
	"tetris/searcher"

	"golang.org/x/exp/rand"
)

// SourceFactory builds the piece source of one game from its seed.
type SourceFactory func(seed uint64, columns int) game.Source

func BagSource(seed uint64, columns int) game.Source {
	return game.NewBag(rand.New(rand.NewSource(seed)), columns)
}

// Evaluator scores candidates by simulating games on a pool of workers.
type Evaluator struct {
	GamesPerCandidate int
	MaxMoves          int
	Workers           int
	Rows              int
	Columns           int
	Sources           SourceFactory
}

type evaluationTask struct {
	candidate int
	game      int
	seed      uint64
}

type evaluationResult struct {
	evaluationTask
	record metrics.GameMetric
}

func NewEvaluator(gamesPerCandidate, maxMoves int) *Evaluator {
	if gamesPerCandidate <= 0 || maxMoves <= 0 {
		panic("games per candidate and max moves must be positive")
	}
	return &Evaluator{
		GamesPerCandidate: gamesPerCandidate,
		MaxMoves:          maxMoves,
		Workers:           runtime.NumCPU(),
		Rows:              meta.ROWS,
		Columns:           meta.COLUMNS,
		Sources:           BagSource,
	}
}

// Evaluate sets each candidate's fitness to the lines it clears over
// GamesPerCandidate games. Game seeds are drawn from rng up front so the result
// does not depend on scheduling. Records are ordered by candidate then game.
func (e *Evaluator) Evaluate(candidates []*Candidate, rng *rand.Rand) []metrics.GameMetric {
	total := len(candidates) * e.GamesPerCandidate
	if total == 0 {
		return nil
	}

	tasks := make(chan evaluationTask, total)
	for c := range candidates {
		for g := 0; g < e.GamesPerCandidate; g++ {
			tasks <- evaluationTask{candidate: c, game: g, seed: rng.Uint64()}
		}
	}
	close(tasks)

	results := make(chan evaluationResult, total)
	var wg sync.WaitGroup
	for i := 0; i < max(1, min(e.Workers, total)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results <- evaluationResult{task, e.play(candidates[task.candidate].Weights, task.seed)}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]metrics.GameMetric, total)
	for result := range results {
		records[result.candidate*e.GamesPerCandidate+result.game] = result.record
	}

	for c, candidate := range candidates {
		fitness := 0
		for _, record := range records[c*e.GamesPerCandidate : (c+1)*e.GamesPerCandidate] {
			fitness += record.Lines
		}
		candidate.Fitness = float64(fitness)
	}
	return records
}

func (e *Evaluator) play(weights searcher.Weights, seed uint64) metrics.GameMetric {
	agent := searcher.NewSearcher(weights, searcher.WithMetrics())
	board := game.NewBoard(e.Rows, e.Columns)
	record := engine.LocalEngine(agent, e.Sources(seed, e.Columns), board, e.MaxMoves).Run()
	record.Seed = seed
	return record
}
