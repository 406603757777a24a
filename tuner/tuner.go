package tuner

import (
	"fmt"
	"tetris/game"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type State int

const (
	Idle State = iota
	PopulationInitialized
	FitnessEvaluating
	Sorted
	Evolving
	Converged
	ExhaustedGenerations
)

var stateNames = [...]string{"idle", "population initialized", "fitness evaluating", "sorted", "evolving", "converged", "exhausted generations"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Done reports whether the run has stopped.
func (s State) Done() bool {
	return s == Converged || s == ExhaustedGenerations
}

// GenerationStats describes the population after a fitness pass. Generation 0
// is the initial population.
type GenerationStats struct {
	Generation     int
	BestFitness    float64
	AverageFitness float64
	Patience       int
	Best           Candidate
	Timestamp      time.Time
	Duration       time.Duration
}

type Option func(t *Tuner)

func WithSeed(seed uint64) Option {
	return func(t *Tuner) {
		t.seed = seed
	}
}

// WithWorkers sets the number of games simulated in parallel.
func WithWorkers(workers int) Option {
	return func(t *Tuner) {
		if workers > 0 {
			t.evaluator.Workers = workers
		}
	}
}

func WithSourceFactory(sources SourceFactory) Option {
	return func(t *Tuner) {
		t.evaluator.Sources = sources
	}
}

func WithBoardSize(rows, columns int) Option {
	return func(t *Tuner) {
		t.evaluator.Rows = rows
		t.evaluator.Columns = columns
	}
}

func WithOnGeneration(callback func(GenerationStats)) Option {
	return func(t *Tuner) {
		t.onGeneration = callback
	}
}

// Tuner evolves heuristic weights with a steady-state genetic algorithm.
type Tuner struct {
	config       Config
	seed         uint64
	rng          *rand.Rand
	evaluator    *Evaluator
	population   Population
	state        State
	generation   int
	patience     int
	bestAverage  float64
	stats        []GenerationStats
	onGeneration func(GenerationStats)
}

func NewTuner(config Config, options ...Option) (*Tuner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuner config: %w", err)
	}
	t := &Tuner{
		config:    config,
		seed:      uint64(time.Now().UnixNano()),
		evaluator: NewEvaluator(config.GamesPerCandidate, config.MaxMovesPerGame),
	}
	for _, option := range options {
		option(t)
	}
	if t.evaluator.Sources == nil {
		return nil, fmt.Errorf("invalid tuner config: no piece source")
	}
	if t.evaluator.Rows <= 0 || t.evaluator.Columns < game.MinColumns {
		return nil, fmt.Errorf("invalid tuner config: board %dx%d", t.evaluator.Rows, t.evaluator.Columns)
	}
	t.rng = rand.New(rand.NewSource(t.seed))
	return t, nil
}

// Initialize draws, scores and sorts the initial population.
func (t *Tuner) Initialize() error {
	if t.state != Idle {
		return fmt.Errorf("tuner already initialized, state %v", t.state)
	}
	start := time.Now()
	log.Info().Msgf("Initializing population of %d candidates (seed %d)", t.config.PopulationSize, t.seed)

	t.population = NewRandomPopulation(t.config.PopulationSize, t.rng)
	t.state = PopulationInitialized

	t.state = FitnessEvaluating
	t.evaluator.Evaluate(t.population, t.rng)
	t.population.Sort()
	t.state = Sorted

	t.bestAverage = t.population.AverageFitness()
	t.record(start)
	return nil
}

// Step breeds one generation of offspring, scores them and replaces the
// weakest candidates. It returns false once the run has stopped.
func (t *Tuner) Step() bool {
	if t.state.Done() {
		return false
	}
	if t.state == Idle {
		if err := t.Initialize(); err != nil {
			panic(err)
		}
	}
	start := time.Now()

	t.state = Evolving
	offspring := make([]*Candidate, t.config.Offspring)
	for i := range offspring {
		parent1, parent2 := TournamentSelection(t.population, t.config.TournamentSize, t.rng)
		child, err := Crossover(parent1, parent2)
		if err != nil {
			log.Debug().Msgf("Replacing degenerate child: %v", err)
			child = NewRandomCandidate(t.rng)
		}
		Mutate(child, t.config.MutationRate, t.config.MutationStep, t.rng)
		offspring[i] = child
	}

	t.state = FitnessEvaluating
	t.evaluator.Evaluate(offspring, t.rng)
	t.population.ReplaceWeakest(offspring)
	t.state = Sorted
	t.generation++

	average := t.population.AverageFitness()
	if average > t.bestAverage {
		t.bestAverage = average
		t.patience = 0
	} else {
		t.patience++
	}
	t.record(start)

	switch {
	case t.config.Patience > 0 && t.patience > t.config.Patience:
		t.state = Converged
		log.Info().Msgf("Converged after %d generations without improvement", t.patience)
	case t.config.Generations > 0 && t.generation >= t.config.Generations:
		t.state = ExhaustedGenerations
		log.Info().Msgf("Reached generation cap %d", t.config.Generations)
	}
	return !t.state.Done()
}

// Run initializes if needed and steps until the run stops. It returns the
// fittest candidate.
func (t *Tuner) Run() Candidate {
	if t.state == Idle {
		if err := t.Initialize(); err != nil {
			panic(err)
		}
	}
	for t.Step() {
	}
	best := t.Best()
	log.Info().Msgf("Best candidate after %d generations: %v", t.generation, &best)
	return best
}

func (t *Tuner) record(start time.Time) {
	best := t.population.Best()
	stats := GenerationStats{
		Generation:     t.generation,
		BestFitness:    best.Fitness,
		AverageFitness: t.population.AverageFitness(),
		Patience:       t.patience,
		Best:           *best,
		Timestamp:      time.Now(),
		Duration:       time.Since(start),
	}
	t.stats = append(t.stats, stats)
	log.Info().Msgf("Generation %d: best %.0f, average %.2f, patience %d/%d",
		stats.Generation, stats.BestFitness, stats.AverageFitness, stats.Patience, t.config.Patience)
	if t.onGeneration != nil {
		t.onGeneration(stats)
	}
}

func (t *Tuner) State() State    { return t.state }
func (t *Tuner) Generation() int { return t.generation }
func (t *Tuner) Patience() int   { return t.patience }
func (t *Tuner) Config() Config  { return t.config }
func (t *Tuner) Seed() uint64    { return t.seed }

// Best returns a copy of the fittest candidate, the zero Candidate before
// initialization.
func (t *Tuner) Best() Candidate {
	if best := t.population.Best(); best != nil {
		return *best
	}
	return Candidate{}
}

// Population returns a copy of the sorted population.
func (t *Tuner) Population() Population {
	return t.population.Clone()
}

func (t *Tuner) Stats() []GenerationStats {
	return append([]GenerationStats(nil), t.stats...)
}
