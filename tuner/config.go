package tuner

import (
	"errors"
	"fmt"
	"math"
	"tetris/meta"
)

var (
	ErrPopulationTooSmall = errors.New("population must hold at least 2 candidates")
	ErrTournamentSize     = errors.New("tournament size must be between 2 and the population size")
	ErrMutationRate       = errors.New("mutation rate must be in [0, 1] and mutation step finite and non-negative")
	ErrOffspringCount     = errors.New("offspring count must be between 1 and the population size")
	ErrGamesPerCandidate  = errors.New("games per candidate must be positive")
	ErrMaxMoves           = errors.New("max moves per game must be positive")
	ErrGenerations        = errors.New("invalid generation cap or patience")
)

// Config holds the parameters of a tuning run.
type Config struct {
	PopulationSize    int
	Generations       int     // Generation cap (0 = stop on patience only)
	Patience          int     // Generations without average improvement tolerated (0 = disabled)
	TournamentSize    int     // Candidates drawn per tournament
	MutationRate      float64 // Probability that a weight is perturbed
	MutationStep      float64 // Perturbation drawn from [-MutationStep, MutationStep]
	Offspring         int     // Weakest candidates replaced each generation
	GamesPerCandidate int
	MaxMovesPerGame   int
}

func DefaultConfig() Config {
	return ConfigForPopulation(meta.POPULATION_SIZE)
}

// ConfigForPopulation scales tournament and offspring sizes to populationSize.
func ConfigForPopulation(populationSize int) Config {
	return Config{
		PopulationSize:    populationSize,
		Generations:       meta.GENERATIONS,
		Patience:          meta.PATIENCE,
		TournamentSize:    max(2, int(math.Floor(meta.SELECTION_RATE*float64(populationSize)))),
		MutationRate:      meta.MUTATION_RATE,
		MutationStep:      meta.MUTATION_STEP,
		Offspring:         max(1, int(math.Floor(meta.DELETION_RATE*float64(populationSize)))),
		GamesPerCandidate: meta.GAMES_PER_CANDIDATE,
		MaxMovesPerGame:   meta.MAX_MOVES,
	}
}

func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("%w: got %d", ErrPopulationTooSmall, c.PopulationSize)
	}
	if c.TournamentSize < 2 || c.TournamentSize > c.PopulationSize {
		return fmt.Errorf("%w: got %d for %d candidates", ErrTournamentSize, c.TournamentSize, c.PopulationSize)
	}
	if math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: rate %v", ErrMutationRate, c.MutationRate)
	}
	if math.IsNaN(c.MutationStep) || math.IsInf(c.MutationStep, 0) || c.MutationStep < 0 {
		return fmt.Errorf("%w: step %v", ErrMutationRate, c.MutationStep)
	}
	if c.Offspring < 1 || c.Offspring > c.PopulationSize {
		return fmt.Errorf("%w: got %d for %d candidates", ErrOffspringCount, c.Offspring, c.PopulationSize)
	}
	if c.GamesPerCandidate < 1 {
		return fmt.Errorf("%w: got %d", ErrGamesPerCandidate, c.GamesPerCandidate)
	}
	if c.MaxMovesPerGame < 1 {
		return fmt.Errorf("%w: got %d", ErrMaxMoves, c.MaxMovesPerGame)
	}
	if c.Generations < 0 || c.Patience < 0 {
		return fmt.Errorf("%w: generations %d, patience %d", ErrGenerations, c.Generations, c.Patience)
	}
	if c.Generations == 0 && c.Patience == 0 {
		return fmt.Errorf("%w: a generation cap or a patience is required", ErrGenerations)
	}
	return nil
}
