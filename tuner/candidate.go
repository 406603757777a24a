package tuner

import (
	"fmt"
	"tetris/searcher"

	"golang.org/x/exp/rand"
)

// crossoverBias keeps a zero-fitness parent from contributing nothing.
const crossoverBias = 1

// Candidate is one weight vector of the population and its latest fitness,
// the total number of lines cleared over its evaluation games.
type Candidate struct {
	Weights searcher.Weights `json:"weights"`
	Fitness float64          `json:"fitness"`
}

func (c *Candidate) String() string {
	return fmt.Sprintf("{height %.4f, lines %.4f, holes %.4f, bumpiness %.4f, fitness %.0f}",
		c.Weights.Height, c.Weights.Lines, c.Weights.Holes, c.Weights.Bumpiness, c.Fitness)
}

// NewRandomCandidate draws each weight uniformly from [-1, 1] and normalizes.
func NewRandomCandidate(rng *rand.Rand) *Candidate {
	for {
		w := searcher.Weights{
			Height:    uniform(rng, 1),
			Lines:     uniform(rng, 1),
			Holes:     uniform(rng, 1),
			Bumpiness: uniform(rng, 1),
		}
		if normalized, err := w.Normalize(); err == nil {
			return &Candidate{Weights: normalized}
		}
	}
}

// Crossover blends two parents weighted by fitness plus one. The child is
// normalized and unscored.
func Crossover(parent1, parent2 *Candidate) (*Candidate, error) {
	f1 := parent1.Fitness + crossoverBias
	f2 := parent2.Fitness + crossoverBias
	w1, w2 := parent1.Weights, parent2.Weights
	child, err := searcher.Weights{
		Height:    f1*w1.Height + f2*w2.Height,
		Lines:     f1*w1.Lines + f2*w2.Lines,
		Holes:     f1*w1.Holes + f2*w2.Holes,
		Bumpiness: f1*w1.Bumpiness + f2*w2.Bumpiness,
	}.Normalize()
	if err != nil {
		return nil, fmt.Errorf("failed to cross %v with %v: %w", parent1, parent2, err)
	}
	return &Candidate{Weights: child}, nil
}

// Mutate draws one perturbation from [-step, step] and adds it to each weight
// with probability rate, then normalizes. A mutation that cancels every weight
// is discarded.
func Mutate(c *Candidate, rate, step float64, rng *rand.Rand) {
	quantity := uniform(rng, step)
	w := c.Weights
	for _, v := range []*float64{&w.Height, &w.Lines, &w.Holes, &w.Bumpiness} {
		if rng.Float64() < rate {
			*v += quantity
		}
	}
	if normalized, err := w.Normalize(); err == nil {
		c.Weights = normalized
	}
}

// uniform returns a value in [-bound, bound).
func uniform(rng *rand.Rand, bound float64) float64 {
	return rng.Float64()*2*bound - bound
}
