package tuner

import (
	"tetris/utils"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Population is kept sorted by descending fitness after every evaluation.
type Population []*Candidate

func NewRandomPopulation(size int, rng *rand.Rand) Population {
	p := make(Population, size)
	for i := range p {
		p[i] = NewRandomCandidate(rng)
	}
	return p
}

func (p Population) Sort() {
	slices.SortStableFunc(p, func(a, b *Candidate) int {
		switch {
		case a.Fitness > b.Fitness:
			return -1
		case a.Fitness < b.Fitness:
			return 1
		}
		return 0
	})
}

// ReplaceWeakest overwrites the tail of the sorted population with offspring
// and re-sorts.
func (p Population) ReplaceWeakest(offspring []*Candidate) {
	if len(offspring) > len(p) {
		panic("more offspring than candidates")
	}
	copy(p[len(p)-len(offspring):], offspring)
	p.Sort()
}

func (p Population) AverageFitness() float64 {
	fitness := make([]float64, len(p))
	for i, c := range p {
		fitness[i] = c.Fitness
	}
	return utils.Mean(fitness)
}

// Best is the first candidate, nil for an empty population.
func (p Population) Best() *Candidate {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// Clone copies the candidates.
func (p Population) Clone() Population {
	clone := make(Population, len(p))
	for i, c := range p {
		copied := *c
		clone[i] = &copied
	}
	return clone
}

// TournamentSelection draws k distinct candidates and returns the two with the
// smallest indices, which are the fittest of a sorted population.
func TournamentSelection(p Population, k int, rng *rand.Rand) (*Candidate, *Candidate) {
	if k < 2 || k > len(p) {
		panic("tournament size must be between 2 and the population size")
	}
	first, second := -1, -1
	for _, idx := range rng.Perm(len(p))[:k] {
		if first == -1 || idx < first {
			first, second = idx, first
		} else if second == -1 || idx < second {
			second = idx
		}
	}
	return p[first], p[second]
}
