package searcher

import (
	"errors"
	"math"
	"tetris/game"
	"tetris/meta"
)

var ErrDegenerateWeights = errors.New("weights have zero norm")

// Weights is a linear heuristic over the four board features.
type Weights struct {
	Height    float64 `json:"heightWeight"`
	Lines     float64 `json:"linesWeight"`
	Holes     float64 `json:"holesWeight"`
	Bumpiness float64 `json:"bumpinessWeight"`
}

// DefaultWeights returns the weights of a previous tuning run.
func DefaultWeights() Weights {
	return Weights{
		Height:    meta.HEIGHT_WEIGHT,
		Lines:     meta.LINES_WEIGHT,
		Holes:     meta.HOLES_WEIGHT,
		Bumpiness: meta.BUMPINESS_WEIGHT,
	}
}

func (w Weights) Norm() float64 {
	return math.Sqrt(w.Height*w.Height + w.Lines*w.Lines + w.Holes*w.Holes + w.Bumpiness*w.Bumpiness)
}

// Normalize scales the weights to unit Euclidean norm.
func (w Weights) Normalize() (Weights, error) {
	norm := w.Norm()
	if norm == 0 {
		return w, ErrDegenerateWeights
	}
	return Weights{
		Height:    w.Height / norm,
		Lines:     w.Lines / norm,
		Holes:     w.Holes / norm,
		Bumpiness: w.Bumpiness / norm,
	}, nil
}

func (w Weights) IsFinite() bool {
	for _, v := range [...]float64{w.Height, w.Lines, w.Holes, w.Bumpiness} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Evaluate scores a board's features, higher is better.
func (w Weights) Evaluate(f game.Features) float64 {
	return w.Height*float64(f.AggregateHeight) +
		w.Lines*float64(f.CompleteLines) +
		w.Holes*float64(f.Holes) +
		w.Bumpiness*float64(f.Bumpiness)
}
