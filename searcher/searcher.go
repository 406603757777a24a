package searcher

import (
	"math"
	"tetris/experiments/metrics"
	"tetris/game"
	"time"
)

type Option func(s *Searcher)

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

// Searcher picks placements that maximize the heuristic after the pending
// pieces have all been placed.
type Searcher struct {
	weights Weights
	metrics metrics.Collector
}

func NewSearcher(weights Weights, options ...Option) *Searcher {
	if !weights.IsFinite() {
		panic("weights must be finite")
	}
	s := &Searcher{ // Default values
		weights: weights,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Searcher) Weights() Weights {
	return s.weights
}

func (s *Searcher) Metrics() metrics.SearchMetric {
	return s.metrics.Complete()
}

// placement is the best branch found for one piece. found is false until a
// legal placement has been seen.
type placement struct {
	piece *game.Piece
	score float64
	found bool
}

// BestMove returns the first pending piece rotated and shifted to its best
// column, still at its spawn row, or nil if it has no legal placement. Neither
// the board nor the pending pieces are modified.
func (s *Searcher) BestMove(board *game.Board, pieces []*game.Piece) *game.Piece {
	if len(pieces) == 0 {
		panic("no pending pieces to place")
	}
	start := time.Now()
	best := s.search(board, pieces, 0)
	s.metrics.AddSearch(time.Since(start))
	if !best.found {
		return nil
	}
	return best.piece
}

func (s *Searcher) search(board *game.Board, pieces []*game.Piece, index int) placement {
	best := placement{score: math.Inf(-1)}
	last := index == len(pieces)-1

	for rotation := 0; rotation < 4; rotation++ {
		candidate := pieces[index].Clone()
		for i := 0; i < rotation; i++ {
			candidate.Rotate(board)
		}
		// Sweep from the leftmost reachable column to the right wall
		for candidate.MoveLeft(board) {
		}
		for dColumn := 0; candidate.Column()+dColumn < board.Columns(); dColumn++ {
			if !candidate.CanMove(board, 0, dColumn) {
				continue
			}
			shifted := candidate.Clone()
			shifted.Move(board, 0, dColumn)

			score := s.scoreBranch(board, shifted, pieces, index, last)
			if !best.found || score > best.score {
				best = placement{piece: shifted, score: score, found: true}
			}
		}
	}
	return best
}

// scoreBranch drops the piece on a copy of board and scores the result, either
// directly or by searching the remaining pieces.
func (s *Searcher) scoreBranch(board *game.Board, piece *game.Piece, pieces []*game.Piece, index int, last bool) float64 {
	dropped := piece.Clone()
	dropped.Drop(board)
	next := board.Clone()
	next.AddPiece(dropped)

	if last {
		s.metrics.AddLeaf()
		return s.weights.Evaluate(next.Features())
	}
	result := s.search(next, pieces, index+1)
	if !result.found { // Dead end for the following piece
		return math.Inf(-1)
	}
	return result.score
}
