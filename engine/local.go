package engine

import (
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/meta"
	"time"
)

type Engine struct {
	Board     *game.Board
	Agent     Agent
	Source    game.Source
	MaxMoves  int
	Lookahead int
}

type searchReporter interface {
	Metrics() metrics.SearchMetric
}

type errorReporter interface {
	LastError() error
}

func LocalEngine(agent Agent, source game.Source, board *game.Board, maxMoves int) *Engine {
	if agent == nil || source == nil || board == nil {
		panic("engine needs an agent, a piece source and a board")
	}
	if maxMoves <= 0 {
		panic("max moves must be positive")
	}
	return &Engine{
		Board:     board,
		Agent:     agent,
		Source:    source,
		MaxMoves:  maxMoves,
		Lookahead: meta.LOOKAHEAD,
	}
}

// Play runs a single game on a fresh board of the default size.
func Play(agent Agent, source game.Source, maxMoves int) metrics.GameMetric {
	board := game.NewBoard(meta.ROWS, meta.COLUMNS)
	return LocalEngine(agent, source, board, maxMoves).Run()
}

// Run places pieces until the board overflows, the agent finds no placement or
// MaxMoves pieces have been placed. Lines is the total number of rows cleared.
// An agent failure ends the game with Err set instead of ToppedOut.
func (e *Engine) Run() metrics.GameMetric {
	record := metrics.GameMetric{StartTime: time.Now()}

	window := make([]*game.Piece, 0, e.Lookahead)
	for len(window) < e.Lookahead {
		window = append(window, e.Source.Next())
	}

	for record.Moves < e.MaxMoves && !e.Board.HasExceededTop() {
		piece := e.Agent.BestMove(e.Board, window)
		if piece == nil {
			if reporter, ok := e.Agent.(errorReporter); ok && reporter.LastError() != nil {
				record.Err = reporter.LastError()
				break
			}
			record.ToppedOut = true // Unplayable board
			break
		}

		piece.Drop(e.Board)
		e.Board.AddPiece(piece)
		record.Lines += e.Board.ClearCompleteLines()
		record.Moves++

		window = append(window[1:], e.Source.Next())
	}

	if e.Board.HasExceededTop() {
		record.ToppedOut = true
	}
	if reporter, ok := e.Agent.(searchReporter); ok {
		record.SearchMetric = reporter.Metrics()
	}
	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(record.StartTime)
	return record
}
