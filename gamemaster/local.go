package gamemaster

import (
	"errors"
	"fmt"
	"tetris/game"
	"tetris/meta"

	"github.com/rs/zerolog/log"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrIllegalMove = errors.New("illegal move")
)

// State is a snapshot of a session. Boards and pieces are copies.
type State struct {
	Board  *game.Board
	Pieces []*game.Piece // Current piece first, then the preview
	Lines  int
	Moves  int
	Over   bool
}

type Update struct {
	Piece   *game.Piece
	Cleared int
	State   State
}

// UpdateGetter returns the latest update and false when none is pending.
type UpdateGetter func() (Update, bool)

type Engine interface {
	Init() (State, UpdateGetter)
	Play(*game.Piece) error
}

type localEngine struct {
	board    *game.Board
	source   game.Source
	window   []*game.Piece
	lines    int
	moves    int
	updateCh chan Update
	gameOver bool
}

func NewLocalEngine(source game.Source) *localEngine {
	return NewLocalEngineWithBoard(source, game.NewBoard(meta.ROWS, meta.COLUMNS))
}

func NewLocalEngineWithBoard(source game.Source, board *game.Board) *localEngine {
	if source == nil || board == nil {
		panic("session needs a piece source and a board")
	}
	return &localEngine{board: board, source: source}
}

func (e *localEngine) Init() (State, UpdateGetter) {
	e.window = make([]*game.Piece, 0, meta.LOOKAHEAD)
	for len(e.window) < meta.LOOKAHEAD {
		e.window = append(e.window, e.source.Next())
	}
	e.lines, e.moves = 0, 0
	e.gameOver = e.board.HasExceededTop()
	e.updateCh = make(chan Update, 1)

	return e.snapshot(), func() (Update, bool) {
		select {
		case u := <-e.updateCh:
			return u, true
		default:
			return Update{}, false
		}
	}
}

// Play locks piece into the board. The piece must have the current shape and
// rest on the stack or the floor at a valid position.
func (e *localEngine) Play(piece *game.Piece) error {
	if e.gameOver {
		return ErrGameOver
	}
	if e.updateCh == nil {
		return fmt.Errorf("%w: session not initialized", ErrIllegalMove)
	}
	if piece == nil {
		return fmt.Errorf("%w: no piece", ErrIllegalMove)
	}

	current := e.window[0]
	if piece.Shape() != current.Shape() {
		return fmt.Errorf("%w: expected %v, got %v", ErrIllegalMove, current.Shape(), piece.Shape())
	}
	if !e.board.IsValid(piece) {
		return fmt.Errorf("%w: %v overlaps the stack at row %d column %d", ErrIllegalMove, piece.Shape(), piece.Row(), piece.Column())
	}
	if piece.CanMoveDown(e.board) {
		return fmt.Errorf("%w: %v is not resting at row %d column %d", ErrIllegalMove, piece.Shape(), piece.Row(), piece.Column())
	}

	placed := piece.Clone()
	e.board.AddPiece(placed)
	cleared := e.board.ClearCompleteLines()
	e.lines += cleared
	e.moves++
	e.window = append(e.window[1:], e.source.Next())

	if e.board.HasExceededTop() {
		e.gameOver = true
		log.Info().Msgf("Game over after %d moves with %d lines", e.moves, e.lines)
	}

	u := Update{Piece: placed.Clone(), Cleared: cleared, State: e.snapshot()}
	select { // Keep only the latest update
	case <-e.updateCh:
	default:
	}
	e.updateCh <- u
	return nil
}

// Resign ends the session when no legal placement exists.
func (e *localEngine) Resign() {
	e.gameOver = true
}

func (e *localEngine) snapshot() State {
	pieces := make([]*game.Piece, len(e.window))
	for i, p := range e.window {
		pieces[i] = p.Clone()
	}
	return State{
		Board:  e.board.Clone(),
		Pieces: pieces,
		Lines:  e.lines,
		Moves:  e.moves,
		Over:   e.gameOver,
	}
}
