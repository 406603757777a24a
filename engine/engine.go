package engine

import "tetris/game"

// Agent chooses where the first pending piece goes. A nil piece means there is
// no legal placement left.
type Agent interface {
	BestMove(board *game.Board, pieces []*game.Piece) *game.Piece
}
