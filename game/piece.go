package game

import (
	"fmt"
	"tetris/utils"
)

// Shape identifies one of the seven tetrominoes.
type Shape int

const (
	O Shape = iota
	J
	L
	Z
	S
	T
	I
)

// Shapes lists every tetromino in bag order.
var Shapes = []Shape{O, J, L, Z, S, T, I}

var shapeNames = []string{"O", "J", "L", "Z", "S", "T", "I"}

// Spawn matrices. Cell values are the shape id plus one so that a stamped block
// is never zero.
var shapeMatrices = [][][]int{
	O: {
		{1, 1},
		{1, 1},
	},
	J: {
		{2, 0, 0},
		{2, 2, 2},
		{0, 0, 0},
	},
	L: {
		{0, 0, 3},
		{3, 3, 3},
		{0, 0, 0},
	},
	Z: {
		{4, 4, 0},
		{0, 4, 4},
		{0, 0, 0},
	},
	S: {
		{0, 5, 5},
		{5, 5, 0},
		{0, 0, 0},
	},
	T: {
		{0, 6, 0},
		{6, 6, 6},
		{0, 0, 0},
	},
	I: {
		{0, 0, 0, 0},
		{7, 7, 7, 7},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	},
}

func (s Shape) String() string {
	if s < O || s > I {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape maps a single-letter name back to its shape.
func ParseShape(name string) (Shape, error) {
	i := utils.FindIndex(shapeNames, name)
	if i < 0 {
		return 0, fmt.Errorf("unknown shape %q", name)
	}
	return Shape(i), nil
}

// Cell is an absolute board coordinate.
type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Piece is a square occupancy matrix anchored at (row, column), the board
// coordinate of the matrix's top-left cell.
type Piece struct {
	shape    Shape
	matrix   [][]int
	row      int
	column   int
	rotation int // Quarter turns applied since spawn, mod 4
}

// MinColumns is the narrowest board every shape fits on in every rotation.
const MinColumns = 4

// NewPiece spawns shape centered over a board of the given width with its
// matrix's top row on board row 0.
func NewPiece(shape Shape, columns int) *Piece {
	if shape < O || shape > I {
		panic(fmt.Sprintf("invalid shape %d", int(shape)))
	}
	matrix := copyMatrix(shapeMatrices[shape])
	return &Piece{
		shape:  shape,
		matrix: matrix,
		row:    0,
		column: (columns - len(matrix)) / 2,
	}
}

// PlacePiece builds shape turned rotation quarter turns clockwise and anchored
// at (row, column), without checking it against any board.
func PlacePiece(shape Shape, rotation, row, column int) *Piece {
	p := NewPiece(shape, 0)
	for i := 0; i < ((rotation%4)+4)%4; i++ {
		p.matrix = rotateClockwise(p.matrix)
	}
	p.rotation = ((rotation % 4) + 4) % 4
	p.row = row
	p.column = column
	return p
}

func (p *Piece) Shape() Shape    { return p.shape }
func (p *Piece) Row() int        { return p.row }
func (p *Piece) Column() int     { return p.column }
func (p *Piece) Rotation() int   { return p.rotation }
func (p *Piece) Size() int       { return len(p.matrix) }
func (p *Piece) Matrix() [][]int { return copyMatrix(p.matrix) }

// Clone returns a copy that shares no state with p.
func (p *Piece) Clone() *Piece {
	return &Piece{
		shape:    p.shape,
		matrix:   copyMatrix(p.matrix),
		row:      p.row,
		column:   p.column,
		rotation: p.rotation,
	}
}

// Cells returns the absolute coordinates of the piece's blocks.
func (p *Piece) Cells() []Cell {
	cells := make([]Cell, 0, 4)
	for r, row := range p.matrix {
		for c, cell := range row {
			if cell != 0 {
				cells = append(cells, Cell{Row: p.row + r, Column: p.column + c})
			}
		}
	}
	return cells
}

func (p *Piece) CanMove(board *Board, dRow, dColumn int) bool {
	return board.fits(p.matrix, p.row+dRow, p.column+dColumn)
}

// Move translates the piece if the destination is valid and reports whether it moved.
func (p *Piece) Move(board *Board, dRow, dColumn int) bool {
	if !p.CanMove(board, dRow, dColumn) {
		return false
	}
	p.row += dRow
	p.column += dColumn
	return true
}

func (p *Piece) CanMoveLeft(board *Board) bool  { return p.CanMove(board, 0, -1) }
func (p *Piece) CanMoveRight(board *Board) bool { return p.CanMove(board, 0, 1) }
func (p *Piece) CanMoveDown(board *Board) bool  { return p.CanMove(board, 1, 0) }

func (p *Piece) MoveLeft(board *Board) bool  { return p.Move(board, 0, -1) }
func (p *Piece) MoveRight(board *Board) bool { return p.Move(board, 0, 1) }
func (p *Piece) MoveDown(board *Board) bool  { return p.Move(board, 1, 0) }

// Drop moves the piece down until it rests and returns the distance travelled.
func (p *Piece) Drop(board *Board) int {
	distance := 0
	for p.MoveDown(board) {
		distance++
	}
	return distance
}

// Rotate turns the piece a quarter turn clockwise in place. If the rotated
// matrix does not fit at the same anchor the piece is left untouched.
func (p *Piece) Rotate(board *Board) bool {
	rotated := rotateClockwise(p.matrix)
	if !board.fits(rotated, p.row, p.column) {
		return false
	}
	p.matrix = rotated
	p.rotation = (p.rotation + 1) % 4
	return true
}

// rotateClockwise transposes the matrix and reverses each row.
func rotateClockwise(matrix [][]int) [][]int {
	n := len(matrix)
	rotated := make([][]int, n)
	for r := range rotated {
		rotated[r] = make([]int, n)
		for c := range rotated[r] {
			rotated[r][c] = matrix[n-1-c][r]
		}
	}
	return rotated
}

func copyMatrix(matrix [][]int) [][]int {
	out := make([][]int, len(matrix))
	for r, row := range matrix {
		out[r] = append([]int(nil), row...)
	}
	return out
}
