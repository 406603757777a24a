package game

import (
	"errors"
	"strings"
	"tetris/meta"
)

var ErrInvalidCells = errors.New("cells must form a non-empty rectangle")

// Board is a rows x columns grid of cells. A zero cell is empty, any other value
// is occupied (the value identifies the shape that filled it).
type Board struct {
	rows      int
	columns   int
	spawnRows int
	cells     []int // Row-major
}

// Features holds the four heuristic inputs measured on a board.
type Features struct {
	AggregateHeight int
	CompleteLines   int
	Holes           int
	Bumpiness       int
}

func NewBoard(rows, columns int) *Board {
	if rows <= 0 || columns <= 0 {
		panic("board dimensions must be positive")
	}
	return &Board{
		rows:      rows,
		columns:   columns,
		spawnRows: min(meta.SPAWN_ROWS, rows),
		cells:     make([]int, rows*columns),
	}
}

// NewBoardFromCells copies a grid given as rows of cells.
func NewBoardFromCells(cells [][]int) (*Board, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrInvalidCells
	}
	b := NewBoard(len(cells), len(cells[0]))
	for r, row := range cells {
		if len(row) != b.columns {
			return nil, ErrInvalidCells
		}
		copy(b.row(r), row)
	}
	return b, nil
}

func (b *Board) Rows() int    { return b.rows }
func (b *Board) Columns() int { return b.columns }

func (b *Board) At(row, column int) int {
	return b.cells[row*b.columns+column]
}

func (b *Board) Set(row, column, value int) {
	b.cells[row*b.columns+column] = value
}

// Cells returns a copy of the grid as rows of cells.
func (b *Board) Cells() [][]int {
	out := make([][]int, b.rows)
	for r := range out {
		out[r] = append([]int(nil), b.row(r)...)
	}
	return out
}

func (b *Board) row(r int) []int {
	return b.cells[r*b.columns : (r+1)*b.columns]
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]int, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rows:      b.rows,
		columns:   b.columns,
		spawnRows: b.spawnRows,
		cells:     cells,
	}
}

// IsValid reports whether every block of p lies inside the board and on an
// empty cell. Blocks above row 0 are only checked against the side walls.
func (b *Board) IsValid(p *Piece) bool {
	return b.fits(p.matrix, p.row, p.column)
}

func (b *Board) fits(matrix [][]int, row, column int) bool {
	for r, cells := range matrix {
		for c, cell := range cells {
			if cell == 0 {
				continue
			}
			y, x := row+r, column+c
			if x < 0 || x >= b.columns || y >= b.rows {
				return false
			}
			if y < 0 { // Spawn buffer above the board
				continue
			}
			if b.cells[y*b.columns+x] != 0 {
				return false
			}
		}
	}
	return true
}

// AddPiece stamps the blocks of p onto the board. Blocks above row 0 are dropped.
func (b *Board) AddPiece(p *Piece) {
	b.stamp(p, true)
}

// RemovePiece clears the cells covered by the blocks of p.
func (b *Board) RemovePiece(p *Piece) {
	b.stamp(p, false)
}

func (b *Board) stamp(p *Piece, fill bool) {
	for r, cells := range p.matrix {
		for c, cell := range cells {
			if cell == 0 {
				continue
			}
			y, x := p.row+r, p.column+c
			if y < 0 || y >= b.rows || x < 0 || x >= b.columns {
				continue
			}
			if fill {
				b.cells[y*b.columns+x] = cell
			} else {
				b.cells[y*b.columns+x] = 0
			}
		}
	}
}

// ClearCompleteLines removes every full row, shifts the rows above it down and
// returns the number of rows removed.
func (b *Board) ClearCompleteLines() int {
	cleared := 0
	for r := b.rows - 1; r >= 0; r-- {
		if b.isRowFull(r) {
			cleared++
			continue
		}
		if cleared > 0 {
			copy(b.row(r+cleared), b.row(r))
		}
	}
	for r := 0; r < cleared; r++ {
		clear(b.row(r))
	}
	return cleared
}

// HasExceededTop reports whether any block sits in the spawn buffer.
func (b *Board) HasExceededTop() bool {
	for r := 0; r < b.spawnRows; r++ {
		if !b.isRowEmpty(r) {
			return true
		}
	}
	return false
}

func (b *Board) isRowFull(r int) bool {
	for _, cell := range b.row(r) {
		if cell == 0 {
			return false
		}
	}
	return true
}

func (b *Board) isRowEmpty(r int) bool {
	for _, cell := range b.row(r) {
		if cell != 0 {
			return false
		}
	}
	return true
}

// ColumnHeight is the distance from the floor to the highest block in column.
func (b *Board) ColumnHeight(column int) int {
	r := 0
	for r < b.rows && b.cells[r*b.columns+column] == 0 {
		r++
	}
	return b.rows - r
}

func (b *Board) AggregateHeight() int {
	total := 0
	for c := 0; c < b.columns; c++ {
		total += b.ColumnHeight(c)
	}
	return total
}

// CompleteLines counts full rows without clearing them.
func (b *Board) CompleteLines() int {
	count := 0
	for r := 0; r < b.rows; r++ {
		if b.isRowFull(r) {
			count++
		}
	}
	return count
}

// Holes counts empty cells that have a block somewhere above them.
func (b *Board) Holes() int {
	holes := 0
	for c := 0; c < b.columns; c++ {
		covered := false
		for r := 0; r < b.rows; r++ {
			if b.cells[r*b.columns+c] != 0 {
				covered = true
			} else if covered {
				holes++
			}
		}
	}
	return holes
}

func (b *Board) Bumpiness() int {
	total := 0
	for c := 0; c < b.columns-1; c++ {
		total += abs(b.ColumnHeight(c) - b.ColumnHeight(c+1))
	}
	return total
}

// Features measures all four heuristic inputs in a single pass over the columns.
func (b *Board) Features() Features {
	var f Features
	previous := -1
	for c := 0; c < b.columns; c++ {
		height := 0
		covered := false
		for r := 0; r < b.rows; r++ {
			if b.cells[r*b.columns+c] != 0 {
				if !covered {
					height = b.rows - r
					covered = true
				}
			} else if covered {
				f.Holes++
			}
		}
		f.AggregateHeight += height
		if previous >= 0 {
			f.Bumpiness += abs(height - previous)
		}
		previous = height
	}
	f.CompleteLines = b.CompleteLines()
	return f
}

// String renders the visible part of the board, below the spawn buffer.
func (b *Board) String() string {
	var sb strings.Builder
	for r := b.spawnRows; r < b.rows; r++ {
		sb.WriteString("|")
		for _, cell := range b.row(r) {
			if cell == 0 {
				sb.WriteString(" .")
			} else {
				sb.WriteString("[]")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("--", b.columns) + "+\n")
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
