package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fillRow occupies every cell of row except the given gaps.
func fillRow(b *Board, row int, gaps ...int) {
	for c := 0; c < b.Columns(); c++ {
		b.Set(row, c, 9)
	}
	for _, c := range gaps {
		b.Set(row, c, 0)
	}
}

func TestBoardIsValid(t *testing.T) {
	t.Run("accepting a spawned piece on an empty board", func(t *testing.T) {
		b := NewBoard(22, 10)
		for _, shape := range Shapes {
			require.True(t, b.IsValid(NewPiece(shape, 10)), "Spawned %s should be valid", shape)
		}
	})

	t.Run("rejecting blocks outside the side walls", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(O, 10)
		p.column = -1
		require.False(t, b.IsValid(p), "Block left of column 0 should be invalid")
		p.column = 9
		require.False(t, b.IsValid(p), "Block right of the last column should be invalid")
	})

	t.Run("rejecting blocks below the floor", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(O, 10)
		p.row = 21
		require.False(t, b.IsValid(p), "Block below the last row should be invalid")
		p.row = 20
		require.True(t, b.IsValid(p), "Piece resting on the floor should be valid")
	})

	t.Run("rejecting overlap with occupied cells", func(t *testing.T) {
		b := NewBoard(22, 10)
		b.Set(1, 4, 1)
		require.False(t, b.IsValid(NewPiece(O, 10)), "Overlapping block should be invalid")
	})

	t.Run("accepting blocks above the top row", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(I, 10)
		p.Rotate(b)
		p.row = -2
		require.True(t, b.IsValid(p), "Blocks in the buffer above row 0 should not be bounds checked")
		p.column = -3
		require.False(t, b.IsValid(p), "Blocks above row 0 are still checked against the walls")
	})
}

func TestBoardAddRemovePiece(t *testing.T) {
	t.Run("removing an added piece restores the board", func(t *testing.T) {
		b := NewBoard(22, 10)
		fillRow(b, 21, 3)
		before := b.Cells()
		for _, shape := range Shapes {
			p := NewPiece(shape, 10)
			p.Drop(b)
			b.AddPiece(p)
			require.NotEqual(t, before, b.Cells(), "Adding %s should change the board", shape)
			b.RemovePiece(p)
			require.Equal(t, before, b.Cells(), "Removing %s should restore the board", shape)
		}
	})

	t.Run("stamping the shape value", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(T, 10)
		b.AddPiece(p)
		for _, cell := range p.Cells() {
			require.Equal(t, int(T)+1, b.At(cell.Row, cell.Column))
		}
	})
}

func TestBoardClearCompleteLines(t *testing.T) {
	t.Run("clearing a single full row", func(t *testing.T) {
		b := NewBoard(22, 10)
		fillRow(b, 21)
		b.Set(20, 0, 5)
		b.Set(19, 9, 6)

		require.Equal(t, 1, b.ClearCompleteLines())
		require.Equal(t, 5, b.At(21, 0), "Rows above should shift down by one")
		require.Equal(t, 6, b.At(20, 9), "Rows above should shift down by one")
		for c := 1; c < 10; c++ {
			require.Equal(t, 0, b.At(21, c), "Cleared row should be empty apart from shifted blocks")
		}
		for c := 0; c < 10; c++ {
			require.Equal(t, 0, b.At(0, c), "A new empty row should appear at the top")
		}
	})

	t.Run("clearing non adjacent rows keeps relative order", func(t *testing.T) {
		b := NewBoard(6, 4)
		fillRow(b, 5)
		fillRow(b, 4, 1)
		fillRow(b, 3)
		fillRow(b, 2, 0, 2)

		require.Equal(t, 2, b.ClearCompleteLines())
		require.Equal(t, []int{9, 0, 9, 9}, b.Cells()[5])
		require.Equal(t, []int{0, 9, 0, 9}, b.Cells()[4])
		require.Equal(t, []int{0, 0, 0, 0}, b.Cells()[3])
		require.Equal(t, 0, b.CompleteLines())
	})

	t.Run("no full rows", func(t *testing.T) {
		b := NewBoard(22, 10)
		fillRow(b, 21, 0)
		before := b.Cells()
		require.Equal(t, 0, b.ClearCompleteLines())
		require.Equal(t, before, b.Cells())
	})
}

func TestBoardHasExceededTop(t *testing.T) {
	b := NewBoard(22, 10)
	require.False(t, b.HasExceededTop())

	b.Set(2, 0, 1)
	require.False(t, b.HasExceededTop(), "Row 2 is visible, not part of the spawn buffer")

	b.Set(1, 5, 1)
	require.True(t, b.HasExceededTop(), "A block in the spawn buffer ends the game")
}

func TestBoardFeatures(t *testing.T) {
	// Columns 0..3 of a 5 row board:
	// . . . .
	// . X . .
	// X . . .
	// X X . X
	// X X X X   <- complete
	b := NewBoard(5, 4)
	b.Set(1, 1, 1)
	b.Set(2, 0, 1)
	fillRow(b, 3, 2)
	fillRow(b, 4)

	require.Equal(t, 3, b.ColumnHeight(0))
	require.Equal(t, 4, b.ColumnHeight(1))
	require.Equal(t, 1, b.ColumnHeight(2))
	require.Equal(t, 2, b.ColumnHeight(3))

	require.Equal(t, 10, b.AggregateHeight())
	require.Equal(t, 1, b.CompleteLines())
	require.Equal(t, 1, b.Holes(), "Only the gap under column 1's top block is a hole")
	require.Equal(t, 1+3+1, b.Bumpiness())

	require.Equal(t, Features{AggregateHeight: 10, CompleteLines: 1, Holes: 1, Bumpiness: 5}, b.Features(),
		"Single pass features should match the individual measures")
}

func TestBoardClone(t *testing.T) {
	b := NewBoard(22, 10)
	b.Set(21, 0, 1)
	clone := b.Clone()
	clone.Set(21, 1, 1)
	clone.AddPiece(NewPiece(O, 10))

	require.Equal(t, 0, b.At(21, 1), "Clone should not share cells with the original")
	require.Equal(t, 0, b.At(0, 4), "Clone should not share cells with the original")
	require.Equal(t, 1, clone.At(21, 0))
}

func TestNewBoardFromCells(t *testing.T) {
	t.Run("copying a rectangular grid", func(t *testing.T) {
		cells := [][]int{{0, 1}, {1, 1}}
		b, err := NewBoardFromCells(cells)
		require.NoError(t, err)
		require.Equal(t, cells, b.Cells())
		cells[0][0] = 7
		require.Equal(t, 0, b.At(0, 0), "Board should copy its input")
	})

	t.Run("rejecting ragged rows", func(t *testing.T) {
		_, err := NewBoardFromCells([][]int{{0, 1}, {1}})
		require.ErrorIs(t, err, ErrInvalidCells)
	})

	t.Run("rejecting an empty grid", func(t *testing.T) {
		_, err := NewBoardFromCells(nil)
		require.ErrorIs(t, err, ErrInvalidCells)
	})
}

func TestBoardString(t *testing.T) {
	b := NewBoard(4, 3)
	b.Set(3, 1, 1)
	require.Equal(t, "| . . .|\n| .[] .|\n+------+\n", b.String(), "Spawn rows should be hidden")
}
