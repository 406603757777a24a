package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewPiece(t *testing.T) {
	t.Run("centering each shape over a 10 column board", func(t *testing.T) {
		expected := map[Shape]int{O: 4, J: 3, L: 3, Z: 3, S: 3, T: 3, I: 3}
		for shape, column := range expected {
			p := NewPiece(shape, 10)
			require.Equal(t, column, p.Column(), "%s should spawn centered", shape)
			require.Equal(t, 0, p.Row(), "%s should spawn on row 0", shape)
			require.Len(t, p.Cells(), 4, "%s should have four blocks", shape)
		}
	})

	t.Run("the O piece occupies columns 4 and 5", func(t *testing.T) {
		p := NewPiece(O, 10)
		require.ElementsMatch(t, []Cell{{0, 4}, {0, 5}, {1, 4}, {1, 5}}, p.Cells())
	})

	t.Run("panics on an unknown shape", func(t *testing.T) {
		require.Panics(t, func() { NewPiece(Shape(7), 10) })
	})
}

func TestPieceMove(t *testing.T) {
	t.Run("moving within bounds", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(T, 10)
		require.True(t, p.MoveLeft(b))
		require.True(t, p.MoveDown(b))
		require.True(t, p.MoveRight(b))
		require.Equal(t, 1, p.Row())
		require.Equal(t, 3, p.Column())
	})

	t.Run("blocked moves leave the piece unmoved", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(O, 10)
		for p.MoveLeft(b) {
		}
		require.Equal(t, 0, p.Column())
		require.False(t, p.CanMoveLeft(b))
		require.False(t, p.Move(b, 0, -1))
		require.Equal(t, 0, p.Column(), "Failed move should not change the anchor")
	})

	t.Run("dropping onto the stack", func(t *testing.T) {
		b := NewBoard(22, 10)
		fillRow(b, 21)
		p := NewPiece(O, 10)
		require.Equal(t, 19, p.Drop(b))
		require.Equal(t, 19, p.Row())
		require.False(t, p.CanMoveDown(b))
	})
}

func TestPieceRotate(t *testing.T) {
	t.Run("rotating a T piece clockwise", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(T, 10)
		require.True(t, p.Rotate(b))
		require.Equal(t, [][]int{
			{0, 6, 0},
			{0, 6, 6},
			{0, 6, 0},
		}, p.Matrix())
		require.Equal(t, 1, p.Rotation())
	})

	t.Run("four rotations return to the spawn matrix", func(t *testing.T) {
		b := NewBoard(22, 10)
		for _, shape := range Shapes {
			p := NewPiece(shape, 10)
			spawn := p.Matrix()
			for i := 0; i < 4; i++ {
				require.True(t, p.Rotate(b))
			}
			require.Equal(t, spawn, p.Matrix(), "%s should be back at spawn orientation", shape)
			require.Equal(t, 0, p.Rotation())
		}
	})

	t.Run("rejected rotation leaves the piece untouched", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(I, 10)
		// Vertical I against the left wall, rotating back to horizontal would overlap
		require.True(t, p.Rotate(b))
		for p.MoveLeft(b) {
		}
		p.Drop(b)
		before := p.Clone()

		require.False(t, p.Rotate(b), "Rotation into the wall should be rejected")
		require.Equal(t, before.Matrix(), p.Matrix())
		require.Equal(t, before.Row(), p.Row())
		require.Equal(t, before.Column(), p.Column())
		require.Equal(t, before.Rotation(), p.Rotation())
	})

	t.Run("rotation blocked by the stack", func(t *testing.T) {
		b := NewBoard(22, 10)
		p := NewPiece(J, 10)
		require.True(t, p.Move(b, 5, 0))
		before := p.Matrix()
		b.Set(p.Row()+2, p.Column()+1, 1)
		require.False(t, p.Rotate(b))
		require.Equal(t, before, p.Matrix())
	})
}

func TestPieceClone(t *testing.T) {
	b := NewBoard(22, 10)
	p := NewPiece(L, 10)
	clone := p.Clone()
	clone.Rotate(b)
	clone.MoveDown(b)

	require.Equal(t, NewPiece(L, 10).Matrix(), p.Matrix(), "Clone should not share its matrix")
	require.Equal(t, 0, p.Row(), "Clone should not share its position")
	require.Equal(t, 0, p.Rotation())
}

func TestParseShape(t *testing.T) {
	for _, shape := range Shapes {
		got, err := ParseShape(shape.String())
		require.NoError(t, err)
		require.Equal(t, shape, got)
	}
	_, err := ParseShape("X")
	require.Error(t, err)
}

func TestBag(t *testing.T) {
	t.Run("dealing every shape once per cycle", func(t *testing.T) {
		bag := NewBag(rand.New(rand.NewSource(7)), 10)
		for cycle := 0; cycle < 5; cycle++ {
			seen := map[Shape]int{}
			for i := 0; i < len(Shapes); i++ {
				seen[bag.Next().Shape()]++
			}
			require.Len(t, seen, len(Shapes), "Cycle %d should contain every shape", cycle)
		}
	})

	t.Run("same seed deals the same sequence", func(t *testing.T) {
		bag1 := NewBag(rand.New(rand.NewSource(42)), 10)
		bag2 := NewBag(rand.New(rand.NewSource(42)), 10)
		for i := 0; i < 21; i++ {
			require.Equal(t, bag1.Next().Shape(), bag2.Next().Shape())
		}
	})
}

func TestPlacePiece(t *testing.T) {
	b := NewBoard(22, 10)
	p := NewPiece(L, 10)
	require.True(t, p.Rotate(b))
	require.True(t, p.Rotate(b))
	p.Drop(b)

	placed := PlacePiece(L, 2, p.Row(), p.Column())

	require.Equal(t, p.Matrix(), placed.Matrix(), "Rotation count should rebuild the same matrix")
	require.Equal(t, p.Cells(), placed.Cells())
	require.Equal(t, 2, placed.Rotation())
	require.Equal(t, 1, PlacePiece(T, -3, 0, 0).Rotation(), "Negative turns wrap around")
}
