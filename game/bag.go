package game

import "golang.org/x/exp/rand"

// Source supplies the pieces of a game in order.
type Source interface {
	Next() *Piece
}

// Bag deals the seven shapes in a random order, reshuffling after each full cycle.
type Bag struct {
	rng     *rand.Rand
	columns int
	bag     []Shape
	index   int
}

func NewBag(rng *rand.Rand, columns int) *Bag {
	b := &Bag{
		rng:     rng,
		columns: columns,
		bag:     append([]Shape(nil), Shapes...),
		index:   -1,
	}
	b.shuffle()
	return b
}

func (b *Bag) Next() *Piece {
	b.index++
	if b.index >= len(b.bag) {
		b.index = 0
		b.shuffle()
	}
	return NewPiece(b.bag[b.index], b.columns)
}

func (b *Bag) shuffle() {
	b.rng.Shuffle(len(b.bag), func(i, j int) {
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	})
}
