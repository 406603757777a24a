// meta/meta.go
package meta

// ROWS is the board height, including the spawn buffer.
const ROWS = 22

// COLUMNS is the board width.
const COLUMNS = 10

// SPAWN_ROWS is the number of hidden rows at the top of the board. Any block left
// in them ends the game.
const SPAWN_ROWS = 2

// LOOKAHEAD is the number of pieces the searcher sees (current + next).
const LOOKAHEAD = 2

// MAX_MOVES caps a simulated game.
const MAX_MOVES = 500

// GAMES_PER_CANDIDATE is the number of games played to score one candidate.
const GAMES_PER_CANDIDATE = 5

// Weights found by a previous tuning run, in height, lines, holes, bumpiness order.
const (
	HEIGHT_WEIGHT    = -0.4790820241086245
	LINES_WEIGHT     = 0.3964888767434276
	HOLES_WEIGHT     = -0.7460483825589502
	BUMPINESS_WEIGHT = -0.23809408996422596
)

// Genetic tuning defaults.
const (
	POPULATION_SIZE = 100
	GENERATIONS     = 25
	PATIENCE        = 5
	SELECTION_RATE  = 0.1 // Tournament size as a share of the population
	MUTATION_RATE   = 0.05
	MUTATION_STEP   = 0.2
	DELETION_RATE   = 0.3 // Share of the population replaced each generation
)

// MAX_LOOKAHEAD bounds the pieces a served search may look at.
const MAX_LOOKAHEAD = 3

// MAX_REQUEST_BYTES bounds a served search request body.
const MAX_REQUEST_BYTES = 1 << 20
