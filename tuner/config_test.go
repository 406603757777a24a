package tuner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	t.Run("scaling tournament and offspring to small populations", func(t *testing.T) {
		c := ConfigForPopulation(4)
		require.NoError(t, c.Validate())
		require.Equal(t, 2, c.TournamentSize)
		require.Equal(t, 1, c.Offspring)

		c = ConfigForPopulation(100)
		require.Equal(t, 10, c.TournamentSize)
		require.Equal(t, 30, c.Offspring)
	})

	tests := []struct {
		name   string
		modify func(c *Config)
		err    error
	}{
		{"a single candidate", func(c *Config) { c.PopulationSize = 1 }, ErrPopulationTooSmall},
		{"a tournament of one", func(c *Config) { c.TournamentSize = 1 }, ErrTournamentSize},
		{"a tournament larger than the population", func(c *Config) { c.TournamentSize = c.PopulationSize + 1 }, ErrTournamentSize},
		{"a negative mutation rate", func(c *Config) { c.MutationRate = -0.1 }, ErrMutationRate},
		{"a mutation rate above one", func(c *Config) { c.MutationRate = 1.5 }, ErrMutationRate},
		{"an infinite mutation step", func(c *Config) { c.MutationStep = math.Inf(1) }, ErrMutationRate},
		{"no offspring", func(c *Config) { c.Offspring = 0 }, ErrOffspringCount},
		{"more offspring than candidates", func(c *Config) { c.Offspring = c.PopulationSize + 1 }, ErrOffspringCount},
		{"no games", func(c *Config) { c.GamesPerCandidate = 0 }, ErrGamesPerCandidate},
		{"no moves", func(c *Config) { c.MaxMovesPerGame = 0 }, ErrMaxMoves},
		{"no stopping condition", func(c *Config) { c.Generations, c.Patience = 0, 0 }, ErrGenerations},
	}
	for _, tt := range tests {
		t.Run("rejecting "+tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			require.ErrorIs(t, c.Validate(), tt.err)
		})
	}

	t.Run("accepting boundary mutation rates", func(t *testing.T) {
		c := DefaultConfig()
		c.MutationRate = 0
		require.NoError(t, c.Validate())
		c.MutationRate = 1
		require.NoError(t, c.Validate())
	})
}
