package metrics

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "comparison")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())
	require.Equal(t, filepath.Join(root, "comparison"), filepath.Dir(w.Dir()))

	t.Run("writing agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{{ID: 1, Name: "tuned", Height: -0.5, Lines: 0.25, Lookahead: 2}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "tuned", "-0.5", "0.25", "0", "0", "2"}, rows[1])
	})

	t.Run("writing game records", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		record := GameRecord{ID: 3, Agent: 1, GameMetric: GameMetric{
			Seed: 99, Lines: 12, Moves: 40, ToppedOut: true,
			StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second,
			SearchMetric: SearchMetric{Searches: 40, Leaves: 1000},
		}}
		failed := GameRecord{ID: 4, Agent: 1, GameMetric: GameMetric{Err: errors.New("agent returned status 500")}}
		require.NoError(t, w.WriteGameRecords([]GameRecord{record, failed}))

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, "error", rows[0][11])
		require.Empty(t, rows[1][11])
		require.Equal(t, "agent returned status 500", rows[2][11])
		require.Equal(t, "false", rows[2][5], "Failed games are not topped out")
		require.Equal(t, "id", rows[0][0])
		require.Equal(t, []string{"3", "1", "99", "12", "40", "true", "40", "1000"}, rows[1][:8])
		require.Equal(t, "1s", rows[1][10])
	})

	t.Run("writing generations", func(t *testing.T) {
		require.NoError(t, w.WriteGenerations([]GenerationRecord{{Generation: 0, BestFitness: 7}, {Generation: 1, BestFitness: 9, Patience: 1}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "generations.csv"))
		require.Len(t, rows, 3, "Header plus one row per generation")
		require.Equal(t, "9", rows[2][1])
		require.Equal(t, "1", rows[2][3])
	})

	t.Run("writing the population as json", func(t *testing.T) {
		population := []CandidateRecord{{Rank: 1, Height: -0.5, Fitness: 20}, {Rank: 2, Lines: 1}}
		require.NoError(t, w.WritePopulation(population))

		data, err := os.ReadFile(filepath.Join(w.Dir(), "population.json"))
		require.NoError(t, err)
		var got []CandidateRecord
		require.NoError(t, json.Unmarshal(data, &got))
		require.Equal(t, population, got)
		require.Contains(t, string(data), `"heightWeight": -0.5`)
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.AddSearch(time.Millisecond)
	c.AddSearch(2 * time.Millisecond)
	c.AddLeaf()

	got := c.Complete()
	require.Equal(t, 2, got.Searches)
	require.Equal(t, 1, got.Leaves)
	require.Equal(t, 3*time.Millisecond, got.Duration)

	require.Zero(t, NewDummyCollector().Complete())
}
