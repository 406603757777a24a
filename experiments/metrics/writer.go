package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes a searcher taking part in an experiment.
type AgentConfig struct {
	ID        int
	Name      string
	Height    float64
	Lines     float64
	Holes     float64
	Bumpiness float64
	Lookahead int
}

type GameRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	GameMetric
}

// GenerationRecord is one row of a tuning run's history. The weights are the
// fittest candidate's.
type GenerationRecord struct {
	Generation     int
	BestFitness    float64
	AverageFitness float64
	Patience       int
	Height         float64
	Lines          float64
	Holes          float64
	Bumpiness      float64
	Timestamp      time.Time
	Duration       time.Duration
}

type CandidateRecord struct {
	Rank      int     `json:"rank"`
	Height    float64 `json:"heightWeight"`
	Lines     float64 `json:"linesWeight"`
	Holes     float64 `json:"holesWeight"`
	Bumpiness float64 `json:"bumpinessWeight"`
	Fitness   float64 `json:"fitness"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> and writes every file there.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "name", "height", "lines", "holes", "bumpiness", "lookahead"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			formatFloat(config.Height),
			formatFloat(config.Lines),
			formatFloat(config.Holes),
			formatFloat(config.Bumpiness),
			strconv.Itoa(config.Lookahead),
		})
	}
	return w.writeCSV("agent_configs.csv", "agent config", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent", "seed", "lines", "moves", "topped_out", "searches", "leaves", "start_time", "end_time", "duration", "error"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		failure := ""
		if record.Err != nil {
			failure = record.Err.Error()
		}
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Lines),
			strconv.Itoa(record.Moves),
			strconv.FormatBool(record.ToppedOut),
			strconv.Itoa(record.Searches),
			strconv.Itoa(record.Leaves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			failure,
		})
	}
	return w.writeCSV("game_records.csv", "game record", header, rows)
}

func (w *Writer) WriteGenerations(records []GenerationRecord) error {
	header := []string{"generation", "best_fitness", "average_fitness", "patience", "height", "lines", "holes", "bumpiness", "timestamp", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Generation),
			formatFloat(record.BestFitness),
			formatFloat(record.AverageFitness),
			strconv.Itoa(record.Patience),
			formatFloat(record.Height),
			formatFloat(record.Lines),
			formatFloat(record.Holes),
			formatFloat(record.Bumpiness),
			record.Timestamp.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.writeCSV("generations.csv", "generation", header, rows)
}

// WritePopulation stores the ranked population as indented JSON.
func (w *Writer) WritePopulation(candidates []CandidateRecord) error {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode population: %w", err)
	}
	path := filepath.Join(w.baseDir, "population.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write population file: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(file, kind string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", kind, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", kind, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", kind, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s file: %w", kind, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
