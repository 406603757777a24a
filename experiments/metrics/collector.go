package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes the placement searches run by one searcher.
type SearchMetric struct {
	Searches int
	Leaves   int // Boards scored by the heuristic
	Duration time.Duration
}

// GameMetric summarizes one simulated game.
type GameMetric struct {
	Seed      uint64
	Lines     int
	Moves     int
	ToppedOut bool
	Err       error // Agent failure that ended the game early
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	SearchMetric
}

type Collector interface {
	AddSearch(duration time.Duration)
	AddLeaf()
	Complete() SearchMetric
}

type collector struct {
	searches atomic.Int64
	leaves   atomic.Int64
	duration atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) AddSearch(duration time.Duration) {
	m.searches.Add(1)
	m.duration.Add(int64(duration))
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Searches: int(m.searches.Load()),
		Leaves:   int(m.leaves.Load()),
		Duration: time.Duration(m.duration.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) AddSearch(duration time.Duration) {}
func (m *dummyCollector) AddLeaf()                          {}
func (m *dummyCollector) Complete() SearchMetric            { return SearchMetric{} }
