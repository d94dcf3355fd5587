// Package monitoring collects per-operation latency and failure counts.
package monitoring

import (
	"sort"
	"sync"
	"time"

	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Summary aggregates the observations for one (paradigm, kind) pair.
type Summary struct {
	Paradigm  paradigm.Paradigm `json:"paradigm"`
	Kind      string            `json:"kind"`
	Count     int64             `json:"count"`
	Failures  int64             `json:"failures"`
	MinMs     float64           `json:"minMs"`
	MaxMs     float64           `json:"maxMs"`
	AvgMs     float64           `json:"avgMs"`
	TotalMs   float64           `json:"totalMs"`
	LastRunAt time.Time         `json:"lastRunAt"`
}

type series struct {
	count    int64
	failures int64
	min      time.Duration
	max      time.Duration
	total    time.Duration
	lastRun  time.Time
}

type seriesKey struct {
	paradigm paradigm.Paradigm
	kind     string
}

// Tracker records operation outcomes, keyed by paradigm and operation kind.
// Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	series map[seriesKey]*series
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{series: make(map[seriesKey]*series)}
}

// Record adds one observation.
func (t *Tracker) Record(p paradigm.Paradigm, kind string, d time.Duration, failed bool) {
	key := seriesKey{paradigm: p, kind: kind}

	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.series[key]
	if !ok {
		s = &series{min: d, max: d}
		t.series[key] = s
	}
	s.count++
	if failed {
		s.failures++
	}
	s.total += d
	if d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.lastRun = time.Now()
}

// Summaries returns one summary per observed (paradigm, kind) pair, ordered
// by paradigm then kind.
func (t *Tracker) Summaries() []Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Summary, 0, len(t.series))
	for key, s := range t.series {
		out = append(out, Summary{
			Paradigm:  key.paradigm,
			Kind:      key.kind,
			Count:     s.count,
			Failures:  s.failures,
			MinMs:     ms(s.min),
			MaxMs:     ms(s.max),
			AvgMs:     ms(s.total) / float64(s.count),
			TotalMs:   ms(s.total),
			LastRunAt: s.lastRun,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Paradigm != out[j].Paradigm {
			return out[i].Paradigm < out[j].Paradigm
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Reset discards all recorded observations.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.series = make(map[seriesKey]*series)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
