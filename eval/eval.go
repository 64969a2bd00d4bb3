// Package eval aggregates derived run states across repeated runs for
// statistical evaluation. It is strictly read-only over the event log: it
// derives and summarizes, and never appends.
package eval

import (
	"time"

	"github.com/martinemde/runloop/runlog"
)

// Stats summarizes a batch of runs.
type Stats struct {
	Runs           int           `json:"runs"`
	Completed      int           `json:"completed"`
	Failed         int           `json:"failed"`
	SuccessRate    float64       `json:"success_rate"`
	MeanIterations float64       `json:"mean_iterations"`
	MeanCalls      float64       `json:"mean_calls"`
	MeanDuration   time.Duration `json:"mean_duration"`
}

// Aggregate folds a batch of derived run states into Stats.
func Aggregate(states []runlog.RunState) Stats {
	stats := Stats{Runs: len(states)}
	if len(states) == 0 {
		return stats
	}

	var iterations, calls int
	var duration time.Duration
	for _, state := range states {
		switch state.Status {
		case runlog.StatusCompleted:
			stats.Completed++
		case runlog.StatusFailed:
			stats.Failed++
		}
		iterations += state.Iterations
		calls += state.TotalCalls()
		duration += state.Duration
	}

	n := float64(len(states))
	stats.SuccessRate = float64(stats.Completed) / n
	stats.MeanIterations = float64(iterations) / n
	stats.MeanCalls = float64(calls) / n
	stats.MeanDuration = time.Duration(float64(duration) / n)
	return stats
}

// Collect derives each log and aggregates the results.
func Collect(logs []*runlog.Log) Stats {
	states := make([]runlog.RunState, 0, len(logs))
	for _, log := range logs {
		states = append(states, log.Derive())
	}
	return Aggregate(states)
}
