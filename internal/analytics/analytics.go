// Package analytics derives dashboard summary statistics from a payment
// snapshot. Computation is a pure function of its input; the throughput
// figures come from a pluggable load indicator so tests stay deterministic.
package analytics

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/natnael/payops/internal/domain"
)

// LoadIndicator supplies the simulated instantaneous-throughput figures
// surfaced on the dashboard. There is no real measurement basis for these
// values; implementations decide how they are produced.
type LoadIndicator interface {
	Sample() (current, max float64)
}

// SimulatedIndicator produces a pseudo-random load sample per call.
type SimulatedIndicator struct {
	mu  sync.Mutex
	rng *rand.Rand
	max float64
}

// NewSimulatedIndicator builds an indicator seeded for reproducibility. A
// zero seed falls back to the wall clock.
func NewSimulatedIndicator(seed int64) *SimulatedIndicator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatedIndicator{
		rng: rand.New(rand.NewSource(seed)),
		max: 2.0,
	}
}

// Sample returns a current value in [0.5, 3.5) rounded to two decimals.
func (s *SimulatedIndicator) Sample() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := float64(s.rng.Intn(2)) + 0.5 + s.rng.Float64()
	return math.Round(current*100) / 100, s.max
}

// FixedIndicator always reports the same load sample.
type FixedIndicator struct {
	Current float64
	Max     float64
}

func (f FixedIndicator) Sample() (float64, float64) {
	return f.Current, f.Max
}

// Compute aggregates status counts and the mean processing time over the
// provided snapshot. The average covers COMPLETED payments only and is
// exactly 0 when none exist.
func Compute(payments []domain.Payment, indicator LoadIndicator) domain.AnalyticsSnapshot {
	snapshot := domain.AnalyticsSnapshot{
		TotalPayments: len(payments),
	}

	var processingSum int64
	for _, p := range payments {
		switch p.Status {
		case domain.StatusCompleted:
			snapshot.CompletedCount++
			if p.ProcessingTime != nil {
				processingSum += *p.ProcessingTime
			}
		case domain.StatusFailed:
			snapshot.FailedCount++
		case domain.StatusPending:
			snapshot.PendingCount++
		case domain.StatusInProgress:
			snapshot.InProgressCount++
		}
	}

	if snapshot.CompletedCount > 0 {
		snapshot.AverageProcessingTime = float64(processingSum) / float64(snapshot.CompletedCount)
	}

	if indicator != nil {
		snapshot.CurrentTPS, snapshot.MaxTPS = indicator.Sample()
	}
	return snapshot
}
