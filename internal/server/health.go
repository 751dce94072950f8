package server

import (
	"context"
	"time"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) HealthReport
}

// HealthReport summarises liveness details for the health endpoint.
type HealthReport struct {
	Payments int
	Uptime   time.Duration
}

// StoreHealthService reports store size and process uptime. The store lives
// entirely in process memory, so there is no external dependency to probe.
type StoreHealthService struct {
	Store   interface{ Len() int }
	Started time.Time
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(context.Context) HealthReport {
	report := HealthReport{Uptime: time.Since(s.Started)}
	if s.Store != nil {
		report.Payments = s.Store.Len()
	}
	return report
}
