package domain

// AnalyticsSnapshot is a point-in-time summary derived from the full store
// contents. It is recomputed on demand and never persisted.
type AnalyticsSnapshot struct {
	TotalPayments         int
	CompletedCount        int
	FailedCount           int
	PendingCount          int
	InProgressCount       int
	AverageProcessingTime float64
	CurrentTPS            float64
	MaxTPS                float64
}
