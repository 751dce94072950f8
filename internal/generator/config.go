package generator

// Config drives the synthetic payment generator.
type Config struct {
	Count int
	Seed  int64
}

// DefaultConfig returns the baseline dataset settings used to seed the
// dashboard at startup.
func DefaultConfig() Config {
	return Config{
		Count: 25,
		Seed:  42,
	}
}
