package grouping

import "time"

// ScoreWeights tunes how formation ranks suggestions.
type ScoreWeights struct {
	DogCount    float64 // W1, reward per packed dog
	Distance    float64 // W2, penalty per metre of average member distance to centroid
	WindowSlack float64 // W3, penalty per minute the shared window lost
}

// Config holds the hard constraints and scoring weights shared by every engine component.
type Config struct {
	MaxDogsPerGroup      int
	MaxGroupRadiusMeters float64
	TimeWindowMinutes    int
	Weights              ScoreWeights
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxDogsPerGroup:      6,
		MaxGroupRadiusMeters: 2000,
		TimeWindowMinutes:    30,
		Weights: ScoreWeights{
			DogCount:    10,
			Distance:    1,
			WindowSlack: 0.5,
		},
	}
}

// Validate rejects configurations the engine cannot honour.
func (c Config) Validate() error {
	if c.MaxDogsPerGroup <= 0 {
		return newGroupingError(CodeInvalidConfig, "max dogs per group must be positive, got %d", c.MaxDogsPerGroup)
	}
	if c.MaxGroupRadiusMeters <= 0 {
		return newGroupingError(CodeInvalidConfig, "max group radius must be positive, got %.1f", c.MaxGroupRadiusMeters)
	}
	if c.TimeWindowMinutes <= 0 {
		return newGroupingError(CodeInvalidConfig, "time window must be positive, got %d", c.TimeWindowMinutes)
	}
	if c.Weights.DogCount < 0 || c.Weights.Distance < 0 || c.Weights.WindowSlack < 0 {
		return newGroupingError(CodeInvalidConfig, "score weights must not be negative")
	}
	return nil
}

func (c Config) timeWindow() time.Duration {
	return time.Duration(c.TimeWindowMinutes) * time.Minute
}

// halfWindow is how far a start may move either way and still be honoured.
func (c Config) halfWindow() time.Duration {
	return c.timeWindow() / 2
}
