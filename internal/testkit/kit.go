package testkit

import (
	"math/rand"

	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
)

// ExperimentConfig configures the experiment data generator
type ExperimentConfig struct {
	Participants    int
	Conditions      []string
	Effects         []float64 // per-condition shift on top of the participant baseline
	BaselineMean    float64
	BaselineSpread  float64 // between-participant spread
	Noise           float64 // within-cell noise
	SubjectColumn   string
	ConditionColumn string
	ValueColumn     string
	Seed            int64
}

// DefaultExperimentConfig returns sensible defaults for experiment data generation
func DefaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Participants:    12,
		Conditions:      []string{"S", "M", "L"},
		Effects:         []float64{0, 1, 3},
		BaselineMean:    10,
		BaselineSpread:  2,
		Noise:           0.8,
		SubjectColumn:   "participant",
		ConditionColumn: "size",
		ValueColumn:     "score",
		Seed:            42, // Fixed seed for reproducibility
	}
}

// ExperimentGenerator generates within-subject experiment data where every
// participant is measured once per condition
type ExperimentGenerator struct {
	config ExperimentConfig
	rng    *rand.Rand
}

// NewExperimentGenerator creates a new experiment data generator
func NewExperimentGenerator(config ExperimentConfig) *ExperimentGenerator {
	return &ExperimentGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a long-format dataset with one row per participant and
// condition. Each participant draws an individual baseline, each cell adds the
// condition effect plus noise, so condition differences survive the
// between-participant spread.
func (g *ExperimentGenerator) Generate() (*frame.Frame, error) {
	c := g.config
	if c.Participants < 1 {
		return nil, errors.ConfigInvalid("participant count must be at least 1")
	}
	if len(c.Conditions) == 0 {
		return nil, errors.ConfigInvalid("at least one condition is required")
	}
	if len(c.Effects) != len(c.Conditions) {
		return nil, errors.ConfigInvalid("effects must match conditions one to one")
	}

	f := frame.New(c.SubjectColumn, c.ConditionColumn, c.ValueColumn)
	for p := 0; p < c.Participants; p++ {
		baseline := c.BaselineMean + g.rng.NormFloat64()*c.BaselineSpread
		for i, condition := range c.Conditions {
			score := baseline + c.Effects[i] + g.rng.NormFloat64()*c.Noise
			err := f.Append(
				frame.Num(float64(p+1)),
				frame.Str(condition),
				frame.Num(score),
			)
			if err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
