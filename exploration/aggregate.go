package exploration

import (
	"github.com/montanaflynn/stats"
)

// Aggregate selects how a group's values fold into one bar height
type Aggregate int

const (
	AggregateMean Aggregate = iota
	AggregateMedian
)

func (a Aggregate) apply(values []float64) (float64, error) {
	if a == AggregateMedian {
		return stats.Median(values)
	}
	return stats.Mean(values)
}
