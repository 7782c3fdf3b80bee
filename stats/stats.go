package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance over pushed values, plus the
// extremes seen so far.
type Statistic struct {
	totalIterations int
	last            float64
	min, max        float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min, s.max = val, val
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 { return s.last }
func (s *Statistic) Min() float64  { return s.min }
func (s *Statistic) Max() float64  { return s.max }

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

// ZVal is the two-sided critical value of the standard normal at the
// given confidence percentage (0 to 100).
func ZVal(pct float64) float64 {
	return distuv.UnitNormal.Quantile((1 + pct/100) / 2)
}

// ConfidenceInterval returns the bounds of the two-sided interval around
// the mean at the given confidence percentage (e.g. 95).
func (s *Statistic) ConfidenceInterval(pct float64) (float64, float64) {
	d := ZVal(pct) * s.StandardError()
	return s.Mean() - d, s.Mean() + d
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

// Quantiles returns the empirical quantiles of vals at each p in ps. vals
// is not modified.
func Quantiles(vals []float64, ps ...float64) []float64 {
	out := make([]float64, len(ps))
	if len(vals) == 0 {
		return out
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	for i, p := range ps {
		out[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return out
}
