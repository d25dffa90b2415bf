// Package samples accumulates a scalar time series and computes the
// statistics used to judge it: mean, naive error and autocorrelation.
package samples

import (
	"math"
)

// Series is an append-only sequence of observations in insertion order.
// It is not safe for concurrent use.
type Series struct {
	data []float64
}

// New returns an empty series. capacityHint only pre-sizes storage; values
// below one are ignored.
func New(capacityHint int) *Series {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Series{data: make([]float64, 0, capacityHint)}
}

// FromValues returns a series holding a copy of values.
func FromValues(values []float64) *Series {
	s := New(len(values))
	s.data = append(s.data, values...)
	return s
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.data)
}

// Append adds v as the newest sample.
func (s *Series) Append(v float64) {
	s.data = append(s.data, v)
}

// RemoveLast drops the newest sample. It returns ErrUnderflow and leaves the
// series unchanged when there is nothing to remove.
func (s *Series) RemoveLast() error {
	if len(s.data) == 0 {
		return ErrUnderflow
	}
	s.data = s.data[:len(s.data)-1]
	return nil
}

// At returns sample i.
func (s *Series) At(i int) (float64, error) {
	if i < 0 || i >= len(s.data) {
		return 0, ErrOutOfRange
	}
	return s.data[i], nil
}

// Set overwrites sample i.
func (s *Series) Set(i int, v float64) error {
	if i < 0 || i >= len(s.data) {
		return ErrOutOfRange
	}
	s.data[i] = v
	return nil
}

// Values returns a copy of the samples.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.data))
	copy(out, s.data)
	return out
}

// Sum returns the sum of all samples, zero for an empty series.
func (s *Series) Sum() float64 {
	return s.SumFunc(identity)
}

// SumFunc returns the sum of f over every sample.
func (s *Series) SumFunc(f func(float64) float64) float64 {
	sum := 0.0
	for _, x := range s.data {
		sum += f(x)
	}
	return sum
}

// Mean returns the arithmetic mean.
func (s *Series) Mean() (float64, error) {
	if len(s.data) == 0 {
		return 0, ErrEmpty
	}
	return s.Sum() / float64(len(s.data)), nil
}

// SquareMean returns the mean of the squared samples.
func (s *Series) SquareMean() (float64, error) {
	if len(s.data) == 0 {
		return 0, ErrEmpty
	}
	return s.SumFunc(square) / float64(len(s.data)), nil
}

// Error returns the naive statistical error sqrt((<x²> - <x>²) / (N-1)).
//
// The estimate assumes independent samples and underestimates the error of
// a correlated series; check AutoCorrelation before relying on it. A
// radicand pushed below zero by round-off is clamped to zero.
func (s *Series) Error() (float64, error) {
	n := len(s.data)
	if n < 2 {
		return 0, ErrTooFewSamples
	}
	mean, _ := s.Mean()
	sqMean, _ := s.SquareMean()

	variance := sqMean - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance / float64(n-1)), nil
}

func identity(x float64) float64 { return x }

func square(x float64) float64 { return x * x }
