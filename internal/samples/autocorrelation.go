package samples

// moments returns <x> and <x²> - <x>² over the whole series.
func (s *Series) moments() (mean, variance float64, err error) {
	n := len(s.data)
	if n == 0 {
		return 0, 0, ErrEmpty
	}
	sum, sumSq := 0.0, 0.0
	constant := true
	for _, x := range s.data {
		sum += x
		sumSq += x * x
		if x != s.data[0] {
			constant = false
		}
	}
	mean = sum / float64(n)
	variance = sumSq/float64(n) - mean*mean
	// Round-off leaves a constant series with a tiny nonzero variance.
	if constant || variance <= 0 {
		return mean, variance, ErrZeroVariance
	}
	return mean, variance, nil
}

// AutoCorrelation returns the normalised autocorrelation at lag t,
//
//	(<x_i x_{(i+t) mod N}> - <x>²) / (<x²> - <x>²),
//
// averaged over the whole series. The series is treated as cyclic: pairs
// that run off the end wrap around to the start, and lags of any sign are
// reduced modulo N. Lag 0 always gives 1.
//
// ErrEmpty is returned for an empty series and ErrZeroVariance for a
// constant one.
func (s *Series) AutoCorrelation(t int) (float64, error) {
	mean, variance, err := s.moments()
	if err != nil {
		return 0, err
	}

	n := len(s.data)
	shift := ((t % n) + n) % n
	cross := 0.0
	for i, x := range s.data {
		cross += x * s.data[(i+shift)%n]
	}
	cross /= float64(n)

	return (cross - mean*mean) / variance, nil
}

// AutoCorrelationRange returns AutoCorrelation(t) for t in [start, end), in
// order. An end equal to start yields an empty slice; an end before start
// is rejected with ErrInvalidLagRange.
func (s *Series) AutoCorrelationRange(start, end int) ([]float64, error) {
	if end < start {
		return nil, ErrInvalidLagRange
	}
	out := make([]float64, 0, end-start)
	for t := start; t < end; t++ {
		c, err := s.AutoCorrelation(t)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// TruncatedAutoCorrelation is the non-wrapping estimator: only the N-t pairs
// (x_i, x_{i+t}) that fit inside the series contribute to the cross term.
// The mean and variance still come from the whole series. t must lie in
// [0, N).
func (s *Series) TruncatedAutoCorrelation(t int) (float64, error) {
	mean, variance, err := s.moments()
	if err != nil {
		return 0, err
	}

	n := len(s.data)
	if t < 0 || t >= n {
		return 0, ErrInvalidLag
	}
	cross := 0.0
	for i := 0; i+t < n; i++ {
		cross += s.data[i] * s.data[i+t]
	}
	cross /= float64(n - t)

	return (cross - mean*mean) / variance, nil
}
