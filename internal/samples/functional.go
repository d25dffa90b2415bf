package samples

// View is a read-only window onto a series.
type View interface {
	Len() int
	At(i int) (float64, error)
	Values() []float64
	Mean() (float64, error)
	SquareMean() (float64, error)
}

// Functional computes a scalar from a whole series. It is the hook for
// estimators that depend on the sample set in a non-trivial way, such as
// resampling error estimates.
type Functional interface {
	Evaluate(v View) float64
}

// FunctionalFunc adapts an ordinary function to Functional.
type FunctionalFunc func(v View) float64

// Evaluate calls f(v).
func (f FunctionalFunc) Evaluate(v View) float64 {
	return f(v)
}

// readOnly hides the mutators of the wrapped series.
type readOnly struct {
	s *Series
}

func (r readOnly) Len() int                     { return r.s.Len() }
func (r readOnly) At(i int) (float64, error)    { return r.s.At(i) }
func (r readOnly) Values() []float64            { return r.s.Values() }
func (r readOnly) Mean() (float64, error)       { return r.s.Mean() }
func (r readOnly) SquareMean() (float64, error) { return r.s.SquareMean() }

// Apply evaluates f against a read-only view of the current samples and
// returns whatever f computes.
func (s *Series) Apply(f Functional) float64 {
	return f.Evaluate(readOnly{s: s})
}
