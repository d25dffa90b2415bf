// Package lattice implements the voter model on a periodic two-dimensional
// grid.
//
// A Lattice holds one Opinion per site in a flat row-major slice. All index
// arithmetic wraps around both axes, so the grid is a torus. The engine owns
// no randomness of its own; every stochastic call receives a randsrc.Source.
package lattice

import (
	"io"
	"math"

	"github.com/nvandessel/voter/internal/randsrc"
)

// Lattice is a toroidal grid of opinions. It is not safe for concurrent use.
type Lattice struct {
	rows  int
	cols  int
	sites []Opinion
}

// Option configures lattice construction.
type Option func(*options)

type options struct {
	stubborn int
}

// WithStubborn marks n distinct, uniformly chosen sites as stubborn once the
// initial order is in place. Each chosen site keeps its alignment.
func WithStubborn(n int) Option {
	return func(o *options) {
		o.stubborn = n
	}
}

// New builds a rows x cols lattice whose fraction of A sites is
// (initialOrder+1)/2, rounded to the nearest whole site. Every other site
// starts as B.
//
// A sites are placed by drawing uniform indices and flipping any that are not
// already A until the target count is reached, so the number of draws grows
// as the lattice fills up.
func New(src randsrc.Source, rows, cols int, initialOrder float64, opts ...Option) (*Lattice, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if math.IsNaN(initialOrder) || initialOrder < -1 || initialOrder > 1 {
		return nil, ErrInvalidOrder
	}

	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	size := rows * cols
	if cfg.stubborn < 0 || cfg.stubborn > size {
		return nil, ErrInvalidStubborn
	}

	l := &Lattice{
		rows:  rows,
		cols:  cols,
		sites: make([]Opinion, size),
	}
	for i := range l.sites {
		l.sites[i] = B
	}

	fraction := (initialOrder + 1) / 2
	target := int(math.Round(fraction * float64(size)))
	for placed := 0; placed < target; {
		site := src.IntN(0, size-1)
		if l.sites[site] != A {
			l.sites[site] = A
			placed++
		}
	}

	for placed := 0; placed < cfg.stubborn; {
		site := src.IntN(0, size-1)
		if !l.sites[site].IsStubborn() {
			l.sites[site] = l.sites[site].stubborn()
			placed++
		}
	}

	return l, nil
}

// Rows returns the number of rows.
func (l *Lattice) Rows() int { return l.rows }

// Cols returns the number of columns.
func (l *Lattice) Cols() int { return l.cols }

// Size returns rows*cols.
func (l *Lattice) Size() int { return l.rows * l.cols }

// wrap reduces i into [0, n), handling negative offsets.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (l *Lattice) index(row, col int) int {
	return wrap(col, l.cols) + wrap(row, l.rows)*l.cols
}

// At returns the opinion at (row, col). Indices of any sign are wrapped.
func (l *Lattice) At(row, col int) Opinion {
	return l.sites[l.index(row, col)]
}

// Set replaces the opinion at (row, col). Indices of any sign are wrapped.
// Set bypasses the stubborn rule and is meant for engine setup and tests.
func (l *Lattice) Set(row, col int, o Opinion) {
	l.sites[l.index(row, col)] = o
}

// neighbour offsets in draw order: east, south, west, north.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{0, -1},
	{-1, 0},
}

// Update picks a uniformly random site and, unless it is stubborn, copies
// the alignment of a uniformly random nearest neighbour onto it. The
// resulting opinion at the chosen site is returned.
func (l *Lattice) Update(src randsrc.Source) Opinion {
	row := src.IntN(0, l.rows-1)
	col := src.IntN(0, l.cols-1)

	current := l.At(row, col)
	if current.IsStubborn() {
		return current
	}

	d := directions[src.IntN(0, 3)]
	next := B
	if l.At(row+d[0], col+d[1]).IsA() {
		next = A
	}
	l.Set(row, col, next)
	return next
}

// Sweep performs Size() single-site updates.
func (l *Lattice) Sweep(src randsrc.Source) {
	for i := 0; i < l.Size(); i++ {
		l.Update(src)
	}
}

// OrderParameter returns the mean site symbol, a value in [-1, 1].
func (l *Lattice) OrderParameter() float64 {
	sum := 0
	for _, o := range l.sites {
		sum += o.Symbol()
	}
	return float64(sum) / float64(l.Size())
}

// Count returns the number of sites holding exactly o.
func (l *Lattice) Count(o Opinion) int {
	n := 0
	for _, s := range l.sites {
		if s == o {
			n++
		}
	}
	return n
}

// WriteTo writes the lattice as rows of signed symbols, each followed by a
// single space, with a newline closing every row:
//
//	+1 -1 +1
//	-1 -1 +1
//
// The whole grid goes out in one Write call.
func (l *Lattice) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, l.Size()*3+l.rows)
	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.cols; col++ {
			if l.sites[row*l.cols+col].IsA() {
				buf = append(buf, '+', '1', ' ')
			} else {
				buf = append(buf, '-', '1', ' ')
			}
		}
		buf = append(buf, '\n')
	}
	n, err := w.Write(buf)
	return int64(n), err
}
