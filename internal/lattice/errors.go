package lattice

import "errors"

// Sentinel errors for lattice construction.
var (
	// ErrInvalidDimensions indicates a non-positive row or column count.
	ErrInvalidDimensions = errors.New("lattice: rows and cols must be positive")
	// ErrInvalidOrder indicates an initial order parameter outside [-1, 1].
	ErrInvalidOrder = errors.New("lattice: initial order must be within [-1, 1]")
	// ErrInvalidStubborn indicates a stubborn count that is negative or exceeds the lattice size.
	ErrInvalidStubborn = errors.New("lattice: stubborn count must be within [0, rows*cols]")
)
