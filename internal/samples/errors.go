package samples

import "errors"

// Sentinel errors for series operations.
var (
	// ErrUnderflow indicates RemoveLast on an empty series.
	ErrUnderflow = errors.New("samples: remove from empty series")
	// ErrOutOfRange indicates an index outside [0, Len()).
	ErrOutOfRange = errors.New("samples: index out of range")
	// ErrEmpty indicates a statistic requested from an empty series.
	ErrEmpty = errors.New("samples: empty series")
	// ErrTooFewSamples indicates the naive error of fewer than two samples.
	ErrTooFewSamples = errors.New("samples: need at least two samples")
	// ErrZeroVariance indicates an autocorrelation of a constant series.
	ErrZeroVariance = errors.New("samples: zero variance")
	// ErrInvalidLagRange indicates a lag range whose end precedes its start.
	ErrInvalidLagRange = errors.New("samples: lag range end precedes start")
	// ErrInvalidLag indicates a lag outside [0, Len()) for the truncated estimator.
	ErrInvalidLag = errors.New("samples: lag out of range")
	// ErrMalformedLine indicates a series line that is not "<index> <value>".
	ErrMalformedLine = errors.New("samples: malformed line")
)
