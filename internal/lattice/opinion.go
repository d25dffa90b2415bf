package lattice

// Opinion is the state of a single lattice site.
type Opinion uint8

const (
	// A is the free opinion aligned with +1.
	A Opinion = iota
	// B is the free opinion aligned with -1.
	B
	// AStubborn is a +1 site that never changes.
	AStubborn
	// BStubborn is a -1 site that never changes.
	BStubborn
)

// Symbol returns the signed value of the opinion: +1 for A-aligned
// opinions and -1 for B-aligned ones.
func (o Opinion) Symbol() int {
	switch o {
	case A, AStubborn:
		return +1
	default:
		return -1
	}
}

// IsStubborn reports whether the opinion is immutable.
func (o Opinion) IsStubborn() bool {
	return o == AStubborn || o == BStubborn
}

// IsA reports whether the opinion is aligned with A, stubborn or not.
func (o Opinion) IsA() bool {
	return o.Symbol() > 0
}

// stubborn returns the stubborn counterpart with the same alignment.
func (o Opinion) stubborn() Opinion {
	if o.IsA() {
		return AStubborn
	}
	return BStubborn
}

func (o Opinion) String() string {
	switch o {
	case A:
		return "A"
	case B:
		return "B"
	case AStubborn:
		return "AStubborn"
	case BStubborn:
		return "BStubborn"
	default:
		return "Opinion(?)"
	}
}
