package typesystem

// Kind classifies type parameters. Value-kinded parameters range over
// ordinary types, numeric-kinded parameters range over sequence lengths.
type Kind int

const (
	KindValue Kind = iota
	KindNum
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "*"
	case KindNum:
		return "#"
	default:
		return "?"
	}
}
