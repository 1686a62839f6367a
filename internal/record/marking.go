package record

// Marking is the terminal classification of a record. Unknown and Binary are
// independent bits; Dangerous dominates whatever else is set.
type Marking uint8

const (
	Clean     Marking = 0
	Unknown   Marking = 1 << 0
	Binary    Marking = 1 << 1
	Dangerous Marking = 1 << 2
)

// Has reports whether every bit of flag is set on m.
func (m Marking) Has(flag Marking) bool {
	return flag != Clean && m&flag == flag
}

func (m Marking) String() string {
	switch {
	case m.Has(Dangerous):
		return "dangerous"
	case m.Has(Unknown | Binary):
		return "unknown+binary"
	case m.Has(Unknown):
		return "unknown"
	case m.Has(Binary):
		return "binary"
	default:
		return "clean"
	}
}
