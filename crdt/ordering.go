package crdt

// Ordering is the outcome of comparing two replica
// states under the partial order of their lattice.
type Ordering int

// Possible outcomes of a partial comparison. Incomparable
// is a regular result, not an error: neither state
// includes the other one.
const (
	Incomparable Ordering = iota
	Less
	Equal
	Greater
)

// Comparable reports whether o is a defined order.
func (o Ordering) Comparable() bool {
	return o != Incomparable
}

func (o Ordering) String() string {

	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}
