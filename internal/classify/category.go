// Package classify maps free-text queries to one of the four topical
// categories that route to the specialized responders.
package classify

// Category is the closed set of topics a query can be routed to.
type Category int

const (
	// General covers educational questions about menopause itself; it is
	// also the deterministic default when classification is ambiguous.
	General Category = iota
	// Consultation covers medical advice and symptom questions.
	Consultation
	// Diet covers nutrition and dietary questions.
	Diet
	// Exercise covers physical activity questions.
	Exercise
)

func (c Category) String() string {
	switch c {
	case Consultation:
		return "CONSULTATION"
	case Diet:
		return "DIET"
	case Exercise:
		return "EXERCISE"
	default:
		return "GENERAL"
	}
}

// All lists every category, default first.
func All() []Category {
	return []Category{General, Consultation, Diet, Exercise}
}
