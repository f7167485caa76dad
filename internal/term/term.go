package term

// Term is a sealed interface over goal argument forms.
// Only Constant and Variable implement it.
type Term interface {
	termNode() // Marker method - seals interface to this package
}

// Constant wraps a Value appearing literally in a goal argument.
type Constant struct {
	Val Value
}

func (Constant) termNode() {}

// Variable is a named logic variable. Name "_" is the anonymous
// wildcard: it matches any value and never binds.
type Variable struct {
	Name string
}

func (Variable) termNode() {}

// Anonymous reports whether v is the "_" wildcard.
func (v Variable) Anonymous() bool {
	return v.Name == "_"
}

// C is shorthand for Constant{Val: v}.
func C(v Value) Constant {
	return Constant{Val: v}
}

// V is shorthand for Variable{Name: name}.
func V(name string) Variable {
	return Variable{Name: name}
}

// TermString returns the text form of a term: canonical value text for
// constants, the bare name for variables.
func TermString(t Term) string {
	switch tt := t.(type) {
	case Constant:
		return tt.Val.Canonical()
	case Variable:
		return tt.Name
	default:
		return "<invalid term>"
	}
}
