package fog

import "strings"

// Mode is the three-flag assignment-mode lattice of the placement
// algorithm. The eight points of the lattice only exercise four distinct
// code paths in AskAssign — Cost subsumes Neighbours in the displacement
// branch — but all eight are representable and named.
type Mode struct {
	Neighbours bool
	QoS        bool
	Cost       bool
	name       string
}

// NewMode builds a Mode and precomputes its canonical name.
func NewMode(neighbours, qos, cost bool) Mode {
	m := Mode{Neighbours: neighbours, QoS: qos, Cost: cost}
	m.name = m.computeName()
	return m
}

func (m Mode) computeName() string {
	if !m.Neighbours && !m.QoS && !m.Cost {
		return "nearest"
	}
	var parts []string
	if m.Neighbours {
		parts = append(parts, "neighbours")
	}
	if m.QoS {
		parts = append(parts, "qos")
	}
	if m.Cost {
		parts = append(parts, "cost")
	}
	return strings.Join(parts, "+")
}

// Name returns the mode's stable canonical string, computed once at
// construction by NewMode.
func (m Mode) Name() string {
	if m.name == "" {
		return m.computeName()
	}
	return m.name
}
